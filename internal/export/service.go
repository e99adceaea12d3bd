package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kintai-tools/timesheet-tracker/constants"
	"github.com/kintai-tools/timesheet-tracker/internal/entity"
	"github.com/kintai-tools/timesheet-tracker/internal/repository"
)

// Service is a tiny façade over the result store that produces XLSX
// bytes for the accumulated report.
type Service struct {
	resultsRepo repository.ResultRepository
	logger      *slog.Logger
}

func NewService(repo repository.ResultRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{resultsRepo: repo, logger: logger}
}

// ExportResultsXLSX returns an XLSX workbook (as bytes) with one row
// per accumulated employee record.
func (s *Service) ExportResultsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	rows, err := s.resultsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "勤務時間"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"ファイル名",
		"社員名",
		"勤務時間",
		"詳細",
		"判定",
		"処理日時",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for _, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx)
			_ = f.SetCellValue(sheet, cell, v)
		}

		hours := constants.NotDetected
		if r.TotalHours != nil {
			hours = fmt.Sprintf("%.2f時間", *r.TotalHours)
		}

		write(1, r.FileName)
		write(2, r.EmployeeName)
		write(3, hours)
		write(4, formatValues(r.DetectedValues))
		write(5, formatOrigin(r))
		write(6, r.ProcessedAt.UTC().Format(time.RFC3339))

		rowIdx++
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // file name
	_ = f.SetColWidth(sheet, "B", "B", 18) // employee
	_ = f.SetColWidth(sheet, "C", "C", 14) // total
	_ = f.SetColWidth(sheet, "D", "D", 24) // detected values
	_ = f.SetColWidth(sheet, "E", "E", 12) // classification
	_ = f.SetColWidth(sheet, "F", "F", 22) // timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func formatValues(vals []float64) string {
	if len(vals) == 0 {
		return ""
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// formatOrigin renders the classification column: the pattern family
// for multi-employee rows, the document kind otherwise.
func formatOrigin(r *entity.DocumentResult) string {
	if r.Kind == string(constants.ResultMulti) {
		return fmt.Sprintf("%s/%s", r.Kind, r.Origin)
	}
	return r.Kind
}
