// Package core coordinates text acquisition, extraction and result
// accumulation for one document at a time.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kintai-tools/timesheet-tracker/internal/entity"
	"github.com/kintai-tools/timesheet-tracker/internal/extract"
	"github.com/kintai-tools/timesheet-tracker/internal/ocr"
	"github.com/kintai-tools/timesheet-tracker/internal/repository"
)

// TextAcquirer produces one text blob per document file.
type TextAcquirer interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// Processor runs acquisition then extraction and appends the rows to
// the session store.
type Processor struct {
	logger        *slog.Logger
	acquirer      TextAcquirer
	engine        *extract.Engine
	resultsRepo   repository.ResultRepository
	collectTraces bool
}

func NewProcessor(
	logger *slog.Logger,
	acquirer TextAcquirer,
	engine *extract.Engine,
	resultsRepo repository.ResultRepository,
	collectTraces bool,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:        logger,
		acquirer:      acquirer,
		engine:        engine,
		resultsRepo:   resultsRepo,
		collectTraces: collectTraces,
	}
}

// ProcessFile acquires text from one file, extracts records and
// persists them. The only errors returned are acquisition and storage
// failures; content that yields nothing still produces a row with the
// unknown-name sentinel and no hours, so the report shows the file was
// seen.
func (p *Processor) ProcessFile(ctx context.Context, path string) ([]*entity.DocumentResult, error) {
	acq, err := p.acquirer.Extract(ctx, path)
	if err != nil {
		p.logger.Error("processor.acquire.failed", "path", path, "err", err)
		return nil, fmt.Errorf("acquire text: %w", err)
	}
	p.logger.Debug("processor acquire success",
		"path", path,
		"method", acq.Method,
		"pages", acq.Pages,
		"confidence", acq.Confidence,
	)

	var tr *extract.Trace
	if p.collectTraces {
		tr = &extract.Trace{}
	}

	fileName := filepath.Base(path)
	res := p.engine.ExtractWithTrace(acq.Text, fileName, tr)

	rows := make([]*entity.DocumentResult, 0, len(res.Records))
	for _, rec := range res.Records {
		rows = append(rows, &entity.DocumentResult{
			FileName:       fileName,
			EmployeeName:   rec.Name,
			TotalHours:     rec.TotalHours(),
			DetectedValues: rec.Hours,
			DetectedCount:  len(rec.Hours),
			Kind:           string(res.Kind),
			Origin:         string(rec.Origin),
			ProcessedAt:    res.ProcessedAt,
		})
	}
	if err := p.resultsRepo.Append(ctx, rows); err != nil {
		p.logger.Error("processor.store.failed", "path", path, "err", err)
		return nil, fmt.Errorf("store results: %w", err)
	}

	p.logger.Info("processed document",
		"file", fileName,
		"kind", string(res.Kind),
		"rows", len(rows),
	)
	return rows, nil
}
