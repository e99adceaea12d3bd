// Package extract is the timesheet extraction and disambiguation
// engine: candidate-pattern matching, tiered selection, plausibility
// filtering, deduplication and single-vs-multi employee reconstruction
// over one OCR text blob. Pure computation; no I/O, no shared state.
package extract

import (
	"log/slog"
	"time"

	"github.com/kintai-tools/timesheet-tracker/constants"
	"github.com/kintai-tools/timesheet-tracker/internal/rules"
)

// EmployeeRecord is one extracted employee. For the single-subject
// pipeline Hours is the full hour selection; for a table row it holds
// the row's one detected value.
type EmployeeRecord struct {
	Name   string
	Hours  []float64
	Origin constants.Family
}

// TotalHours is the summed selection, nil when nothing was detected.
func (r EmployeeRecord) TotalHours() *float64 { return SumHours(r.Hours) }

// Result is the outcome for one document.
type Result struct {
	Kind        constants.ResultKind
	Records     []EmployeeRecord
	RawText     string
	FileName    string
	ProcessedAt time.Time
}

// Engine runs the two extraction pipelines over acquired text.
type Engine struct {
	pack   *rules.Pack
	logger *slog.Logger
}

func NewEngine(pack *rules.Pack, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{pack: pack, logger: logger}
}

// Extract classifies and extracts one document without diagnostics.
func (e *Engine) Extract(rawText, fileName string) Result {
	return e.ExtractWithTrace(rawText, fileName, nil)
}

// ExtractWithTrace runs the table extractor first as the discriminator:
// more than one distinct row classifies the document as multi-employee
// and those rows win. Anything less falls back to the single-subject
// pipeline; a 0- or 1-row table result is discarded, never merged.
func (e *Engine) ExtractWithTrace(rawText, fileName string, tr *Trace) Result {
	text := Normalize(rawText)
	res := Result{
		RawText:     rawText,
		FileName:    fileName,
		ProcessedAt: time.Now().UTC(),
	}

	tableRecs := e.tableRecords(text, tr)
	if len(tableRecs) > 1 {
		tr.Logf("classified multi-employee: %d rows", len(tableRecs))
		res.Kind = constants.ResultMulti
		res.Records = tableRecs
	} else {
		tr.Logf("classified single-subject (%d table row)", len(tableRecs))
		name := e.extractName(text, tr)
		sel := selectHours(e.hourCandidates(text, tr), tr)
		res.Kind = constants.ResultSingle
		res.Records = []EmployeeRecord{{Name: name, Hours: sel, Origin: constants.FamilySingle}}
	}

	if tr != nil {
		recordTrace(text, tr)
	}
	e.logger.Debug("extraction done",
		"file", fileName,
		"kind", string(res.Kind),
		"records", len(res.Records),
	)
	return res
}
