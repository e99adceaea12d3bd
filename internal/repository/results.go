package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kintai-tools/timesheet-tracker/internal/entity"
)

// ResultRepository is the session-scoped accumulation of report rows.
// It lives for the duration of a user session and is explicitly
// clearable; nothing in the extraction core reads it back.
type ResultRepository interface {
	Append(ctx context.Context, rows []*entity.DocumentResult) error
	List(ctx context.Context) ([]*entity.DocumentResult, error)
	Clear(ctx context.Context) error
}

type resultRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewResultRepository(db *sql.DB, logger *slog.Logger) ResultRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &resultRepository{db: db, logger: logger}
}

func (r *resultRepository) Append(ctx context.Context, rows []*entity.DocumentResult) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO document_results
		(id, file_name, employee_name, total_hours, detected_values, detected_count, kind, origin, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		var total sql.NullFloat64
		if row.TotalHours != nil {
			total = sql.NullFloat64{Float64: *row.TotalHours, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, q,
			row.ID.String(),
			row.FileName,
			row.EmployeeName,
			total,
			encodeValues(row.DetectedValues),
			row.DetectedCount,
			row.Kind,
			row.Origin,
			row.ProcessedAt.UTC(),
		); err != nil {
			r.logger.Error("failed to append result", "file", row.FileName, "error", err)
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.logger.Debug("results appended", "rows", len(rows))
	return nil
}

func (r *resultRepository) List(ctx context.Context) ([]*entity.DocumentResult, error) {
	const q = `SELECT id, file_name, employee_name, total_hours, detected_values, detected_count, kind, origin, processed_at
		FROM document_results ORDER BY processed_at, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		r.logger.Error("failed to list results", "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.DocumentResult
	for rows.Next() {
		var (
			res   entity.DocumentResult
			id    string
			total sql.NullFloat64
			vals  string
		)
		if err := rows.Scan(&id, &res.FileName, &res.EmployeeName, &total, &vals,
			&res.DetectedCount, &res.Kind, &res.Origin, &res.ProcessedAt); err != nil {
			return nil, err
		}
		if res.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if total.Valid {
			v := total.Float64
			res.TotalHours = &v
		}
		res.DetectedValues = decodeValues(vals)
		out = append(out, &res)
	}
	return out, rows.Err()
}

func (r *resultRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM document_results`); err != nil {
		r.logger.Error("failed to clear results", "error", err)
		return err
	}
	r.logger.Info("result store cleared")
	return nil
}

// detected_values is stored as a comma-joined decimal list; the values
// are engine output, already rounded to 2 decimals.
func encodeValues(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func decodeValues(s string) []float64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}
