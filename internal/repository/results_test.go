package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintai-tools/timesheet-tracker/internal/entity"
)

func testRepo(t *testing.T) ResultRepository {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db, nil) })
	return NewResultRepository(db, nil)
}

func TestAppendListRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	total := 176.5
	rows := []*entity.DocumentResult{
		{
			FileName:       "april.png",
			EmployeeName:   "田中太郎",
			TotalHours:     &total,
			DetectedValues: []float64{176.5},
			DetectedCount:  1,
			Kind:           "SINGLE",
			Origin:         "SINGLE",
			ProcessedAt:    time.Now().UTC(),
		},
		{
			FileName:     "april.png",
			EmployeeName: "不明",
			Kind:         "SINGLE",
			Origin:       "SINGLE",
			ProcessedAt:  time.Now().UTC(),
		},
	}
	require.NoError(t, repo.Append(ctx, rows))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "田中太郎", got[0].EmployeeName)
	require.NotNil(t, got[0].TotalHours)
	assert.InDelta(t, 176.5, *got[0].TotalHours, 1e-9)
	assert.Equal(t, []float64{176.5}, got[0].DetectedValues)

	// No detection stays nil, never zero.
	assert.Nil(t, got[1].TotalHours)
	assert.Empty(t, got[1].DetectedValues)
}

func TestAppendEmptyIsNoop(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.Append(context.Background(), nil))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, []*entity.DocumentResult{{
		FileName:     "roster.pdf",
		EmployeeName: "鈴木花子",
		Kind:         "MULTI",
		Origin:       "TABULAR",
		ProcessedAt:  time.Now().UTC(),
	}}))
	require.NoError(t, repo.Clear(ctx))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
