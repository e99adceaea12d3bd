package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintai-tools/timesheet-tracker/constants"
	"github.com/kintai-tools/timesheet-tracker/internal/entity"
	"github.com/kintai-tools/timesheet-tracker/internal/extract"
	"github.com/kintai-tools/timesheet-tracker/internal/ocr"
	"github.com/kintai-tools/timesheet-tracker/internal/rules"
)

type fakeAcquirer struct {
	texts map[string]string // keyed by base name
	err   error
}

func (f *fakeAcquirer) Extract(_ context.Context, path string) (ocr.ExtractionResult, error) {
	if f.err != nil {
		return ocr.ExtractionResult{}, f.err
	}
	return ocr.ExtractionResult{
		Text:   f.texts[filepath.Base(path)],
		Pages:  1,
		Method: "fake",
	}, nil
}

type memRepo struct {
	rows []*entity.DocumentResult
	err  error
}

func (m *memRepo) Append(_ context.Context, rows []*entity.DocumentResult) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memRepo) List(_ context.Context) ([]*entity.DocumentResult, error) {
	return m.rows, nil
}

func (m *memRepo) Clear(_ context.Context) error {
	m.rows = nil
	return nil
}

func newTestProcessor(t *testing.T, acq TextAcquirer, repo *memRepo) *Processor {
	t.Helper()
	pack, err := rules.Load()
	require.NoError(t, err)
	return NewProcessor(nil, acq, extract.NewEngine(pack, nil), repo, false)
}

func TestProcessFileSingleRecord(t *testing.T) {
	acq := &fakeAcquirer{texts: map[string]string{
		"june.pdf": "氏名：田中太郎\n勤務時間：176.5時間",
	}}
	repo := &memRepo{}
	p := newTestProcessor(t, acq, repo)

	rows, err := p.ProcessFile(context.Background(), "/data/june.pdf")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "june.pdf", r.FileName)
	assert.Equal(t, "田中太郎", r.EmployeeName)
	require.NotNil(t, r.TotalHours)
	assert.InDelta(t, 176.5, *r.TotalHours, 0.001)
	assert.Equal(t, string(constants.ResultSingle), r.Kind)
	assert.Len(t, repo.rows, 1)
}

func TestProcessFileMultiRecord(t *testing.T) {
	acq := &fakeAcquirer{texts: map[string]string{
		"team.pdf": "| 田中太郎 | 176.5 |\n| 鈴木花子 | 160.0 |",
	}}
	repo := &memRepo{}
	p := newTestProcessor(t, acq, repo)

	rows, err := p.ProcessFile(context.Background(), "team.pdf")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, string(constants.ResultMulti), rows[0].Kind)
	assert.Equal(t, string(constants.ResultMulti), rows[1].Kind)
	assert.Len(t, repo.rows, 2)
}

func TestProcessFileEmptyTextStillRecorded(t *testing.T) {
	acq := &fakeAcquirer{texts: map[string]string{}}
	repo := &memRepo{}
	p := newTestProcessor(t, acq, repo)

	rows, err := p.ProcessFile(context.Background(), "blank.png")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, constants.UnknownName, rows[0].EmployeeName)
	assert.Nil(t, rows[0].TotalHours)
	assert.Zero(t, rows[0].DetectedCount)
}

func TestProcessFileAcquireError(t *testing.T) {
	acq := &fakeAcquirer{err: errors.New("tesseract not found")}
	repo := &memRepo{}
	p := newTestProcessor(t, acq, repo)

	_, err := p.ProcessFile(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire text")
	assert.Empty(t, repo.rows)
}

func TestProcessFileStoreError(t *testing.T) {
	acq := &fakeAcquirer{texts: map[string]string{
		"a.pdf": "勤務時間: 160",
	}}
	repo := &memRepo{err: errors.New("database is locked")}
	p := newTestProcessor(t, acq, repo)

	_, err := p.ProcessFile(context.Background(), "a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store results")
}

func TestProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.pdf", "two.png", "notes.txt", ".hidden.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cache", "three.pdf"), []byte("x"), 0o644))

	acq := &fakeAcquirer{texts: map[string]string{
		"one.pdf": "氏名：田中太郎\n勤務時間：176.5時間",
		"two.png": "Name: John Smith\nTotal Hours: 168.0h",
	}}
	repo := &memRepo{}
	p := newTestProcessor(t, acq, repo)

	results, stats, err := p.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)

	// notes.txt filtered by extension; hidden file and dir skipped.
	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(0), stats.Failed)
	require.Len(t, results, 2)
	assert.Len(t, repo.rows, 2)
}

func TestProcessDirectoryContinuesOnFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.pdf"), []byte("x"), 0o644))

	acq := &failFirstAcquirer{
		failBase: "bad.pdf",
		inner:    &fakeAcquirer{texts: map[string]string{"good.pdf": "合計: 160"}},
	}
	repo := &memRepo{}
	p := newTestProcessor(t, acq, repo)

	results, stats, err := p.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.Equal(t, uint32(1), stats.Succeeded)

	var failed, succeeded int
	for _, r := range results {
		if r.Err != "" {
			failed++
		} else {
			succeeded++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, succeeded)
	assert.Len(t, repo.rows, 1)
}

func TestProcessDirectoryEmptyRoot(t *testing.T) {
	p := newTestProcessor(t, &fakeAcquirer{}, &memRepo{})
	_, _, err := p.ProcessDirectory(context.Background(), "  ")
	require.Error(t, err)
}

type failFirstAcquirer struct {
	failBase string
	inner    TextAcquirer
}

func (f *failFirstAcquirer) Extract(ctx context.Context, path string) (ocr.ExtractionResult, error) {
	if filepath.Base(path) == f.failBase {
		return ocr.ExtractionResult{}, errors.New("unreadable scan")
	}
	return f.inner.Extract(ctx, path)
}
