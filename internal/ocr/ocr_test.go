package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner scripts external commands per binary name.
type fakeRunner struct {
	handle func(name string, args []string) (string, error)
	calls  []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	out, err := f.handle(name, args)
	if err != nil {
		return nil, []byte(err.Error()), err
	}
	return []byte(out), nil, nil
}

func TestExtractImage(t *testing.T) {
	runner := &fakeRunner{handle: func(name string, args []string) (string, error) {
		require.Equal(t, "tesseract", name)
		assert.Contains(t, args, "-l")
		assert.Contains(t, args, "jpn+eng")
		return "氏名：田中太郎\n勤務時間：１７６．５時間\n", nil
	}}
	e := NewExtractor(Config{}, nil)
	e.runner = runner

	res, err := e.Extract(context.Background(), "april.png")
	require.NoError(t, err)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "IMAGE", res.SourceType)
	// NFKC folding happens at acquisition time.
	assert.Contains(t, res.Text, "176.5時間")
	assert.Greater(t, res.Confidence, float32(0.2))
}

func TestExtractPDFWithTextLayer(t *testing.T) {
	body := "氏名：田中太郎\n勤務時間：176.5時間\n" + strings.Repeat("出勤 8:30 退勤 17:30\n", 5)
	runner := &fakeRunner{handle: func(name string, args []string) (string, error) {
		require.Equal(t, "pdftotext", name)
		return body, nil
	}}
	e := NewExtractor(Config{}, nil)
	e.runner = runner

	res, err := e.Extract(context.Background(), "april.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, []string{"pdftotext"}, runner.calls)
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	runner := &fakeRunner{}
	runner.handle = func(name string, args []string) (string, error) {
		switch name {
		case "pdftotext":
			return "  ", nil // no usable text layer
		case "pdftoppm":
			// last arg is the page prefix; fabricate one rendered page
			prefix := args[len(args)-1]
			require.NoError(t, os.WriteFile(prefix+"-1.png", []byte("png"), 0o644))
			return "", nil
		case "tesseract":
			return "勤務時間：160時間", nil
		default:
			return "", fmt.Errorf("unexpected command %s", name)
		}
	}
	e := NewExtractor(Config{}, nil)
	e.runner = runner

	res, err := e.Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "160時間")
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract"}, runner.calls)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	_, err := e.Extract(context.Background(), "notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}
