package ocr

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kintai-tools/timesheet-tracker/constants"
	"github.com/kintai-tools/timesheet-tracker/internal/extract"
)

// Scanned timesheets carry ruled lines that OCR reads as runs of
// dashes/underscores; drop those lines before the engine sees them.
var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return ExtractionResult{SourceType: constants.IMAGE, Warnings: warn}, err
	}
	txt = extract.Normalize(txt)

	conf := heuristicConfidence(txt)
	if e.cfg.EnableTSVConfidence {
		if ocrConf, err := e.tesseractTSVConfidence(ctx, path); err != nil {
			warn = append(warn, err.Error())
		} else if ocrConf > 0 {
			// blend: weight the engine's own word confidence higher
			conf = 0.7*ocrConf + 0.3*conf
		}
	}
	if conf > 1.0 {
		conf = 1.0
	}

	return ExtractionResult{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warn,
		Confidence: conf,
	}, nil
}

// tesseractArgs builds the shared invocation: <file> stdout -l <lang>
// plus the optional tuning flags.
func (e *Extractor) tesseractArgs(path string, extra ...string) []string {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return append(args, extra...)
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.tesseractArgs(path)...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return reBoxNoise.ReplaceAllString(string(out), ""), nil, nil
}

// tesseractTSVConfidence reruns the page in TSV mode and returns the
// mean per-word confidence scaled to 0..1. Words tesseract could not
// score (conf -1, typically layout rows) are excluded from the mean.
func (e *Extractor) tesseractTSVConfidence(ctx context.Context, path string) (float32, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.tesseractArgs(path, "tsv")...)
	if err != nil {
		return 0, fmt.Errorf("tesseract tsv: %w (%s)", err, truncate(string(errb), 256))
	}

	var sum, n float64
	for i, line := range strings.Split(string(out), "\n") {
		if i == 0 || line == "" {
			continue // header
		}
		cols := strings.Split(line, "\t")
		// conf is the 11th column; the word text comes after it
		if len(cols) < 12 || cols[10] == "" || cols[10] == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(cols[10], 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float32(sum / n / 100.0), nil
}
