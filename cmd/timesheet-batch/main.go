package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kintai-tools/timesheet-tracker/internal/common"
	"github.com/kintai-tools/timesheet-tracker/internal/core"
	"github.com/kintai-tools/timesheet-tracker/internal/export"
	"github.com/kintai-tools/timesheet-tracker/internal/extract"
	"github.com/kintai-tools/timesheet-tracker/internal/ocr"
	repo "github.com/kintai-tools/timesheet-tracker/internal/repository"
	"github.com/kintai-tools/timesheet-tracker/internal/rules"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		inmem = flag.Bool("inmem", false, "use in-memory SQLite session store")
		dir   = flag.String("dir", "", "directory to process timesheets from (required)")
		out   = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		trace = flag.Bool("trace", false, "collect per-document extraction traces")
		debug = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Validate required flags
	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	// Setup logger
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Load configuration
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// If output file not specified, use parent directory with default filename
	if *out == "" {
		parentDir := filepath.Dir(*dir)
		*out = filepath.Join(parentDir, cfg.Export.OutputPath)
	}

	// Open session store
	storePath := cfg.Store.Path
	if *inmem {
		storePath = ":memory:"
	}
	db, err := repo.Open(ctx, repo.Config{
		Path:        storePath,
		DialTimeout: cfg.Store.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, logger)

	resultsRepo := repo.NewResultRepository(db, logger)

	// Load the extraction rule pack
	pack, err := rules.Load()
	if err != nil {
		logger.Error("failed to load rule pack", "error", err)
		os.Exit(1)
	}
	engine := extract.NewEngine(pack, logger)

	// Setup text acquisition
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:           cfg.OCR.Pdftotext,
		Pdftoppm:            cfg.OCR.Pdftoppm,
		Tesseract:           cfg.OCR.Tesseract,
		TesseractLang:       cfg.OCR.TesseractLang,
		DPI:                 cfg.OCR.DPI,
		MaxPages:            cfg.OCR.MaxPages,
		TessdataDir:         cfg.OCR.TessdataDir,
		EnableTSVConfidence: cfg.OCR.EnableTSVConfidence,
		PSM:                 cfg.OCR.PSM,
		OEM:                 cfg.OCR.OEM,
	}, logger)

	// Setup processor
	processor := core.NewProcessor(logger, extractor, engine, resultsRepo, *trace)

	// Process directory
	logger.Info("starting batch run", "dir", *dir)
	fileResults, stats, err := processor.ProcessDirectory(ctx, *dir)
	if err != nil {
		logger.Error("failed to process directory", "error", err)
		os.Exit(1)
	}
	logger.Info("directory processing complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed)

	if *trace {
		for key, lines := range extract.Traces() {
			logger.Debug("extraction trace", "fingerprint", key, "decisions", lines)
		}
	}

	// Export to XLSX
	logger.Info("exporting to XLSX", "output", *out)
	exportService := export.NewService(resultsRepo, logger)

	xlsxBytes, err := exportService.ExportResultsXLSX(ctx)
	if err != nil {
		logger.Error("failed to export results", "error", err)
		os.Exit(1)
	}

	// Write to file
	err = os.WriteFile(*out, xlsxBytes, 0644)
	if err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	// Log summary
	logger.Info("batch processing complete",
		"files_matched", stats.Matched,
		"files_processed", stats.Succeeded,
		"failures", stats.Failed,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", stats.Matched)
	fmt.Printf("- Files processed: %d\n", stats.Succeeded)
	fmt.Printf("- Failures: %d\n", stats.Failed)
	fmt.Printf("- Output: %s\n", *out)
	for _, fr := range fileResults {
		if fr.Err != "" {
			fmt.Printf("- Failed: %s (%s)\n", fr.Path, fr.Err)
		}
	}
}
