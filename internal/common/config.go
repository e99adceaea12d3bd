package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store  StoreConfig
	OCR    OCRConfig
	Export ExportConfig
}

// StoreConfig holds session-store configuration
type StoreConfig struct {
	Path        string
	DialTimeout time.Duration
}

// OCRConfig holds text-acquisition configuration
type OCRConfig struct {
	Pdftotext           string
	Pdftoppm            string
	Tesseract           string
	TesseractLang       string
	DPI                 int
	MaxPages            int
	TessdataDir         string
	EnableTSVConfidence bool
	PSM                 int
	OEM                 int
}

// ExportConfig holds report-output configuration
type ExportConfig struct {
	OutputPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:        getEnv("STORE_PATH", "timesheet-results.db"),
			DialTimeout: getEnvAsDuration("STORE_DIAL_TIMEOUT", 3*time.Second),
		},
		OCR: OCRConfig{
			Pdftotext:           getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:            getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:           getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang:       getEnv("TESSERACT_LANG", "jpn+eng"),
			DPI:                 getEnvAsInt("OCR_DPI", 300),
			MaxPages:            getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir:         getEnv("TESSDATA_PREFIX", ""),
			EnableTSVConfidence: getEnvAsBool("OCR_TSV_CONFIDENCE", false),
			PSM:                 getEnvAsInt("OCR_PSM", 0),
			OEM:                 getEnvAsInt("OCR_OEM", 0),
		},
		Export: ExportConfig{
			OutputPath: getEnv("EXPORT_PATH", "勤務時間集計.xlsx"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return NewAppError("CONFIG_ERROR", "STORE_PATH is required", ErrInvalidInput)
	}
	if c.OCR.Tesseract == "" {
		return NewAppError("CONFIG_ERROR", "TESSERACT_BIN is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	return nil
}
