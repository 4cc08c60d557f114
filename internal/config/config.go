package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pdfcompare/internal/logger"
)

type Config struct {
	// Report mining
	ReportsDir string
	PartTypes  []string
	Workers    int
	Timeout    time.Duration

	// Google Sheets export
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

const (
	DefaultWorkers        = 4
	DefaultTimeoutSeconds = 300
)

func Load() (*Config, error) {
	workers, err := getEnvInt("PDFCOMPARE_WORKERS", DefaultWorkers)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	timeoutSecs, err := getEnvInt("PDFCOMPARE_TIMEOUT", DefaultTimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config := &Config{
		ReportsDir:           getEnv("PDFCOMPARE_REPORTS_DIR", ""),
		PartTypes:            splitList(getEnv("PDFCOMPARE_PART_TYPES", "675,50TT,50TL")),
		Workers:              workers,
		Timeout:              time.Duration(timeoutSecs) * time.Second,
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "CMM_Summary"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when the environment cannot be
// loaded.
func Default() *Config {
	return &Config{
		PartTypes:            splitList("675,50TT,50TL"),
		Workers:              DefaultWorkers,
		Timeout:              DefaultTimeoutSeconds * time.Second,
		GoogleSheetWorksheet: "CMM_Summary",
		LogLevel:             "info",
		LogFormat:            "console",
		LogTimeFormat:        time.RFC3339,
		LogOutput:            "stderr",
	}
}

func (c *Config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("PDFCOMPARE_WORKERS must be positive, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("PDFCOMPARE_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.GoogleSheetWorksheet == "" {
		return fmt.Errorf("GOOGLE_SHEET_WORKSHEET must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
