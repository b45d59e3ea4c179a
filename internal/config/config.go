package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the shift pipeline reads. Values come from
// environment variables, optionally seeded from a .env file, and are passed
// explicitly to the pipeline rather than read as process-wide state.
type Config struct {
	BaseURL string
	Token   string

	InputFile  string
	SchemaFile string
	OutputFile string // optional; empty disables the payload JSON export

	GroupByColumn   string
	StartColumn     string
	StartDateColumn string
	StartTimeColumn string
	DropColumns     []string // Comma-separated in env
	KeepColumns     []string // Comma-separated in env
	ShiftsKey       string

	HTTPTimeout      time.Duration
	DryRun           bool
	StrictValidation bool
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists (useful for local development)
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading, continuing with environment variables")
	}

	timeoutStr := getEnv("HTTP_TIMEOUT", "3s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Invalid HTTP_TIMEOUT value '%s', using default 3s", timeoutStr)
		timeout = 3 * time.Second
	}

	cfg := &Config{
		BaseURL:          getEnv("BASE_URL", ""),
		Token:            getEnv("GC_TOKEN", ""),
		InputFile:        getEnv("INPUT_FILE", ""),
		SchemaFile:       getEnv("JSON_SCHEMA_SHIFT_FILE", ""),
		OutputFile:       getEnv("OUTPUT_FILE", ""),
		GroupByColumn:    getEnv("GROUP_BY_COLUMN", "need_id"),
		StartColumn:      getEnv("START_COLUMN", "start"),
		StartDateColumn:  getEnv("START_DATE_COLUMN", "start_date"),
		StartTimeColumn:  getEnv("START_TIME_COLUMN", "start_time"),
		DropColumns:      splitList(getEnv("DROP_COLUMNS", "")),
		KeepColumns:      splitList(getEnv("KEEP_COLUMNS", "")),
		ShiftsKey:        getEnv("SHIFTS_DICT_KEY_NAME", "shifts"),
		HTTPTimeout:      timeout,
		DryRun:           getBoolEnv("DRY_RUN", true),
		StrictValidation: getBoolEnv("STRICT_VALIDATION", false),
	}

	return cfg, nil
}

// Validate fails fast on settings the pipeline cannot run without. Base URL
// and token are only required for live submissions; a dry run never opens a
// connection.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("INPUT_FILE is required")
	}
	if c.SchemaFile == "" {
		return fmt.Errorf("JSON_SCHEMA_SHIFT_FILE is required")
	}
	if c.GroupByColumn == "" {
		return fmt.Errorf("GROUP_BY_COLUMN is required")
	}
	if c.StartColumn == "" || c.StartDateColumn == "" || c.StartTimeColumn == "" {
		return fmt.Errorf("START_COLUMN, START_DATE_COLUMN, and START_TIME_COLUMN are required")
	}
	if len(c.KeepColumns) == 0 {
		return fmt.Errorf("KEEP_COLUMNS is required")
	}
	if c.ShiftsKey == "" {
		return fmt.Errorf("SHIFTS_DICT_KEY_NAME is required")
	}
	if !c.DryRun {
		if c.BaseURL == "" {
			return fmt.Errorf("BASE_URL is required for live submissions")
		}
		if c.Token == "" {
			return fmt.Errorf("GC_TOKEN is required for live submissions")
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value == "true" || value == "1"
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
