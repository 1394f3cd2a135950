// Package config centralizes application configuration: filesystem paths,
// logging, the input schema mapping, and report settings. Values come from
// an optional YAML file overlaid by SALESPULSE_-prefixed environment
// variables; environment wins.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// PathsConfig contains the directory layout for inputs and artifacts.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" validate:"required"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	TablesDir    string `yaml:"tables_dir" envconfig:"TABLES_DIR" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig describes the input source and its column mapping. Column
// names are configurable because source exports differ; the four logical
// fields are fixed.
type DataConfig struct {
	InputFile     string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	SheetName     string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	DateColumn    string `yaml:"date_column" envconfig:"DATE_COLUMN" validate:"required"`
	ProductColumn string `yaml:"product_column" envconfig:"PRODUCT_COLUMN" validate:"required"`
	UnitsColumn   string `yaml:"units_column" envconfig:"UNITS_COLUMN" validate:"required"`
	PriceColumn   string `yaml:"price_column" envconfig:"PRICE_COLUMN" validate:"required"`
}

// ReportConfig contains report generation settings.
type ReportConfig struct {
	TopN  int    `yaml:"top_n" envconfig:"TOP_N" validate:"gte=1"`
	Title string `yaml:"title" envconfig:"TITLE" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: PathsConfig{
			DataDir:      "data",
			ProcessedDir: filepath.Join("data", "processed"),
			ReportsDir:   "reports",
			TablesDir:    filepath.Join("reports", "tables"),
			LogsDir:      "logs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: filepath.Join("logs", "salespulse.log"),
		},
		Data: DataConfig{
			InputFile:     filepath.Join("data", "raw", "sales_data.csv"),
			DateColumn:    "date",
			ProductColumn: "model",
			UnitsColumn:   "units_sold",
			PriceColumn:   "avg_price",
		},
		Report: ReportConfig{
			TopN:  5,
			Title: "Sales Performance Report",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at configFile
// if it exists (empty means skip), then environment variables with the
// SALESPULSE prefix. The result is validated before being returned.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("SALESPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against the struct-tag rules.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// EnsureDirectories creates the configured directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		c.Paths.DataDir,
		c.Paths.ProcessedDir,
		c.Paths.ReportsDir,
		c.Paths.TablesDir,
		c.Paths.LogsDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
