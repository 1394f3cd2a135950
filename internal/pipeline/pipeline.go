// Package pipeline orchestrates one end-to-end analysis run: load raw data,
// validate its structure, clean it, derive metrics, and write artifacts.
// Each run owns its own cleaned dataset and metrics result; runs share no
// mutable state, so separate runs may execute concurrently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/metrics"
	"salespulse/internal/report"
	"salespulse/pkg/contracts/domain"
)

// ErrValidationFailed marks the fatal structural-validation failure class:
// required columns are missing from the input source. The run aborts before
// any metric is computed.
var ErrValidationFailed = errors.New("input validation failed")

// Runner executes the analysis pipeline.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewRunner creates a pipeline runner. now supplies the report timestamp
// and may be nil for time.Now; the metrics themselves never read the clock.
func NewRunner(cfg *config.Config, logger *slog.Logger, now func() time.Time) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Runner{cfg: cfg, logger: logger, now: now}
}

// RunResult summarizes a completed pipeline run for the caller.
type RunResult struct {
	RunID      string                 `json:"run_id"`
	Summary    domain.DatasetSummary  `json:"summary"`
	Steps      []dataset.StepReport   `json:"clean_steps"`
	Metrics    *metrics.MetricsResult `json:"metrics"`
	Artifacts  []string               `json:"artifacts"`
	ReportPath string                 `json:"report_path"`
}

// Run executes the full pipeline against inputFile (empty means the
// configured input). Fatal failures are an unreadable source or missing
// required columns; row-level defects are absorbed and counted.
func (r *Runner) Run(ctx context.Context, inputFile string) (*RunResult, error) {
	runID := uuid.NewString()
	ctx = infrastructure.WithRunID(ctx, runID)

	if inputFile == "" {
		inputFile = r.cfg.Data.InputFile
	}

	r.logger.InfoContext(ctx, "starting pipeline run",
		slog.String("input", inputFile))

	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare directories: %w", err)
	}

	// Stage 1: load and validate.
	schema := r.schema()
	loader := dataset.NewLoader(r.cfg.Data.SheetName, r.logger)
	table, err := loader.Load(inputFile)
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}

	ok, verrs := dataset.Validate(table, schema)
	if !ok {
		r.logger.ErrorContext(ctx, "input validation failed",
			slog.Any("errors", verrs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(verrs, "; "))
	}

	// Stage 2: clean.
	cleaner := dataset.NewCleaner(schema, r.logger)
	cleaned, err := cleaner.Clean(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("clean data: %w", err)
	}
	summary := dataset.Summarize(cleaned.Dataset)
	r.logger.InfoContext(ctx, "dataset prepared",
		slog.Int("rows", summary.TotalRows),
		slog.Int("products", summary.ProductCount))

	// Stage 3: metrics.
	engine := metrics.NewEngine(r.cfg.Report.TopN, r.logger)
	result := engine.Compute(ctx, cleaned.Dataset)

	// Stage 4: artifacts.
	writer := exporter.NewCSVWriter(r.cfg.Paths.TablesDir, r.logger)
	artifacts, err := writer.ExportAll(ctx, cleaned.Dataset, result)
	if err != nil {
		return nil, fmt.Errorf("export artifacts: %w", err)
	}

	// Stage 5: executive report.
	generator := report.NewGenerator(r.cfg.Report.Title, r.logger)
	reportPath, err := generator.Save(ctx, r.cfg.Paths.ReportsDir, summary, result, r.now())
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	r.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("artifacts", len(artifacts)),
		slog.String("report", reportPath))

	return &RunResult{
		RunID:      runID,
		Summary:    summary,
		Steps:      cleaned.Steps,
		Metrics:    result,
		Artifacts:  artifacts,
		ReportPath: reportPath,
	}, nil
}

// Clean runs only the preparation stage, for callers that want the cleaned
// dataset without metrics or artifacts.
func (r *Runner) Clean(ctx context.Context, inputFile string) (*dataset.CleanResult, error) {
	if inputFile == "" {
		inputFile = r.cfg.Data.InputFile
	}

	schema := r.schema()
	loader := dataset.NewLoader(r.cfg.Data.SheetName, r.logger)
	table, err := loader.Load(inputFile)
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}

	ok, verrs := dataset.Validate(table, schema)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(verrs, "; "))
	}

	return dataset.NewCleaner(schema, r.logger).Clean(ctx, table)
}

func (r *Runner) schema() dataset.Schema {
	schema := dataset.DefaultSchema()
	schema.DateColumn = r.cfg.Data.DateColumn
	schema.ProductColumn = r.cfg.Data.ProductColumn
	schema.UnitsColumn = r.cfg.Data.UnitsColumn
	schema.PriceColumn = r.cfg.Data.PriceColumn
	return schema
}
