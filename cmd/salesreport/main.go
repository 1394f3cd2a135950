package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	"salespulse/internal/infrastructure"
	"salespulse/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	inputFile := flag.String("input", "", "path to the raw sales data file (CSV or XLSX, defaults to configured input)")
	configFile := flag.String("config", "config.yaml", "path to optional YAML config file")
	topN := flag.Int("top", 0, "number of top performers to report (overrides config)")
	flag.Parse()

	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if *topN > 0 {
		cfg.Report.TopN = *topN
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return 1
	}

	runner := pipeline.NewRunner(cfg, logger, nil)
	result, err := runner.Run(context.Background(), *inputFile)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrValidationFailed):
			logger.Error("Input source failed validation", "error", err)
		case errors.Is(err, dataset.ErrUnreadableSource):
			logger.Error("Input source could not be read", "error", err)
		default:
			logger.Error("Pipeline run failed", "error", err)
		}
		return 1
	}

	printSummary(result)
	return 0
}

func printSummary(result *pipeline.RunResult) {
	fmt.Println("=== SALES ANALYSIS COMPLETE ===")
	fmt.Printf("Run ID:        %s\n", result.RunID)
	fmt.Printf("Rows analyzed: %d\n", result.Summary.TotalRows)
	fmt.Printf("Products:      %d\n", result.Summary.ProductCount)
	for _, step := range result.Steps {
		if step.Dropped > 0 {
			fmt.Printf("Dropped (%s): %d\n", step.Step, step.Dropped)
		}
	}

	if result.Metrics.IsEmpty() {
		fmt.Println("No metrics computed: dataset was empty after cleaning")
	} else {
		leaders := result.Metrics.Performance.Leaders
		fmt.Printf("Best-selling product:    %s\n", leaders.BestSelling)
		fmt.Printf("Highest-revenue product: %s\n", leaders.HighestRevenue)
		if growth := result.Metrics.Trends.AvgYearlyUnitsGrowth; growth.Defined {
			fmt.Printf("Avg YoY sales growth:    %.2f%%\n", growth.Value)
		} else {
			fmt.Println("Avg YoY sales growth:    n/a (single year of data)")
		}
	}

	fmt.Printf("Artifacts: %d CSV tables\n", len(result.Artifacts))
	fmt.Printf("Report:    %s\n", result.ReportPath)
}
