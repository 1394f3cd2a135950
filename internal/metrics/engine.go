package metrics

import (
	"context"
	"log/slog"
	"time"

	"salespulse/pkg/contracts/domain"
)

// DefaultTopN is the size of the top-performers slice when the caller does
// not supply one.
const DefaultTopN = 5

// Engine computes the three metric groups from a cleaned dataset snapshot.
// An engine holds no state across runs; every Compute call is a pure
// function of its input, so separate runs may execute in parallel as long
// as each owns its own dataset.
type Engine struct {
	topN   int
	logger *slog.Logger
}

// NewEngine creates a metrics engine. topN bounds the top-performers slice;
// values below 1 fall back to DefaultTopN.
func NewEngine(topN int, logger *slog.Logger) *Engine {
	if topN < 1 {
		topN = DefaultTopN
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{topN: topN, logger: logger}
}

// Compute derives trend, elasticity, and performance metrics from the
// dataset. An empty dataset yields an empty result flagged via IsEmpty,
// never an error.
func (e *Engine) Compute(ctx context.Context, ds domain.CleanedDataset) *MetricsResult {
	start := time.Now()
	e.logger.InfoContext(ctx, "starting metrics computation",
		slog.Int("records", len(ds)),
		slog.Int("products", len(ds.Products())))

	result := &MetricsResult{
		Elasticity:  map[string]ElasticityRecord{},
		RecordCount: len(ds),
	}
	if ds.Empty() {
		e.logger.WarnContext(ctx, "empty dataset, returning empty metrics")
		return result
	}

	result.Trends = computeTrends(ds)
	e.logger.InfoContext(ctx, "computed trend metrics",
		slog.Int("monthly_periods", len(result.Trends.Monthly)),
		slog.Int("yearly_periods", len(result.Trends.Yearly)))

	result.Elasticity = computeElasticity(ds)
	e.logger.InfoContext(ctx, "computed elasticity metrics",
		slog.Int("products_with_estimate", len(result.Elasticity)))

	result.Performance = computePerformance(ds, e.topN)
	e.logger.InfoContext(ctx, "computed performance metrics",
		slog.Int("products", len(result.Performance.Products)),
		slog.String("best_selling", result.Performance.Leaders.BestSelling),
		slog.String("highest_revenue", result.Performance.Leaders.HighestRevenue))

	e.logger.InfoContext(ctx, "metrics computation complete",
		slog.Duration("duration", time.Since(start)))
	return result
}
