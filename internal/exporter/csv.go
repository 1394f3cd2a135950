// Package exporter writes the pipeline's tabular artifacts: trend tables,
// the performance ranking, elasticity estimates, and the cleaned dataset.
// Collaborators consume these files read-only; the exporter never feeds
// anything back into the engine.
package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"salespulse/internal/metrics"
	"salespulse/pkg/contracts/domain"
)

// Artifact file names under the tables directory.
const (
	FileMonthlyTrends  = "monthly_trends.csv"
	FileYearlyTrends   = "yearly_trends.csv"
	FilePerformance    = "model_performance.csv"
	FileElasticity     = "price_elasticity.csv"
	FileCleanedDataset = "cleaned_sales_data.csv"
)

// CSVWriter exports pipeline artifacts as CSV files under a base directory.
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at dir.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// ExportAll writes every metric artifact plus the cleaned dataset. The
// artifacts are independent, so they are written concurrently; the first
// failure cancels the rest.
func (w *CSVWriter) ExportAll(ctx context.Context, ds domain.CleanedDataset, result *metrics.MetricsResult) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)

	writes := []struct {
		name string
		fn   func(context.Context, domain.CleanedDataset, *metrics.MetricsResult) error
	}{
		{FileMonthlyTrends, func(ctx context.Context, _ domain.CleanedDataset, r *metrics.MetricsResult) error {
			return w.WriteMonthlyTrends(ctx, r.Trends.Monthly)
		}},
		{FileYearlyTrends, func(ctx context.Context, _ domain.CleanedDataset, r *metrics.MetricsResult) error {
			return w.WriteYearlyTrends(ctx, r.Trends.Yearly)
		}},
		{FilePerformance, func(ctx context.Context, _ domain.CleanedDataset, r *metrics.MetricsResult) error {
			return w.WritePerformance(ctx, r.Performance.Products)
		}},
		{FileElasticity, func(ctx context.Context, _ domain.CleanedDataset, r *metrics.MetricsResult) error {
			return w.WriteElasticity(ctx, r.Elasticity)
		}},
		{FileCleanedDataset, func(ctx context.Context, d domain.CleanedDataset, _ *metrics.MetricsResult) error {
			return w.WriteCleanedDataset(ctx, d)
		}},
	}

	paths := make([]string, 0, len(writes))
	for _, item := range writes {
		item := item
		paths = append(paths, filepath.Join(w.dir, item.name))
		g.Go(func() error {
			return item.fn(ctx, ds, result)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// WriteMonthlyTrends writes the (year, month) trend table. Undefined growth
// values are written as empty cells, never as zero.
func (w *CSVWriter) WriteMonthlyTrends(ctx context.Context, monthly []metrics.MonthlyAggregate) error {
	records := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		records = append(records, []string{
			fmt.Sprintf("%04d-%02d", m.Year, m.Month),
			strconv.FormatInt(m.Units, 10),
			formatFloat(m.Revenue),
			formatFloat(m.MeanPrice),
			formatMeasure(m.UnitsGrowth),
			formatMeasure(m.RevenueGrowth),
		})
	}
	return w.writeCSV(ctx, FileMonthlyTrends,
		[]string{"Period", "Units", "Revenue", "MeanPrice", "UnitsGrowthPct", "RevenueGrowthPct"},
		records)
}

// WriteYearlyTrends writes the yearly trend table.
func (w *CSVWriter) WriteYearlyTrends(ctx context.Context, yearly []metrics.YearlyAggregate) error {
	records := make([][]string, 0, len(yearly))
	for _, y := range yearly {
		records = append(records, []string{
			strconv.Itoa(y.Year),
			strconv.FormatInt(y.Units, 10),
			formatFloat(y.Revenue),
			formatFloat(y.MeanPrice),
			formatMeasure(y.UnitsGrowth),
			formatMeasure(y.RevenueGrowth),
		})
	}
	return w.writeCSV(ctx, FileYearlyTrends,
		[]string{"Year", "Units", "Revenue", "MeanPrice", "UnitsGrowthPct", "RevenueGrowthPct"},
		records)
}

// WritePerformance writes the full performance ranking table in its
// revenue-descending order.
func (w *CSVWriter) WritePerformance(ctx context.Context, products []metrics.ProductPerformance) error {
	records := make([][]string, 0, len(products))
	for _, p := range products {
		records = append(records, []string{
			p.ProductID,
			strconv.FormatInt(p.TotalUnits, 10),
			formatFloat(p.MeanUnits),
			formatMeasure(p.UnitsStdDev),
			formatFloat(p.TotalRevenue),
			formatFloat(p.MeanRevenue),
			formatFloat(p.MeanPrice),
			formatFloat(p.MarketShare),
			formatMeasure(p.Stability),
			strconv.Itoa(p.RevenueRank),
		})
	}
	return w.writeCSV(ctx, FilePerformance,
		[]string{"Product", "TotalUnits", "MeanUnits", "UnitsStdDev", "TotalRevenue",
			"MeanRevenue", "MeanPrice", "MarketSharePct", "Stability", "RevenueRank"},
		records)
}

// WriteElasticity writes the elasticity table sorted by product id for
// stable output. Products without an estimate are simply absent.
func (w *CSVWriter) WriteElasticity(ctx context.Context, elasticity map[string]metrics.ElasticityRecord) error {
	ids := make([]string, 0, len(elasticity))
	for id := range elasticity {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([][]string, 0, len(ids))
	for _, id := range ids {
		rec := elasticity[id]
		records = append(records, []string{
			rec.ProductID,
			formatFloat(rec.Coefficient),
			rec.Classification,
			formatFloat(rec.MeanPrice),
			formatFloat(rec.MeanUnits),
			strconv.Itoa(rec.Pairs),
		})
	}
	return w.writeCSV(ctx, FileElasticity,
		[]string{"Product", "Elasticity", "Classification", "MeanPrice", "MeanUnits", "Pairs"},
		records)
}

// WriteCleanedDataset persists the cleaned dataset for record-level charts.
func (w *CSVWriter) WriteCleanedDataset(ctx context.Context, ds domain.CleanedDataset) error {
	records := make([][]string, 0, len(ds))
	for _, rec := range ds {
		records = append(records, []string{
			rec.Date.Format("2006-01-02"),
			rec.ProductID,
			strconv.FormatInt(rec.UnitsSold, 10),
			formatFloat(rec.AvgPrice),
			formatFloat(rec.Revenue),
			strconv.Itoa(rec.Year),
			strconv.Itoa(rec.Month),
			strconv.Itoa(rec.Quarter),
		})
	}
	return w.writeCSV(ctx, FileCleanedDataset,
		[]string{"Date", "Product", "UnitsSold", "AvgPrice", "Revenue", "Year", "Month", "Quarter"},
		records)
}

func (w *CSVWriter) writeCSV(ctx context.Context, name string, headers []string, records [][]string) error {
	path := filepath.Join(w.dir, name)
	w.logger.InfoContext(ctx, "writing CSV artifact",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM so Excel opens the file correctly.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// formatMeasure renders an undefined measure as an empty cell so downstream
// tools see missing data instead of a spurious zero.
func formatMeasure(m metrics.Measure) string {
	if !m.Defined {
		return ""
	}
	return formatFloat(m.Value)
}
