// Package report renders the executive summary consumed by people rather
// than machines. The narrative is assembled from the metrics result with a
// template; an LLM-backed narrator can slot in behind the same Generator
// surface but is deliberately not wired into the core pipeline.
package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/template"
	"time"

	"salespulse/internal/metrics"
	"salespulse/pkg/contracts/domain"
)

// Generator renders executive summary reports from a metrics result.
type Generator struct {
	title  string
	logger *slog.Logger
	tmpl   *template.Template
}

// NewGenerator creates a report generator. The title heads the rendered
// report.
func NewGenerator(title string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		title:  title,
		logger: logger,
		tmpl:   template.Must(template.New("report").Funcs(funcMap).Parse(reportTemplate)),
	}
}

// reportContext is the data handed to the template.
type reportContext struct {
	Title       string
	GeneratedAt time.Time
	Summary     domain.DatasetSummary
	Trends      metrics.TrendMetrics
	Top         []metrics.ProductPerformance
	Leaders     metrics.Leaders
	Elastic     []metrics.ElasticityRecord
	Inelastic   []metrics.ElasticityRecord
	Empty       bool
}

// Generate renders the report as markdown. generatedAt is caller-supplied
// so rendering stays reproducible. An empty metrics result produces a stub
// report stating that no data was available.
func (g *Generator) Generate(ctx context.Context, summary domain.DatasetSummary, result *metrics.MetricsResult, generatedAt time.Time) (string, error) {
	g.logger.InfoContext(ctx, "generating executive report",
		slog.Int("records", result.RecordCount))

	data := reportContext{
		Title:       g.title,
		GeneratedAt: generatedAt,
		Summary:     summary,
		Trends:      result.Trends,
		Top:         result.Performance.TopPerformers,
		Leaders:     result.Performance.Leaders,
		Empty:       result.IsEmpty(),
	}
	if len(data.Top) > 3 {
		data.Top = data.Top[:3]
	}

	for _, rec := range result.Elasticity {
		if rec.Classification == metrics.ClassElastic {
			data.Elastic = append(data.Elastic, rec)
		} else {
			data.Inelastic = append(data.Inelastic, rec)
		}
	}
	sort.Slice(data.Elastic, func(i, j int) bool { return data.Elastic[i].ProductID < data.Elastic[j].ProductID })
	sort.Slice(data.Inelastic, func(i, j int) bool { return data.Inelastic[i].ProductID < data.Inelastic[j].ProductID })

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// Save renders the report and writes it under dir as a markdown file named
// by the generation date.
func (g *Generator) Save(ctx context.Context, dir string, summary domain.DatasetSummary, result *metrics.MetricsResult, generatedAt time.Time) (string, error) {
	content, err := g.Generate(ctx, summary, result, generatedAt)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("executive_report_%s.md", generatedAt.Format("20060102")))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	g.logger.InfoContext(ctx, "saved executive report", slog.String("path", path))
	return path, nil
}

var funcMap = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"pct": func(m metrics.Measure) string {
		if !m.Defined {
			return "n/a"
		}
		return fmt.Sprintf("%.2f%%", m.Value)
	},
	"money": func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	},
	"num": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}

const reportTemplate = `# {{.Title}}

Generated: {{.GeneratedAt.Format "2006-01-02"}}

{{- if .Empty}}

No sales data was available for this reporting period.
{{- else}}

## Dataset

- Rows analyzed: {{.Summary.TotalRows}}
- Date range: {{.Summary.StartDate.Format "2006-01-02"}} to {{.Summary.EndDate.Format "2006-01-02"}}
- Products: {{.Summary.ProductCount}}
- Total units sold: {{.Summary.TotalUnits}}
- Total revenue: {{money .Summary.TotalRevenue}}

## Sales Trends

- Average month-over-month sales growth: {{pct .Trends.AvgMonthlyUnitsGrowth}}
- Average month-over-month revenue growth: {{pct .Trends.AvgMonthlyRevenueGrowth}}
- Average year-over-year sales growth: {{pct .Trends.AvgYearlyUnitsGrowth}}
- Average year-over-year revenue growth: {{pct .Trends.AvgYearlyRevenueGrowth}}

## Product Performance

- Best-selling product: {{.Leaders.BestSelling}}
- Highest-revenue product: {{.Leaders.HighestRevenue}}
{{- if .Leaders.MostStable}}
- Most stable product: {{.Leaders.MostStable}}
{{- else}}
- Most stable product: insufficient data
{{- end}}

### Top Performers
{{range $i, $p := .Top}}
{{inc $i}}. {{$p.ProductID}}: {{$p.TotalUnits}} units, {{money $p.TotalRevenue}} revenue, {{num $p.MarketShare}}% market share
{{- end}}

## Price Elasticity

- Elastic products ({{len .Elastic}}): price-sensitive demand
{{- range .Elastic}}
  - {{.ProductID}}: elasticity {{num .Coefficient}}
{{- end}}
- Inelastic products ({{len .Inelastic}}): price-insensitive demand
{{- range .Inelastic}}
  - {{.ProductID}}: elasticity {{num .Coefficient}}
{{- end}}
{{- end}}
`
