package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"salespulse/pkg/contracts/domain"
)

// Drop step names, in pipeline order. Exposed so callers and tests can key
// into the step reports without string literals.
const (
	StepParseDates     = "parse_dates"
	StepMissingValues  = "missing_values"
	StepDuplicates     = "duplicates"
	StepCoerceNumerics = "coerce_numerics"
	StepNonPositive    = "non_positive_values"
)

// StepReport records how many rows one cleaning step removed and why.
// Drops are an observable side effect for auditability; they never abort
// the run.
type StepReport struct {
	Step    string `json:"step"`
	Dropped int    `json:"dropped"`
}

// CleanResult is the outcome of one cleaning run: the cleaned dataset plus
// the per-step drop accounting.
type CleanResult struct {
	Dataset domain.CleanedDataset `json:"dataset"`
	Steps   []StepReport          `json:"steps"`
	Input   int                   `json:"input_rows"`
	Kept    int                   `json:"kept_rows"`
}

// DroppedByStep returns the drop count for a named step, zero if the step
// removed nothing.
func (r *CleanResult) DroppedByStep(step string) int {
	for _, s := range r.Steps {
		if s.Step == step {
			return s.Dropped
		}
	}
	return 0
}

// Cleaner runs the deterministic row-preserving/row-dropping transforms that
// turn a RawTable into a CleanedDataset. Step order matters: later steps
// assume the guarantees of earlier ones.
type Cleaner struct {
	schema Schema
	logger *slog.Logger
}

// NewCleaner creates a cleaner for the given schema.
func NewCleaner(schema Schema, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{schema: schema, logger: logger}
}

// pendingRow carries a row between cleaning steps. The raw cell values are
// kept untouched until the coercion step so duplicate detection sees the
// exact source tuple.
type pendingRow struct {
	order   int // original input position, for stable date ties
	date    time.Time
	product string
	units   string
	price   string

	unitsSold int64
	avgPrice  float64
}

// Clean runs the full cleaning pipeline over the table rows. Row-level
// defects are dropped and counted, never surfaced as errors; the only hard
// failure is a schema/header mismatch, which Validate should have caught.
func (c *Cleaner) Clean(ctx context.Context, table *RawTable) (*CleanResult, error) {
	index, err := c.schema.columnIndex(table.Columns)
	if err != nil {
		return nil, fmt.Errorf("resolve columns: %w", err)
	}

	c.logger.InfoContext(ctx, "starting data cleaning",
		slog.Int("input_rows", len(table.Rows)))

	result := &CleanResult{Input: len(table.Rows)}

	// Step 1: parse dates. Rows with unparsable dates fail the row.
	rows, dropped := c.parseDates(table.Rows, index)
	result.Steps = append(result.Steps, StepReport{Step: StepParseDates, Dropped: dropped})

	// Step 2: stable sort ascending by date, ties by input order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].date.Before(rows[j].date)
	})

	// Step 3: drop rows with missing critical values.
	rows, dropped = c.dropMissing(rows)
	result.Steps = append(result.Steps, StepReport{Step: StepMissingValues, Dropped: dropped})

	// Step 4: drop exact field-tuple duplicates, keeping the first occurrence.
	rows, dropped = c.dropDuplicates(rows)
	result.Steps = append(result.Steps, StepReport{Step: StepDuplicates, Dropped: dropped})

	// Step 5: coerce numerics; coercion failures are dropped in the same pass.
	rows, dropped = c.coerceNumerics(rows)
	result.Steps = append(result.Steps, StepReport{Step: StepCoerceNumerics, Dropped: dropped})

	// Step 6: drop non-positive units or prices.
	rows, dropped = c.dropNonPositive(rows)
	result.Steps = append(result.Steps, StepReport{Step: StepNonPositive, Dropped: dropped})

	// Step 7: derive revenue and calendar fields.
	dataset := make(domain.CleanedDataset, 0, len(rows))
	for _, row := range rows {
		dataset = append(dataset, domain.NewCleanedRecord(domain.SalesRecord{
			Date:      row.date,
			ProductID: row.product,
			UnitsSold: row.unitsSold,
			AvgPrice:  row.avgPrice,
		}))
	}

	result.Dataset = dataset
	result.Kept = len(dataset)

	for _, step := range result.Steps {
		if step.Dropped > 0 {
			c.logger.InfoContext(ctx, "cleaning step removed rows",
				slog.String("step", step.Step),
				slog.Int("dropped", step.Dropped))
		}
	}
	c.logger.InfoContext(ctx, "data cleaning complete",
		slog.Int("input_rows", result.Input),
		slog.Int("kept_rows", result.Kept))

	return result, nil
}

func (c *Cleaner) parseDates(raw [][]string, index map[string]int) ([]pendingRow, int) {
	rows := make([]pendingRow, 0, len(raw))
	dropped := 0
	for i, cells := range raw {
		date, err := c.schema.ParseDate(cell(cells, index[c.schema.DateColumn]))
		if err != nil {
			dropped++
			continue
		}
		rows = append(rows, pendingRow{
			order:   i,
			date:    date,
			product: strings.TrimSpace(cell(cells, index[c.schema.ProductColumn])),
			units:   strings.TrimSpace(cell(cells, index[c.schema.UnitsColumn])),
			price:   strings.TrimSpace(cell(cells, index[c.schema.PriceColumn])),
		})
	}
	return rows, dropped
}

func (c *Cleaner) dropMissing(rows []pendingRow) ([]pendingRow, int) {
	kept := rows[:0]
	dropped := 0
	for _, row := range rows {
		if row.product == "" || row.units == "" || row.price == "" {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	return kept, dropped
}

func (c *Cleaner) dropDuplicates(rows []pendingRow) ([]pendingRow, int) {
	seen := make(map[string]struct{}, len(rows))
	kept := rows[:0]
	dropped := 0
	for _, row := range rows {
		key := row.date.Format("2006-01-02") + "\x1f" + row.product +
			"\x1f" + row.units + "\x1f" + row.price
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	return kept, dropped
}

func (c *Cleaner) coerceNumerics(rows []pendingRow) ([]pendingRow, int) {
	kept := rows[:0]
	dropped := 0
	for _, row := range rows {
		units, err := parseUnits(row.units)
		if err != nil {
			dropped++
			continue
		}
		price, err := parsePrice(row.price)
		if err != nil {
			dropped++
			continue
		}
		row.unitsSold = units
		row.avgPrice = price
		kept = append(kept, row)
	}
	return kept, dropped
}

func (c *Cleaner) dropNonPositive(rows []pendingRow) ([]pendingRow, int) {
	kept := rows[:0]
	dropped := 0
	for _, row := range rows {
		if row.unitsSold <= 0 || row.avgPrice <= 0 {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	return kept, dropped
}

// parseUnits parses a units cell as a whole number. Fractional unit counts
// are a coercion failure, not a rounding opportunity.
func parseUnits(value string) (int64, error) {
	value = stripThousands(value)
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, nil
	}
	// Tolerate exports that render integers as floats ("120.0").
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	n := int64(f)
	if float64(n) != f {
		return 0, fmt.Errorf("non-integer units value %q", value)
	}
	return n, nil
}

// parsePrice parses a price cell. ParseFloat accepts "NaN" and "Inf"
// spellings; those are coercion failures here, since a non-finite price
// would poison every downstream sum and mean.
func parsePrice(value string) (float64, error) {
	f, err := strconv.ParseFloat(stripThousands(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite price value %q", value)
	}
	return f, nil
}

func stripThousands(value string) string {
	return strings.ReplaceAll(value, ",", "")
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
