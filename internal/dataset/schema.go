// Package dataset implements the dataset preparation stage: loading raw
// tabular sales data, fail-closed structural validation, an ordered cleaning
// pipeline with per-step drop accounting, and headline summarization.
package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Schema maps the four required logical fields to source column names.
// Column names are configurable because upstream exports disagree on naming;
// the logical fields themselves are fixed.
type Schema struct {
	DateColumn    string   `json:"date_column"`
	ProductColumn string   `json:"product_column"`
	UnitsColumn   string   `json:"units_column"`
	PriceColumn   string   `json:"price_column"`
	DateLayouts   []string `json:"date_layouts"`
}

// DefaultSchema returns the column mapping used by the standard sales export.
func DefaultSchema() Schema {
	return Schema{
		DateColumn:    "date",
		ProductColumn: "model",
		UnitsColumn:   "units_sold",
		PriceColumn:   "avg_price",
		DateLayouts: []string{
			"2006-01-02",
			"2006-01-02 15:04:05",
			"2006/01/02",
			"01/02/2006",
			"2006-01",
		},
	}
}

// RequiredColumns returns the source column names that must be present.
func (s Schema) RequiredColumns() []string {
	return []string{s.DateColumn, s.ProductColumn, s.UnitsColumn, s.PriceColumn}
}

// IsValid checks that every logical field has a source column and at least
// one date layout is configured.
func (s Schema) IsValid() bool {
	return s.DateColumn != "" && s.ProductColumn != "" &&
		s.UnitsColumn != "" && s.PriceColumn != "" && len(s.DateLayouts) > 0
}

// ParseDate parses a raw date cell against the configured layouts in order.
func (s Schema) ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	for _, layout := range s.DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", value)
}

// RawTable is an unvalidated tabular snapshot of the input source: a header
// row of column names and the data rows below it, all as strings.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// columnIndex returns the position of each required column in the header.
// Matching is exact after whitespace trimming; validation has already
// guaranteed presence when the cleaner calls this.
func (s Schema) columnIndex(columns []string) (map[string]int, error) {
	index := make(map[string]int, 4)
	for i, col := range columns {
		name := strings.TrimSpace(col)
		for _, required := range s.RequiredColumns() {
			if name == required {
				index[required] = i
			}
		}
	}
	for _, required := range s.RequiredColumns() {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}
	return index, nil
}
