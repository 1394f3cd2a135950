package domain

import (
	"time"
)

// SalesRecord represents one raw transaction-period row after type coercion.
// The cleaning pipeline guarantees UnitsSold > 0 and AvgPrice > 0; rows that
// violate this are dropped, never corrected.
type SalesRecord struct {
	Date      time.Time `json:"date"`
	ProductID string    `json:"product_id" validate:"required"`
	UnitsSold int64     `json:"units_sold" validate:"gt=0"`
	AvgPrice  float64   `json:"avg_price" validate:"gt=0"`
}

// IsValid checks the row-level invariant that survives cleaning.
func (r SalesRecord) IsValid() bool {
	return !r.Date.IsZero() && r.ProductID != "" && r.UnitsSold > 0 && r.AvgPrice > 0
}

// Revenue returns units sold times average price.
func (r SalesRecord) Revenue() float64 {
	return float64(r.UnitsSold) * r.AvgPrice
}

// CleanedRecord is a SalesRecord enriched with the derived calendar and
// revenue fields. All derived fields are a pure function of the base record.
type CleanedRecord struct {
	SalesRecord
	Revenue float64 `json:"revenue"`
	Year    int     `json:"year"`
	Month   int     `json:"month"`   // 1-12
	Quarter int     `json:"quarter"` // 1-4
}

// NewCleanedRecord derives the calendar and revenue fields from a valid record.
func NewCleanedRecord(r SalesRecord) CleanedRecord {
	return CleanedRecord{
		SalesRecord: r,
		Revenue:     r.Revenue(),
		Year:        r.Date.Year(),
		Month:       int(r.Date.Month()),
		Quarter:     (int(r.Date.Month())-1)/3 + 1,
	}
}

// CleanedDataset is the validated, deduplicated, derived-field-enriched record
// collection that is the sole input to metric computation. Records are sorted
// ascending by date, ties broken by original input order. The dataset is
// immutable after creation; consumers must not mutate it.
type CleanedDataset []CleanedRecord

// Empty reports whether the dataset holds no records. An empty dataset is
// valid, if degenerate; the metrics engine returns empty metrics for it.
func (ds CleanedDataset) Empty() bool {
	return len(ds) == 0
}

// Products returns the distinct product identifiers in first-seen order.
func (ds CleanedDataset) Products() []string {
	seen := make(map[string]struct{}, len(ds))
	var products []string
	for _, rec := range ds {
		if _, ok := seen[rec.ProductID]; ok {
			continue
		}
		seen[rec.ProductID] = struct{}{}
		products = append(products, rec.ProductID)
	}
	return products
}

// DatasetSummary holds headline statistics of a cleaned dataset.
// A summary of an empty dataset is zero-valued, not an error.
type DatasetSummary struct {
	TotalRows    int       `json:"total_rows"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	ProductCount int       `json:"product_count"`
	TotalUnits   int64     `json:"total_units"`
	TotalRevenue float64   `json:"total_revenue"`
	AvgPrice     float64   `json:"avg_price"`
}
