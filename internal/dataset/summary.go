package dataset

import (
	"salespulse/pkg/contracts/domain"
)

// Summarize computes headline statistics for a cleaned dataset.
// An empty dataset yields a zero-valued summary, not an error.
func Summarize(ds domain.CleanedDataset) domain.DatasetSummary {
	summary := domain.DatasetSummary{TotalRows: len(ds)}
	if ds.Empty() {
		return summary
	}

	// Records are date-sorted, so the range is the first and last rows.
	summary.StartDate = ds[0].Date
	summary.EndDate = ds[len(ds)-1].Date
	summary.ProductCount = len(ds.Products())

	var priceSum float64
	for _, rec := range ds {
		summary.TotalUnits += rec.UnitsSold
		summary.TotalRevenue += rec.Revenue
		priceSum += rec.AvgPrice
	}
	summary.AvgPrice = priceSum / float64(len(ds))

	return summary
}
