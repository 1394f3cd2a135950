package metrics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// computePerformance builds the per-product performance table: totals,
// means, sample standard deviation of units, market share, stability
// (coefficient of variation), and revenue ranking with shared ranks for
// ties. The table is sorted descending by total revenue; ties keep a
// deterministic order by product id.
func computePerformance(ds domain.CleanedDataset, topN int) PerformanceMetrics {
	byProduct := groupByProduct(ds)
	if len(byProduct) == 0 {
		return PerformanceMetrics{}
	}

	products := make([]ProductPerformance, 0, len(byProduct))
	var grandTotalUnits int64

	for product, records := range byProduct {
		perf := ProductPerformance{ProductID: product}
		units := make([]float64, 0, len(records))
		var priceSum float64
		for _, rec := range records {
			perf.TotalUnits += rec.UnitsSold
			perf.TotalRevenue += rec.Revenue
			priceSum += rec.AvgPrice
			units = append(units, float64(rec.UnitsSold))
		}
		n := float64(len(records))
		perf.MeanUnits = float64(perf.TotalUnits) / n
		perf.MeanRevenue = perf.TotalRevenue / n
		perf.MeanPrice = priceSum / n
		perf.UnitsStdDev = sampleStdDev(units)
		// Mean units is positive by the cleaning invariant, so stability
		// is undefined only when the stddev is.
		if perf.UnitsStdDev.Defined {
			perf.Stability = Defined(perf.UnitsStdDev.Value / perf.MeanUnits)
		}

		grandTotalUnits += perf.TotalUnits
		products = append(products, perf)
	}

	for i := range products {
		products[i].MarketShare = float64(products[i].TotalUnits) / float64(grandTotalUnits) * 100
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].TotalRevenue != products[j].TotalRevenue {
			return products[i].TotalRevenue > products[j].TotalRevenue
		}
		return products[i].ProductID < products[j].ProductID
	})

	revenues := make([]float64, len(products))
	for i, p := range products {
		revenues[i] = p.TotalRevenue
	}
	for i, rank := range competitionRanks(revenues) {
		products[i].RevenueRank = rank
	}

	if topN <= 0 || topN > len(products) {
		topN = len(products)
	}
	top := make([]ProductPerformance, topN)
	copy(top, products[:topN])

	return PerformanceMetrics{
		Products:      products,
		TopPerformers: top,
		Leaders:       namedLeaders(products),
	}
}

// namedLeaders picks the headline products. MostStable stays empty when no
// product has a defined stability coefficient.
func namedLeaders(products []ProductPerformance) Leaders {
	leaders := Leaders{
		// The table is revenue-sorted, so the first row leads revenue.
		HighestRevenue: products[0].ProductID,
	}

	best := products[0]
	for _, p := range products[1:] {
		if p.TotalUnits > best.TotalUnits {
			best = p
		}
	}
	leaders.BestSelling = best.ProductID

	haveStable := false
	var stable ProductPerformance
	for _, p := range products {
		if !p.Stability.Defined {
			continue
		}
		if !haveStable || p.Stability.Value < stable.Stability.Value {
			stable = p
			haveStable = true
		}
	}
	if haveStable {
		leaders.MostStable = stable.ProductID
	}

	return leaders
}
