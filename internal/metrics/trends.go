package metrics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// computeTrends aggregates the dataset by (year, month) and by year,
// computes period-over-period growth for units and revenue, and averages
// the defined growth values. The first period of each series has no defined
// change; it is excluded from the averages rather than treated as zero.
func computeTrends(ds domain.CleanedDataset) TrendMetrics {
	trends := TrendMetrics{
		Monthly: monthlyAggregates(ds),
		Yearly:  yearlyAggregates(ds),
	}

	monthlyUnits := make([]Measure, 0, len(trends.Monthly))
	monthlyRevenue := make([]Measure, 0, len(trends.Monthly))
	for i := range trends.Monthly {
		cur := &trends.Monthly[i]
		if i > 0 {
			prev := trends.Monthly[i-1]
			cur.UnitsGrowth = pctChange(float64(prev.Units), float64(cur.Units))
			cur.RevenueGrowth = pctChange(prev.Revenue, cur.Revenue)
		}
		monthlyUnits = append(monthlyUnits, cur.UnitsGrowth)
		monthlyRevenue = append(monthlyRevenue, cur.RevenueGrowth)
	}

	yearlyUnits := make([]Measure, 0, len(trends.Yearly))
	yearlyRevenue := make([]Measure, 0, len(trends.Yearly))
	for i := range trends.Yearly {
		cur := &trends.Yearly[i]
		if i > 0 {
			prev := trends.Yearly[i-1]
			cur.UnitsGrowth = pctChange(float64(prev.Units), float64(cur.Units))
			cur.RevenueGrowth = pctChange(prev.Revenue, cur.Revenue)
		}
		yearlyUnits = append(yearlyUnits, cur.UnitsGrowth)
		yearlyRevenue = append(yearlyRevenue, cur.RevenueGrowth)
	}

	// With fewer than two periods at a granularity every change is
	// undefined and meanOfDefined yields the undefined marker.
	trends.AvgMonthlyUnitsGrowth = meanOfDefined(monthlyUnits)
	trends.AvgMonthlyRevenueGrowth = meanOfDefined(monthlyRevenue)
	trends.AvgYearlyUnitsGrowth = meanOfDefined(yearlyUnits)
	trends.AvgYearlyRevenueGrowth = meanOfDefined(yearlyRevenue)

	return trends
}

func monthlyAggregates(ds domain.CleanedDataset) []MonthlyAggregate {
	type key struct{ year, month int }
	groups := make(map[key]*MonthlyAggregate)
	prices := make(map[key][]float64)

	for _, rec := range ds {
		k := key{rec.Year, rec.Month}
		agg, ok := groups[k]
		if !ok {
			agg = &MonthlyAggregate{Year: rec.Year, Month: rec.Month}
			groups[k] = agg
		}
		agg.Units += rec.UnitsSold
		agg.Revenue += rec.Revenue
		prices[k] = append(prices[k], rec.AvgPrice)
	}

	out := make([]MonthlyAggregate, 0, len(groups))
	for k, agg := range groups {
		agg.MeanPrice = mean(prices[k])
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func yearlyAggregates(ds domain.CleanedDataset) []YearlyAggregate {
	groups := make(map[int]*YearlyAggregate)
	prices := make(map[int][]float64)

	for _, rec := range ds {
		agg, ok := groups[rec.Year]
		if !ok {
			agg = &YearlyAggregate{Year: rec.Year}
			groups[rec.Year] = agg
		}
		agg.Units += rec.UnitsSold
		agg.Revenue += rec.Revenue
		prices[rec.Year] = append(prices[rec.Year], rec.AvgPrice)
	}

	out := make([]YearlyAggregate, 0, len(groups))
	for year, agg := range groups {
		agg.MeanPrice = mean(prices[year])
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
