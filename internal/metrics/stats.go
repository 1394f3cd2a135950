package metrics

import (
	"math"
	"sort"
)

// pctChange computes the period-over-period percentage change
// (cur-prev)/prev*100. The change is undefined when the previous value is
// zero; division by zero never produces an infinity here.
func pctChange(prev, cur float64) Measure {
	if prev == 0 {
		return Undefined()
	}
	change := (cur - prev) / prev * 100
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return Undefined()
	}
	return Defined(change)
}

// meanOfDefined averages the defined values of a series. With no defined
// values the mean itself is undefined.
func meanOfDefined(values []Measure) Measure {
	sum := 0.0
	n := 0
	for _, v := range values {
		if v.Defined {
			sum += v.Value
			n++
		}
	}
	if n == 0 {
		return Undefined()
	}
	return Defined(sum / float64(n))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev computes the sample standard deviation with Bessel's
// correction (n-1). It is undefined for fewer than two observations.
func sampleStdDev(values []float64) Measure {
	if len(values) < 2 {
		return Undefined()
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		sumSq += (v - m) * (v - m)
	}
	return Defined(math.Sqrt(sumSq / float64(len(values)-1)))
}

// competitionRanks assigns standard competition ranking ("1224") over values
// ranked descending: equal values share a rank, and the next distinct value
// is ranked by position. The input order is preserved; the returned slice is
// parallel to values.
func competitionRanks(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})

	ranks := make([]int, len(values))
	for pos, i := range idx {
		if pos > 0 && values[i] == values[idx[pos-1]] {
			ranks[i] = ranks[idx[pos-1]]
			continue
		}
		ranks[i] = pos + 1
	}
	return ranks
}
