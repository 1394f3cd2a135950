// Package metrics derives the business metrics consumed by downstream
// reporting from a cleaned sales dataset: growth trends, per-product price
// elasticity, and per-product performance ranking. Every computation is a
// pure function of the dataset snapshot; identical input yields identical
// output.
package metrics

// Measure is a numeric metric that may be undefined: a first-period growth
// rate, a standard deviation of a single observation, an average with no
// defined inputs. Undefined is distinct from zero and must be treated as
// "no data" by consumers, never fed into arithmetic.
type Measure struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// Defined wraps a computed value.
func Defined(v float64) Measure {
	return Measure{Value: v, Defined: true}
}

// Undefined returns the undefined marker.
func Undefined() Measure {
	return Measure{}
}

// Elasticity classifications. The |coefficient| = 1 boundary is closed:
// exactly 1 classifies as inelastic.
const (
	ClassElastic   = "elastic"
	ClassInelastic = "inelastic"
)

// MonthlyAggregate holds one (year, month) group of the trend view together
// with its month-over-month growth rates. Growth is undefined for the first
// period of the series.
type MonthlyAggregate struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	Units         int64   `json:"units"`
	Revenue       float64 `json:"revenue"`
	MeanPrice     float64 `json:"mean_price"`
	UnitsGrowth   Measure `json:"units_growth"`
	RevenueGrowth Measure `json:"revenue_growth"`
}

// YearlyAggregate holds one yearly group of the trend view together with its
// year-over-year growth rates.
type YearlyAggregate struct {
	Year          int     `json:"year"`
	Units         int64   `json:"units"`
	Revenue       float64 `json:"revenue"`
	MeanPrice     float64 `json:"mean_price"`
	UnitsGrowth   Measure `json:"units_growth"`
	RevenueGrowth Measure `json:"revenue_growth"`
}

// TrendMetrics is the per-period trend view plus the scalar growth summary.
// Each average covers only the defined period-over-period changes; with
// fewer than two periods at a granularity the average is undefined.
type TrendMetrics struct {
	Monthly []MonthlyAggregate `json:"monthly"`
	Yearly  []YearlyAggregate  `json:"yearly"`

	AvgMonthlyUnitsGrowth   Measure `json:"avg_monthly_units_growth"`
	AvgMonthlyRevenueGrowth Measure `json:"avg_monthly_revenue_growth"`
	AvgYearlyUnitsGrowth    Measure `json:"avg_yearly_units_growth"`
	AvgYearlyRevenueGrowth  Measure `json:"avg_yearly_revenue_growth"`
}

// ElasticityRecord holds the price elasticity estimate for one product.
// MeanPrice and MeanUnits are descriptive context over all of the product's
// observations; they do not enter the coefficient.
type ElasticityRecord struct {
	ProductID      string  `json:"product_id"`
	Coefficient    float64 `json:"coefficient"`
	Classification string  `json:"classification"`
	MeanPrice      float64 `json:"mean_price"`
	MeanUnits      float64 `json:"mean_units"`
	Pairs          int     `json:"pairs"` // observation pairs surviving the filter
}

// ProductPerformance is one row of the per-product performance table.
// UnitsStdDev uses the sample standard deviation (Bessel's correction) and
// is undefined for a single observation, as is the stability coefficient
// derived from it.
type ProductPerformance struct {
	ProductID    string  `json:"product_id"`
	TotalUnits   int64   `json:"total_units"`
	MeanUnits    float64 `json:"mean_units"`
	UnitsStdDev  Measure `json:"units_stddev"`
	TotalRevenue float64 `json:"total_revenue"`
	MeanRevenue  float64 `json:"mean_revenue"`
	MeanPrice    float64 `json:"mean_price"`
	MarketShare  float64 `json:"market_share"` // percent of total units
	Stability    Measure `json:"stability"`    // coefficient of variation, lower is steadier
	RevenueRank  int     `json:"revenue_rank"` // competition ranking, ties share a rank
}

// Leaders names the headline products. MostStable is empty when every
// stability coefficient is undefined; it is never defaulted to an arbitrary
// product.
type Leaders struct {
	BestSelling    string `json:"best_selling"`
	HighestRevenue string `json:"highest_revenue"`
	MostStable     string `json:"most_stable,omitempty"`
}

// PerformanceMetrics is the full performance table sorted descending by
// total revenue, the head-N top-performer slice, and the named leaders.
type PerformanceMetrics struct {
	Products      []ProductPerformance `json:"products"`
	TopPerformers []ProductPerformance `json:"top_performers"`
	Leaders       Leaders              `json:"leaders"`
}

// MetricsResult bundles the three independent metric groups computed from
// one cleaned dataset. Consumers only read this structure.
type MetricsResult struct {
	Trends      TrendMetrics                `json:"trends"`
	Elasticity  map[string]ElasticityRecord `json:"elasticity"`
	Performance PerformanceMetrics          `json:"performance"`
	RecordCount int                         `json:"record_count"`
}

// IsEmpty reports whether the result was computed from an empty dataset.
func (r *MetricsResult) IsEmpty() bool {
	return r.RecordCount == 0
}

// ElasticProducts returns the ids of products classified as elastic,
// in the order of the performance table.
func (r *MetricsResult) ElasticProducts() []string {
	var ids []string
	for _, p := range r.Performance.Products {
		if rec, ok := r.Elasticity[p.ProductID]; ok && rec.Classification == ClassElastic {
			ids = append(ids, p.ProductID)
		}
	}
	return ids
}
