package metrics

import (
	"math"

	"salespulse/pkg/contracts/domain"
)

// computeElasticity estimates the price elasticity of demand per product.
// A product appears in the map only when at least one observation pair
// survives filtering; omission means "insufficient evidence", not an error.
func computeElasticity(ds domain.CleanedDataset) map[string]ElasticityRecord {
	byProduct := groupByProduct(ds)

	out := make(map[string]ElasticityRecord, len(byProduct))
	for product, records := range byProduct {
		// A single dated observation has no price-change period at all.
		if len(records) < 2 {
			continue
		}

		rec, ok := elasticityForProduct(product, records)
		if !ok {
			continue
		}
		out[product] = rec
	}
	return out
}

// elasticityForProduct walks the product's chronologically ordered
// observations and averages unitsChangePct/priceChangePct over the pairs
// where both changes are defined and the price actually moved. Elasticity
// is undefined, not infinite, when price did not change.
func elasticityForProduct(product string, records []domain.CleanedRecord) (ElasticityRecord, bool) {
	var (
		ratioSum float64
		pairs    int
	)
	for i := 1; i < len(records); i++ {
		priceChange := pctChange(records[i-1].AvgPrice, records[i].AvgPrice)
		unitsChange := pctChange(float64(records[i-1].UnitsSold), float64(records[i].UnitsSold))

		if !priceChange.Defined || !unitsChange.Defined || priceChange.Value == 0 {
			continue
		}
		ratio := unitsChange.Value / priceChange.Value
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			continue
		}
		ratioSum += ratio
		pairs++
	}

	if pairs == 0 {
		return ElasticityRecord{}, false
	}

	coefficient := ratioSum / float64(pairs)
	classification := ClassInelastic
	if math.Abs(coefficient) > 1 {
		classification = ClassElastic
	}

	var priceSum, unitsSum float64
	for _, r := range records {
		priceSum += r.AvgPrice
		unitsSum += float64(r.UnitsSold)
	}

	return ElasticityRecord{
		ProductID:      product,
		Coefficient:    coefficient,
		Classification: classification,
		MeanPrice:      priceSum / float64(len(records)),
		MeanUnits:      unitsSum / float64(len(records)),
		Pairs:          pairs,
	}, true
}

// groupByProduct splits the dataset per product. The dataset is already
// date-sorted, so each product's slice stays in chronological order.
func groupByProduct(ds domain.CleanedDataset) map[string][]domain.CleanedRecord {
	byProduct := make(map[string][]domain.CleanedRecord)
	for _, rec := range ds {
		byProduct[rec.ProductID] = append(byProduct[rec.ProductID], rec)
	}
	return byProduct
}
