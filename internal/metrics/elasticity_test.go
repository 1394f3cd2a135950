package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

func TestComputeElasticity(t *testing.T) {
	ds := domain.CleanedDataset{
		// A: price +10%, units +10% -> elasticity 1.0 (boundary, inelastic).
		rec("2022-01-01", "A", 100, 10),
		rec("2022-02-01", "A", 110, 11),
		// B: price +25%, units -20% -> elasticity -0.8 (inelastic).
		rec("2022-01-01", "B", 50, 20),
		rec("2022-02-01", "B", 40, 25),
		// C: price +10%, units -30% -> elasticity -3.0 (elastic).
		rec("2022-01-01", "C", 100, 10),
		rec("2022-02-01", "C", 70, 11),
	}

	elasticity := computeElasticity(ds)
	require.Len(t, elasticity, 3)

	a := elasticity["A"]
	assert.InDelta(t, 1.0, a.Coefficient, 1e-9)
	assert.Equal(t, ClassInelastic, a.Classification, "|1.0| boundary is inelastic")
	assert.Equal(t, 1, a.Pairs)
	assert.InDelta(t, 10.5, a.MeanPrice, 1e-9)
	assert.InDelta(t, 105.0, a.MeanUnits, 1e-9)

	b := elasticity["B"]
	assert.InDelta(t, -0.8, b.Coefficient, 1e-9)
	assert.Equal(t, ClassInelastic, b.Classification)

	c := elasticity["C"]
	assert.InDelta(t, -3.0, c.Coefficient, 1e-9)
	assert.Equal(t, ClassElastic, c.Classification)
}

func TestComputeElasticityExclusions(t *testing.T) {
	tests := []struct {
		name string
		ds   domain.CleanedDataset
	}{
		{
			name: "single observation",
			ds: domain.CleanedDataset{
				rec("2022-01-01", "X", 100, 10),
			},
		},
		{
			name: "price never changes",
			ds: domain.CleanedDataset{
				rec("2022-01-01", "X", 100, 10),
				rec("2022-02-01", "X", 120, 10),
				rec("2022-03-01", "X", 90, 10),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elasticity := computeElasticity(tt.ds)
			// Insufficient evidence means the product is omitted entirely,
			// not present with a null estimate.
			_, ok := elasticity["X"]
			assert.False(t, ok)
		})
	}
}

func TestComputeElasticitySkipsZeroPricePairs(t *testing.T) {
	// Middle pair has no price change and must not poison the average.
	ds := domain.CleanedDataset{
		rec("2022-01-01", "A", 100, 10),
		rec("2022-02-01", "A", 110, 11), // +10% price, +10% units -> 1.0
		rec("2022-03-01", "A", 150, 11), // price unchanged, pair skipped
		rec("2022-04-01", "A", 165, 12.1), // +10% price, +10% units -> 1.0
	}

	elasticity := computeElasticity(ds)
	a, ok := elasticity["A"]
	require.True(t, ok)
	assert.Equal(t, 2, a.Pairs)
	assert.InDelta(t, 1.0, a.Coefficient, 1e-6)
}

func TestComputeElasticityPerProductOrdering(t *testing.T) {
	// Observations interleaved across products; each product's series must
	// be evaluated in its own chronological order.
	ds := domain.CleanedDataset{
		rec("2022-01-01", "A", 100, 10),
		rec("2022-01-01", "B", 10, 100),
		rec("2022-02-01", "B", 12, 90),
		rec("2022-02-01", "A", 110, 11),
	}

	elasticity := computeElasticity(ds)
	require.Len(t, elasticity, 2)
	assert.InDelta(t, 1.0, elasticity["A"].Coefficient, 1e-9)
	// B: units +20%, price -10% -> -2.0, elastic.
	assert.InDelta(t, -2.0, elasticity["B"].Coefficient, 1e-9)
	assert.Equal(t, ClassElastic, elasticity["B"].Classification)
}
