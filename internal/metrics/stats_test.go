package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPctChange(t *testing.T) {
	tests := []struct {
		name        string
		prev, cur   float64
		wantDefined bool
		want        float64
	}{
		{"increase", 100, 150, true, 50},
		{"decrease", 150, 120, true, -20},
		{"no change", 100, 100, true, 0},
		{"zero previous is undefined, not infinite", 0, 100, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pctChange(tt.prev, tt.cur)
			assert.Equal(t, tt.wantDefined, got.Defined)
			if tt.wantDefined {
				assert.InDelta(t, tt.want, got.Value, 1e-9)
			}
		})
	}
}

func TestMeanOfDefined(t *testing.T) {
	tests := []struct {
		name        string
		values      []Measure
		wantDefined bool
		want        float64
	}{
		{"all defined", []Measure{Defined(10), Defined(20)}, true, 15},
		{"undefined excluded from the mean", []Measure{Undefined(), Defined(10), Defined(30)}, true, 20},
		{"all undefined", []Measure{Undefined(), Undefined()}, false, 0},
		{"empty", nil, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := meanOfDefined(tt.values)
			assert.Equal(t, tt.wantDefined, got.Defined)
			if tt.wantDefined {
				assert.InDelta(t, tt.want, got.Value, 1e-9)
			}
		})
	}
}

func TestSampleStdDev(t *testing.T) {
	t.Run("single observation is undefined", func(t *testing.T) {
		assert.False(t, sampleStdDev([]float64{42}).Defined)
	})

	t.Run("bessel correction", func(t *testing.T) {
		// Sample stddev of {2, 4, 4, 4, 5, 5, 7, 9} with n-1 is ~2.138.
		got := sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		assert.True(t, got.Defined)
		assert.InDelta(t, 2.13809, got.Value, 1e-4)
	})

	t.Run("constant series", func(t *testing.T) {
		got := sampleStdDev([]float64{5, 5, 5})
		assert.True(t, got.Defined)
		assert.InDelta(t, 0, got.Value, 1e-9)
	})
}

func TestCompetitionRanks(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []int
	}{
		{"distinct values", []float64{300, 100, 200}, []int{1, 3, 2}},
		{"tie shares rank and skips the next", []float64{300, 300, 100}, []int{1, 1, 3}},
		{"all tied", []float64{50, 50, 50}, []int{1, 1, 1}},
		{"single value", []float64{10}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, competitionRanks(tt.values))
		})
	}
}
