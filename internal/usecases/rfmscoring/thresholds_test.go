package rfmscoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdTableBand(t *testing.T) {
	recency := ThresholdTable{
		Mode:       BandAtMost,
		Boundaries: []float64{30, 90, 180, 365},
		Scores:     []int{5, 4, 3, 2, 1},
	}
	frequency := ThresholdTable{
		Mode:       BandAtLeast,
		Boundaries: []float64{10, 5, 3, 2},
		Scores:     []int{5, 4, 3, 2, 1},
	}

	tests := []struct {
		name      string
		table     ThresholdTable
		value     float64
		wantScore int
	}{
		{"recency well inside best band", recency, 5, 5},
		{"recency on boundary takes better band", recency, 30, 5},
		{"recency just past boundary", recency, 31, 4},
		{"recency beyond last boundary", recency, 900, 1},
		{"frequency on boundary takes better band", frequency, 10, 5},
		{"frequency just below boundary", frequency, 9, 4},
		{"frequency below all boundaries", frequency, 1, 1},
		{"frequency zero", frequency, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, score := tt.table.Band(tt.value)
			assert.Equal(t, tt.wantScore, score)
		})
	}
}

func TestThresholdTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   ThresholdTable
		wantErr bool
	}{
		{
			name: "valid recency table",
			table: ThresholdTable{
				Mode:       BandAtMost,
				Boundaries: []float64{30, 90},
				Scores:     []int{5, 3, 1},
			},
		},
		{
			name: "score length mismatch",
			table: ThresholdTable{
				Mode:       BandAtMost,
				Boundaries: []float64{30, 90},
				Scores:     []int{5, 3},
			},
			wantErr: true,
		},
		{
			name: "boundaries not ascending for at_most",
			table: ThresholdTable{
				Mode:       BandAtMost,
				Boundaries: []float64{90, 30},
				Scores:     []int{5, 3, 1},
			},
			wantErr: true,
		},
		{
			name: "boundaries not descending for at_least",
			table: ThresholdTable{
				Mode:       BandAtLeast,
				Boundaries: []float64{2, 10},
				Scores:     []int{5, 3, 1},
			},
			wantErr: true,
		},
		{
			name: "score outside 1..5",
			table: ThresholdTable{
				Mode:       BandAtMost,
				Boundaries: []float64{30},
				Scores:     []int{6, 1},
			},
			wantErr: true,
		},
		{
			name: "unknown mode",
			table: ThresholdTable{
				Mode:       "sideways",
				Boundaries: []float64{30},
				Scores:     []int{5, 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}

	assert.Equal(t, 10.0, Percentile(data, 0))
	assert.Equal(t, 30.0, Percentile(data, 50))
	assert.Equal(t, 50.0, Percentile(data, 100))
	// Linear interpolation between ranks: k = 0.8 * 4 = 3.2
	assert.InDelta(t, 42.0, Percentile(data, 80), 0.001)

	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 80))
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	data := []float64{30, 10, 20}
	Percentile(data, 50)
	require.Equal(t, []float64{30, 10, 20}, data)
}
