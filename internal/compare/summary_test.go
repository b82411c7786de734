package compare

import (
	"testing"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/delta"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeNoChange(t *testing.T) {
	values := taxonomy.Values{taxonomy.TotalMU: 100, taxonomy.MCS: 0.5}
	s := Summarize(delta.Diff(values, values))

	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 2, s.Unchanged)
	assert.Equal(t, 0.0, s.MaxAbsPercentDiff)
	assert.Empty(t, s.LargestChange)
}

func TestSummarize(t *testing.T) {
	diffs := delta.Diff(
		taxonomy.Values{taxonomy.TotalMU: 100, taxonomy.MCS: 0.5, taxonomy.SAS5: 0.2},
		taxonomy.Values{taxonomy.TotalMU: 105, taxonomy.MCS: 0.5, taxonomy.SAS5: 0.1},
	)

	s := Summarize(diffs)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Improved)
	assert.Equal(t, 0, s.Regressed)
	assert.Equal(t, 1, s.Caution)
	assert.Equal(t, 1, s.Neutral)
	assert.Equal(t, 1, s.Unchanged)
	assert.Equal(t, 1, s.Major)
	assert.InDelta(t, 5.0, s.MedianAbsPercentDiff, 1e-9)
	assert.InDelta(t, 50.0, s.MaxAbsPercentDiff, 1e-9)
	assert.InDelta(t, 55.0/3, s.MeanAbsPercentDiff, 1e-9)
	assert.Equal(t, taxonomy.SAS5, s.LargestChange)
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 50, 0},
		{"single", []float64{7}, 50, 7},
		{"odd median", []float64{1, 2, 3}, 50, 2},
		{"even median", []float64{1, 2, 3, 4}, 50, 2.5},
		{"quartile", []float64{0, 10, 20, 30, 40}, 25, 10},
		{"interpolated", []float64{0, 10}, 75, 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(tt.sorted, tt.p), 1e-9)
		})
	}
}
