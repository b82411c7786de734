package compare

import (
	"math"
	"sort"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/delta"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds headline counts and spread statistics of a comparison.
type Summary struct {
	Total     int `json:"total"`
	Improved  int `json:"improved"`
	Regressed int `json:"regressed"`
	Caution   int `json:"caution"`
	Neutral   int `json:"neutral"`
	Unchanged int `json:"unchanged"`
	Major     int `json:"major"`

	MeanAbsPercentDiff   float64      `json:"meanAbsPercentDiff"`
	StdDevAbsPercentDiff float64      `json:"stdDevAbsPercentDiff"`
	MedianAbsPercentDiff float64      `json:"medianAbsPercentDiff"`
	MaxAbsPercentDiff    float64      `json:"maxAbsPercentDiff"`
	LargestChange        taxonomy.Key `json:"largestChange,omitempty"`
}

// Summarize tallies diffs by tone and describes the spread of
// |percentDiff|. An empty input yields a zero Summary. LargestChange stays
// empty when no metric changed.
func Summarize(diffs []delta.MetricDiff) Summary {
	s := Summary{Total: len(diffs)}
	if len(diffs) == 0 {
		return s
	}

	abs := make([]float64, len(diffs))
	for i, d := range diffs {
		switch delta.Classify(d) {
		case delta.TonePositive:
			s.Improved++
		case delta.ToneNegative:
			s.Regressed++
		case delta.ToneCaution:
			s.Caution++
		default:
			s.Neutral++
		}
		if d.Direction == delta.DirectionSame {
			s.Unchanged++
		}
		if d.Significance == delta.SignificanceMajor {
			s.Major++
		}
		abs[i] = math.Abs(d.PercentDiff)
	}

	s.MeanAbsPercentDiff, s.StdDevAbsPercentDiff = stat.PopMeanStdDev(abs, nil)
	s.MaxAbsPercentDiff = floats.Max(abs)
	if s.MaxAbsPercentDiff > 0 {
		s.LargestChange = diffs[floats.MaxIdx(abs)].Metric
	}

	sorted := append([]float64(nil), abs...)
	sort.Float64s(sorted)
	s.MedianAbsPercentDiff = percentile(sorted, 50)

	return s
}

// percentile interpolates linearly between closest ranks of sorted values.
func percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}
	idx := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	return sorted[lower] + (idx-float64(lower))*(sorted[upper]-sorted[lower])
}
