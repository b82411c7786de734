package delta

import (
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/matching"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/plan"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/mathutil"
)

// BeamDiff compares one matched beam pair.
type BeamDiff struct {
	IndexA     int           `json:"indexA"`
	IndexB     int           `json:"indexB"`
	BeamNameA  string        `json:"beamNameA"`
	BeamNameB  string        `json:"beamNameB"`
	MatchType  matching.Type `json:"matchType"`
	Confidence float64       `json:"confidence"`

	MUA            float64      `json:"muA"`
	MUB            float64      `json:"muB"`
	MUDiff         float64      `json:"muDiff"`
	MUDiffPercent  float64      `json:"muDiffPercent"`
	MUSignificance Significance `json:"muSignificance"`

	MCSA            float64      `json:"mcsA"`
	MCSB            float64      `json:"mcsB"`
	MCSDiff         float64      `json:"mcsDiff"`
	MCSDiffPercent  float64      `json:"mcsDiffPercent"`
	MCSSignificance Significance `json:"mcsSignificance"`

	ControlPointsA int     `json:"controlPointsA"`
	ControlPointsB int     `json:"controlPointsB"`
	ArcLengthA     float64 `json:"arcLengthA"`
	ArcLengthB     float64 `json:"arcLengthB"`

	// Metrics covers the whole beam catalog for this pair.
	Metrics []MetricDiff `json:"metrics"`
}

// BeamDiffs builds one BeamDiff per match. A match index with no metric
// record, or a record lacking a value, contributes 0 for that value.
func BeamDiffs(matches []matching.BeamMatch, metricsA, metricsB []plan.BeamMetrics) []BeamDiff {
	diffs := make([]BeamDiff, 0, len(matches))
	for _, m := range matches {
		a := beamAt(metricsA, m.IndexA)
		b := beamAt(metricsB, m.IndexB)

		muA := a.Values.Or(taxonomy.BeamMU, 0)
		muB := b.Values.Or(taxonomy.BeamMU, 0)
		mcsA := a.Values.Or(taxonomy.MCS, 0)
		mcsB := b.Values.Or(taxonomy.MCS, 0)
		muPct := mathutil.PercentDiff(muA, muB)
		mcsPct := mathutil.PercentDiff(mcsA, mcsB)

		diffs = append(diffs, BeamDiff{
			IndexA:     m.IndexA,
			IndexB:     m.IndexB,
			BeamNameA:  a.BeamName,
			BeamNameB:  b.BeamName,
			MatchType:  m.Type,
			Confidence: m.Confidence,

			MUA:            muA,
			MUB:            muB,
			MUDiff:         muB - muA,
			MUDiffPercent:  muPct,
			MUSignificance: SignificanceOf(muPct),

			MCSA:            mcsA,
			MCSB:            mcsB,
			MCSDiff:         mcsB - mcsA,
			MCSDiffPercent:  mcsPct,
			MCSSignificance: SignificanceOf(mcsPct),

			ControlPointsA: int(a.Values.Or(taxonomy.NumberOfControlPoints, 0)),
			ControlPointsB: int(b.Values.Or(taxonomy.NumberOfControlPoints, 0)),
			ArcLengthA:     a.Values.Or(taxonomy.ArcLength, 0),
			ArcLengthB:     b.Values.Or(taxonomy.ArcLength, 0),

			Metrics: BeamMetricDiffs(m, metricsA, metricsB),
		})
	}
	return diffs
}

// BeamMetricDiffs compares every beam-level metric of one matched pair
// over the beam catalog.
func BeamMetricDiffs(m matching.BeamMatch, metricsA, metricsB []plan.BeamMetrics) []MetricDiff {
	return DiffWith(taxonomy.BeamDefinitions(), beamAt(metricsA, m.IndexA).Values, beamAt(metricsB, m.IndexB).Values)
}

func beamAt(metrics []plan.BeamMetrics, i int) plan.BeamMetrics {
	if i < 0 || i >= len(metrics) {
		return plan.BeamMetrics{}
	}
	return metrics[i]
}
