package delta

import (
	"testing"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/matching"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/plan"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeamDiffsScenario(t *testing.T) {
	metricsA := []plan.BeamMetrics{
		testutil.BeamMetrics("Arc1", 200, 0.31, 90),
		testutil.BeamMetrics("Arc2", 210, 0.33, 90),
	}
	metricsB := []plan.BeamMetrics{
		testutil.BeamMetrics("ARC1", 205, 0.30, 90),
		testutil.BeamMetrics("Arc2_mod", 400, 0.21, 120),
	}
	matches := []matching.BeamMatch{
		{IndexA: 0, IndexB: 0, Type: matching.TypeExact, Confidence: 1},
		{IndexA: 1, IndexB: 1, Type: matching.TypeGantry, Confidence: 0.88},
	}

	diffs := BeamDiffs(matches, metricsA, metricsB)

	require.Len(t, diffs, 2)

	first := diffs[0]
	assert.Equal(t, "Arc1", first.BeamNameA)
	assert.Equal(t, "ARC1", first.BeamNameB)
	assert.InDelta(t, 2.5, first.MUDiffPercent, 1e-9)
	assert.Equal(t, SignificanceModerate, first.MUSignificance)

	second := diffs[1]
	assert.Equal(t, matching.TypeGantry, second.MatchType)
	assert.Equal(t, 0.88, second.Confidence)
	assert.Equal(t, 190.0, second.MUDiff)
	assert.InDelta(t, 90.476, second.MUDiffPercent, 1e-3)
	assert.Equal(t, SignificanceMajor, second.MUSignificance)
	assert.InDelta(t, -36.36, second.MCSDiffPercent, 1e-2)
	assert.Equal(t, 90, second.ControlPointsA)
	assert.Equal(t, 120, second.ControlPointsB)

	require.Len(t, second.Metrics, 3)
	assert.Equal(t, taxonomy.BeamMU, second.Metrics[0].Metric)
	assert.Equal(t, 190.0, second.Metrics[0].AbsoluteDiff)
	assert.Equal(t, taxonomy.NumberOfControlPoints, second.Metrics[1].Metric)
	assert.Equal(t, DirectionIncrease, second.Metrics[1].Direction)
	assert.Equal(t, taxonomy.MCS, second.Metrics[2].Metric)
	assert.Equal(t, DirectionDecrease, second.Metrics[2].Direction)
}

func TestBeamDiffsMissingValuesDefaultToZero(t *testing.T) {
	metricsA := []plan.BeamMetrics{{BeamName: "A", Values: taxonomy.Values{taxonomy.MCS: 0.2}}}
	metricsB := []plan.BeamMetrics{{BeamName: "B", Values: taxonomy.Values{taxonomy.BeamMU: 50}}}

	diffs := BeamDiffs([]matching.BeamMatch{{IndexA: 0, IndexB: 0, Type: matching.TypeIndex, Confidence: 0.3}}, metricsA, metricsB)

	require.Len(t, diffs, 1)
	d := diffs[0]
	assert.Equal(t, 0.0, d.MUA)
	assert.Equal(t, 50.0, d.MUB)
	assert.Equal(t, 100.0, d.MUDiffPercent)
	assert.Equal(t, 0.0, d.MCSB)
	assert.Equal(t, -100.0, d.MCSDiffPercent)
	assert.Equal(t, 0, d.ControlPointsA)
}

func TestBeamDiffsIndexOutOfRange(t *testing.T) {
	matches := []matching.BeamMatch{{IndexA: 3, IndexB: 0, Type: matching.TypeIndex, Confidence: 0.3}}

	diffs := BeamDiffs(matches, nil, []plan.BeamMetrics{testutil.BeamMetrics("B", 0, 0, 0)})

	require.Len(t, diffs, 1)
	assert.Equal(t, "", diffs[0].BeamNameA)
	assert.Equal(t, 0.0, diffs[0].MUDiffPercent)
	assert.Equal(t, SignificanceMinor, diffs[0].MUSignificance)
}

func TestBeamDiffsEmpty(t *testing.T) {
	diffs := BeamDiffs(nil, nil, nil)
	assert.NotNil(t, diffs)
	assert.Empty(t, diffs)
}

func TestBeamMetricDiffs(t *testing.T) {
	metricsA := []plan.BeamMetrics{testutil.BeamMetrics("A", 100, 0.5, 80)}
	metricsB := []plan.BeamMetrics{testutil.BeamMetrics("B", 100, 0.4, 100)}

	diffs := BeamMetricDiffs(matching.BeamMatch{IndexA: 0, IndexB: 0}, metricsA, metricsB)

	require.Len(t, diffs, 3)
	assert.Equal(t, taxonomy.BeamMU, diffs[0].Metric)
	assert.Equal(t, DirectionSame, diffs[0].Direction)
	assert.Equal(t, taxonomy.NumberOfControlPoints, diffs[1].Metric)
	assert.Equal(t, 25.0, diffs[1].PercentDiff)
	assert.Equal(t, taxonomy.MCS, diffs[2].Metric)
}
