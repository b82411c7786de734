// Package delta computes and classifies metric differences between two
// plans or two matched beams.
package delta

import (
	"math"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/mathutil"
)

// Direction of change from plan A to plan B.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionSame     Direction = "same"
)

// Significance tier of a change, based on |percent difference|.
type Significance string

const (
	SignificanceMinor    Significance = "minor"
	SignificanceModerate Significance = "moderate"
	SignificanceMajor    Significance = "major"
)

// MetricDiff is the comparison of one metric between plan A and plan B.
// PlanA and PlanB are nil when the metric is undefined on that side; the
// arithmetic fields treat a missing side as 0.
type MetricDiff struct {
	Metric        taxonomy.Key      `json:"metric"`
	Label         string            `json:"label"`
	Category      taxonomy.Category `json:"category"`
	Unit          string            `json:"unit,omitempty"`
	PlanA         *float64          `json:"planA"`
	PlanB         *float64          `json:"planB"`
	AbsoluteDiff  float64           `json:"absoluteDiff"`
	PercentDiff   float64           `json:"percentDiff"`
	Direction     Direction         `json:"direction"`
	Significance  Significance      `json:"significance"`
	LowerIsBetter bool              `json:"lowerIsBetter"`
}

// Diff compares two metric records over the plan catalog, in catalog order.
func Diff(a, b taxonomy.Values) []MetricDiff {
	return DiffWith(taxonomy.Definitions(), a, b)
}

// DiffWith compares two metric records over defs, in order. Metrics that
// are undefined on both sides are omitted.
func DiffWith(defs []taxonomy.Definition, a, b taxonomy.Values) []MetricDiff {
	diffs := make([]MetricDiff, 0, len(defs))
	for _, def := range defs {
		valA := a.Ptr(def.Key)
		valB := b.Ptr(def.Key)
		if valA == nil && valB == nil {
			continue
		}
		diffs = append(diffs, Compute(def, valA, valB))
	}
	return diffs
}

// Compute builds the MetricDiff for one definition.
func Compute(def taxonomy.Definition, valA, valB *float64) MetricDiff {
	a := mathutil.ValueOrZero(valA)
	b := mathutil.ValueOrZero(valB)
	abs := b - a
	pct := mathutil.PercentDiff(a, b)

	return MetricDiff{
		Metric:        def.Key,
		Label:         def.Label,
		Category:      def.Category,
		Unit:          def.Unit,
		PlanA:         valA,
		PlanB:         valB,
		AbsoluteDiff:  abs,
		PercentDiff:   pct,
		Direction:     DirectionOf(abs),
		Significance:  SignificanceOf(pct),
		LowerIsBetter: def.LowerIsBetter,
	}
}

// DirectionOf classifies an absolute difference.
func DirectionOf(absoluteDiff float64) Direction {
	switch {
	case mathutil.IsNegligible(absoluteDiff):
		return DirectionSame
	case absoluteDiff > 0:
		return DirectionIncrease
	default:
		return DirectionDecrease
	}
}

// SignificanceOf tiers a percent difference: below 1 minor, [1, 10)
// moderate, 10 and above major.
func SignificanceOf(percentDiff float64) Significance {
	p := math.Abs(percentDiff)
	switch {
	case p < constants.SignificanceModeratePercent:
		return SignificanceMinor
	case p < constants.SignificanceMajorPercent:
		return SignificanceModerate
	default:
		return SignificanceMajor
	}
}
