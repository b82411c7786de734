// Package compare orchestrates a full plan comparison: beam matching,
// metric deltas, beam deltas and structural changes.
package compare

import (
	"fmt"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/delta"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/matching"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/plan"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"go.uber.org/zap"
)

// StructuralChanges summarizes plan-level structure differences.
type StructuralChanges struct {
	BeamCountDiff int            `json:"beamCountDiff"`
	TotalCPDiff   int            `json:"totalCPDiff"`
	TechniqueA    plan.Technique `json:"techniqueA"`
	TechniqueB    plan.Technique `json:"techniqueB"`
	TechniqueSame bool           `json:"techniqueSame"`
}

// MetricsComparison is the comparison of two plans' metric records.
type MetricsComparison struct {
	Metrics    []delta.MetricDiff `json:"metricsComparison"`
	Structural StructuralChanges  `json:"structuralChanges"`
}

// Options controls optional parts of a comparison.
type Options struct {
	// IncludeBeams enables beam matching and per-beam diffs.
	IncludeBeams bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{IncludeBeams: true}
}

// Result bundles everything produced by a plan comparison.
type Result struct {
	PlanA      string              `json:"planA"`
	PlanB      string              `json:"planB"`
	Metrics    []delta.MetricDiff  `json:"metricsComparison"`
	Categories []taxonomy.Category `json:"categories"`
	Structural StructuralChanges   `json:"structuralChanges"`
	// GeometryMatched is false when beams were paired from metric records
	// alone (name, then position).
	GeometryMatched bool             `json:"geometryMatched"`
	Beams           *matching.Result `json:"beamMatching,omitempty"`
	BeamDiffs       []delta.BeamDiff `json:"beamDiffs,omitempty"`
	Summary         Summary          `json:"summary"`
}

// Metrics compares two plans' metric records over the plan catalog.
func Metrics(a, b plan.PlanMetrics) MetricsComparison {
	return MetricsComparison{
		Metrics:    delta.Diff(a.Values, b.Values),
		Structural: Structural(a, b),
	}
}

// Structural computes beam count, control point and technique changes.
func Structural(a, b plan.PlanMetrics) StructuralChanges {
	techA := normalizeTechnique(a.Technique)
	techB := normalizeTechnique(b.Technique)
	return StructuralChanges{
		BeamCountDiff: len(b.Beams) - len(a.Beams),
		TotalCPDiff:   int(b.TotalControlPoints() - a.TotalControlPoints()),
		TechniqueA:    techA,
		TechniqueB:    techB,
		TechniqueSame: techA == techB,
	}
}

func normalizeTechnique(t plan.Technique) plan.Technique {
	if t == "" {
		return plan.TechniqueUnknown
	}
	return plan.ParseTechnique(string(t))
}

// Categories returns the distinct categories of diffs in first-seen order.
func Categories(diffs []delta.MetricDiff) []taxonomy.Category {
	seen := make(map[taxonomy.Category]bool)
	categories := make([]taxonomy.Category, 0)
	for _, d := range diffs {
		if seen[d.Category] {
			continue
		}
		seen[d.Category] = true
		categories = append(categories, d.Category)
	}
	return categories
}

// GroupByCategory splits diffs by category, keeping catalog order inside
// each group.
func GroupByCategory(diffs []delta.MetricDiff) map[taxonomy.Category][]delta.MetricDiff {
	groups := make(map[taxonomy.Category][]delta.MetricDiff)
	for _, d := range diffs {
		groups[d.Category] = append(groups[d.Category], d)
	}
	return groups
}

// Plans runs a full comparison of two plan snapshots. Beams are matched on
// geometry when both snapshots carry it, otherwise on metric records.
func Plans(logger *zap.Logger, a, b plan.Snapshot, opts Options) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	mc := Metrics(a.Metrics, b.Metrics)
	result := Result{
		PlanA:      a.PlanLabel,
		PlanB:      b.PlanLabel,
		Metrics:    mc.Metrics,
		Categories: Categories(mc.Metrics),
		Structural: mc.Structural,
		Summary:    Summarize(mc.Metrics),
	}

	if !opts.IncludeBeams {
		logger.Debug("beam comparison disabled",
			zap.String("op", "compare.Plans"),
		)
		return result
	}

	var matches matching.Result
	if a.HasGeometry() && b.HasGeometry() {
		matches = matching.Match(a.Beams, b.Beams)
		result.GeometryMatched = true
	} else {
		matches = matching.MatchBeamMetrics(a.Metrics.Beams, b.Metrics.Beams)
	}
	result.Beams = &matches
	result.BeamDiffs = delta.BeamDiffs(matches.Matches, a.Metrics.Beams, b.Metrics.Beams)

	if len(matches.UnmatchedA) > 0 || len(matches.UnmatchedB) > 0 {
		logger.Debug(fmt.Sprintf("%d beams of %s and %d beams of %s have no partner",
			len(matches.UnmatchedA), a.PlanLabel, len(matches.UnmatchedB), b.PlanLabel),
			zap.String("op", "compare.Plans"),
		)
	}

	logger.Debug("plans compared",
		zap.String("op", "compare.Plans"),
		zap.Int("metrics", len(result.Metrics)),
		zap.Int("matches", len(matches.Matches)),
		zap.Bool("geometry", result.GeometryMatched),
	)

	return result
}
