// Package matching pairs the beams of two treatment plans.
//
// Pairing is a greedy cascade of four strategies, strongest evidence first:
// exact name, gantry range, MU similarity and position. A pair consumed by
// an earlier strategy is never reconsidered, so strategy order is part of
// the observable behavior.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/plan"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/mathutil"
)

// Type records which strategy produced a match.
type Type string

const (
	TypeExact     Type = "exact"
	TypeGantry    Type = "gantry"
	TypeMU        Type = "mu"
	TypeIndex     Type = "index"
	TypeUnmatched Type = "unmatched"
)

// Describe returns a short justification suitable for display.
func (t Type) Describe() string {
	switch t {
	case TypeExact:
		return "same name"
	case TypeGantry:
		return "same arc"
	case TypeMU:
		return "similar MU"
	case TypeIndex:
		return "paired by position"
	default:
		return "no match"
	}
}

// BeamMatch pairs beam IndexA of plan A with beam IndexB of plan B.
type BeamMatch struct {
	IndexA     int     `json:"indexA"`
	IndexB     int     `json:"indexB"`
	Type       Type    `json:"matchType"`
	Confidence float64 `json:"confidence"`
}

// Result holds the matches and the beams left without a partner. Every
// index of either plan appears exactly once across Matches and the
// corresponding unmatched list.
type Result struct {
	Matches    []BeamMatch `json:"matches"`
	UnmatchedA []int       `json:"unmatchedA"`
	UnmatchedB []int       `json:"unmatchedB"`
}

// Lookup returns the match for beam indexA of plan A.
func (r Result) Lookup(indexA int) (BeamMatch, bool) {
	i := sort.Search(len(r.Matches), func(i int) bool { return r.Matches[i].IndexA >= indexA })
	if i < len(r.Matches) && r.Matches[i].IndexA == indexA {
		return r.Matches[i], true
	}
	return BeamMatch{}, false
}

// cascade tracks consumed indices for a single matching call.
type cascade struct {
	usedA   []bool
	usedB   []bool
	matches []BeamMatch
}

func newCascade(lenA, lenB int) *cascade {
	return &cascade{
		usedA:   make([]bool, lenA),
		usedB:   make([]bool, lenB),
		matches: make([]BeamMatch, 0, min(lenA, lenB)),
	}
}

func (c *cascade) pair(i, j int, t Type, confidence float64) {
	c.usedA[i] = true
	c.usedB[j] = true
	c.matches = append(c.matches, BeamMatch{IndexA: i, IndexB: j, Type: t, Confidence: confidence})
}

// firstFit pairs each unused i with the lowest unused j accepted by fn.
func (c *cascade) firstFit(t Type, fn func(i, j int) (float64, bool)) {
	for i := range c.usedA {
		if c.usedA[i] {
			continue
		}
		for j := range c.usedB {
			if c.usedB[j] {
				continue
			}
			if confidence, ok := fn(i, j); ok {
				c.pair(i, j, t, confidence)
				break
			}
		}
	}
}

func (c *cascade) byName(nameA, nameB func(int) string) {
	c.firstFit(TypeExact, func(i, j int) (float64, bool) {
		return constants.ConfidenceExact, strings.EqualFold(nameA(i), nameB(j))
	})
}

// byPosition zips the remaining indices in ascending order and returns the
// leftovers on each side.
func (c *cascade) byPosition() ([]int, []int) {
	remainingA := unused(c.usedA)
	remainingB := unused(c.usedB)
	n := min(len(remainingA), len(remainingB))
	for k := 0; k < n; k++ {
		c.pair(remainingA[k], remainingB[k], TypeIndex, constants.ConfidenceIndex)
	}
	return remainingA[n:], remainingB[n:]
}

func (c *cascade) result() Result {
	unmatchedA, unmatchedB := c.byPosition()
	sort.Slice(c.matches, func(x, y int) bool { return c.matches[x].IndexA < c.matches[y].IndexA })
	return Result{
		Matches:    c.matches,
		UnmatchedA: append([]int{}, unmatchedA...),
		UnmatchedB: append([]int{}, unmatchedB...),
	}
}

func unused(used []bool) []int {
	out := make([]int, 0, len(used))
	for i, u := range used {
		if !u {
			out = append(out, i)
		}
	}
	return out
}

// Match pairs beamsA with beamsB using the full four-strategy cascade.
func Match(beamsA, beamsB []plan.Beam) Result {
	c := newCascade(len(beamsA), len(beamsB))

	c.byName(
		func(i int) string { return beamsA[i].Name },
		func(j int) string { return beamsB[j].Name },
	)

	c.firstFit(TypeGantry, func(i, j int) (float64, bool) {
		a, b := beamsA[i], beamsB[j]
		if a.Direction == "" || a.Direction != b.Direction {
			return 0, false
		}
		if !mathutil.WithinTolerance(a.GantryAngleStart, b.GantryAngleStart, constants.GantryToleranceDegrees) ||
			!mathutil.WithinTolerance(a.GantryAngleEnd, b.GantryAngleEnd, constants.GantryToleranceDegrees) {
			return 0, false
		}
		startDiff := math.Abs(a.GantryAngleStart - b.GantryAngleStart)
		endDiff := math.Abs(a.GantryAngleEnd - b.GantryAngleEnd)
		return constants.ConfidenceGantryBase - (startDiff+endDiff)/100, true
	})

	matchByMU(c, beamsA, beamsB)

	return c.result()
}

// matchByMU is best fit: each unused i takes the unused j with the lowest
// relative MU difference below the tolerance.
func matchByMU(c *cascade, beamsA, beamsB []plan.Beam) {
	for i := range beamsA {
		if c.usedA[i] {
			continue
		}
		muA := beamsA[i].MU()
		best := -1
		bestDiff := math.Inf(1)
		for j := range beamsB {
			if c.usedB[j] {
				continue
			}
			muB := beamsB[j].MU()
			// Relative difference is only defined against a positive reference.
			if math.Max(muA, muB) <= 0 {
				continue
			}
			diff := mathutil.RelativeDiff(muA, muB)
			if diff < constants.MURelativeTolerance && diff < bestDiff {
				best = j
				bestDiff = diff
			}
		}
		if best >= 0 {
			c.pair(i, best, TypeMU, constants.ConfidenceMUBase-bestDiff)
		}
	}
}

// MatchBeamMetrics pairs beams when only metric records are available:
// exact name first, then position.
func MatchBeamMetrics(metricsA, metricsB []plan.BeamMetrics) Result {
	c := newCascade(len(metricsA), len(metricsB))
	c.byName(
		func(i int) string { return metricsA[i].BeamName },
		func(j int) string { return metricsB[j].BeamName },
	)
	return c.result()
}
