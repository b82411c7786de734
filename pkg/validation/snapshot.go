package validation

import (
	"fmt"
	"strings"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/plan"
)

// ValidateGantryAngles checks that both angles of a beam lie in [0, 360].
func ValidateGantryAngles(beamName string, start, end float64) []string {
	var warnings []string
	if start < 0 || start > 360 {
		warnings = append(warnings, fmt.Sprintf("Beam '%s' start angle %.1f is outside [0, 360]", beamName, start))
	}
	if end < 0 || end > 360 {
		warnings = append(warnings, fmt.Sprintf("Beam '%s' end angle %.1f is outside [0, 360]", beamName, end))
	}
	return warnings
}

// ValidateBeam checks the geometry of a single beam. Arcs without a rotation
// direction can never be paired by gantry range.
func ValidateBeam(b plan.Beam) []string {
	warnings := ValidateGantryAngles(b.Name, b.GantryAngleStart, b.GantryAngleEnd)

	if b.Direction == "" && b.GantryAngleStart != b.GantryAngleEnd {
		warnings = append(warnings, fmt.Sprintf("Beam '%s' is an arc without rotation direction", b.Name))
	}
	if b.Dose != nil && *b.Dose < 0 {
		warnings = append(warnings, fmt.Sprintf("Beam '%s' has negative MU (%.2f)", b.Name, *b.Dose))
	}
	if b.NumberOfControlPoints < 0 {
		warnings = append(warnings, fmt.Sprintf("Beam '%s' has negative control point count", b.Name))
	}
	return warnings
}

// SnapshotValidator checks a plan snapshot for conditions that degrade the
// comparison without making it impossible.
type SnapshotValidator struct {
	Snapshot plan.Snapshot
}

// ValidateAll validates the whole snapshot and returns warnings
func (sv *SnapshotValidator) ValidateAll() []string {
	var warnings []string
	snap := sv.Snapshot

	label := snap.PlanLabel
	if label == "" {
		label = "(unnamed)"
		warnings = append(warnings, "Plan has no label")
	}

	// Check beam geometry
	for _, b := range snap.Beams {
		warnings = append(warnings, ValidateBeam(b)...)
	}

	// Geometry and metric records are aligned by index
	if snap.HasGeometry() && len(snap.Metrics.Beams) != len(snap.Beams) {
		warnings = append(warnings, fmt.Sprintf("Plan '%s' has %d beams but %d beam metric records",
			label, len(snap.Beams), len(snap.Metrics.Beams)))
	}

	// Duplicate names make exact-name matching order dependent
	seen := make(map[string]bool)
	for _, b := range snap.Beams {
		key := strings.ToLower(b.Name)
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("Plan '%s' has duplicate beam name '%s'", label, b.Name))
			continue
		}
		seen[key] = true
	}

	if !snap.HasGeometry() && len(snap.Metrics.Beams) == 0 {
		warnings = append(warnings, fmt.Sprintf("Plan '%s' has neither beam geometry nor beam metrics", label))
	}

	return warnings
}
