// Package plan defines the beam geometry and metric records of a treatment
// plan as handed over by the external DICOM parser and metrics engine.
package plan

import (
	"strings"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
)

// RotationDirection is the gantry rotation direction of a beam's first
// control point. The empty value means the direction was not recorded.
type RotationDirection string

const (
	DirectionCW   RotationDirection = "CW"
	DirectionCCW  RotationDirection = "CCW"
	DirectionNone RotationDirection = "NONE"
)

// ParseRotationDirection normalizes a DICOM rotation direction string.
// Unrecognized values yield the empty direction and false.
func ParseRotationDirection(s string) (RotationDirection, bool) {
	switch d := RotationDirection(strings.ToUpper(strings.TrimSpace(s))); d {
	case DirectionCW, DirectionCCW, DirectionNone:
		return d, true
	default:
		return "", false
	}
}

// Technique is the delivery technique of a plan.
type Technique string

const (
	TechniqueVMAT      Technique = "VMAT"
	TechniqueIMRT      Technique = "IMRT"
	TechniqueConformal Technique = "CONFORMAL"
	TechniqueUnknown   Technique = "UNKNOWN"
)

// ParseTechnique normalizes a technique label; anything unrecognized is
// TechniqueUnknown.
func ParseTechnique(s string) Technique {
	switch t := Technique(strings.ToUpper(strings.TrimSpace(s))); t {
	case TechniqueVMAT, TechniqueIMRT, TechniqueConformal:
		return t
	default:
		return TechniqueUnknown
	}
}

// Beam holds the static geometry of one beam.
type Beam struct {
	BeamNumber            int               `json:"beamNumber"`
	Name                  string            `json:"beamName"`
	GantryAngleStart      float64           `json:"gantryAngleStart"`
	GantryAngleEnd        float64           `json:"gantryAngleEnd"`
	Direction             RotationDirection `json:"rotationDirection,omitempty"`
	Dose                  *float64          `json:"beamDose,omitempty"`
	NumberOfControlPoints int               `json:"numberOfControlPoints"`
}

// MU returns the beam's monitor units, 0 when the dose is absent.
func (b Beam) MU() float64 {
	if b.Dose == nil {
		return 0
	}
	return *b.Dose
}

// BeamMetrics holds the scalar metrics of one beam.
type BeamMetrics struct {
	BeamNumber int             `json:"beamNumber"`
	BeamName   string          `json:"beamName"`
	Values     taxonomy.Values `json:"metrics"`
}

// PlanMetrics holds plan-level scalar metrics plus the per-beam breakdown.
type PlanMetrics struct {
	PlanLabel string          `json:"planLabel"`
	Technique Technique       `json:"technique"`
	Values    taxonomy.Values `json:"metrics"`
	Beams     []BeamMetrics   `json:"beamMetrics"`
}

// TotalControlPoints sums numberOfControlPoints across the beam breakdown.
// Beams without the metric contribute 0.
func (m PlanMetrics) TotalControlPoints() float64 {
	var total float64
	for _, b := range m.Beams {
		total += b.Values.Or(taxonomy.NumberOfControlPoints, 0)
	}
	return total
}

// Snapshot is one plan as delivered to the comparison core: geometry and
// metrics. Beams and Metrics.Beams are aligned by index.
type Snapshot struct {
	PlanLabel string      `json:"planLabel"`
	Technique Technique   `json:"technique"`
	Beams     []Beam      `json:"beams"`
	Metrics   PlanMetrics `json:"metrics"`
}

// HasGeometry reports whether beam geometry is available.
func (s Snapshot) HasGeometry() bool {
	return len(s.Beams) > 0
}
