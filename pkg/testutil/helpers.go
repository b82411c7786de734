// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/plan"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
)

// Beam builds a beam with the given geometry and MU. The beam number is left
// at zero and the control point count at 90.
func Beam(name string, start, end float64, dir plan.RotationDirection, mu float64) plan.Beam {
	dose := mu
	return plan.Beam{
		Name:                  name,
		GantryAngleStart:      start,
		GantryAngleEnd:        end,
		Direction:             dir,
		Dose:                  &dose,
		NumberOfControlPoints: 90,
	}
}

// BeamMetrics builds a beam metric record carrying beamMU, MCS and
// numberOfControlPoints.
func BeamMetrics(name string, mu, mcs float64, controlPoints int) plan.BeamMetrics {
	return plan.BeamMetrics{
		BeamName: name,
		Values: taxonomy.Values{
			taxonomy.BeamMU:                mu,
			taxonomy.MCS:                   mcs,
			taxonomy.NumberOfControlPoints: float64(controlPoints),
		},
	}
}

// Snapshot assembles a snapshot from beams, deriving the beam breakdown from
// geometry when metrics is nil.
func Snapshot(label string, technique plan.Technique, beams []plan.Beam, values taxonomy.Values, metrics []plan.BeamMetrics) plan.Snapshot {
	if metrics == nil {
		metrics = plan.DeriveBeamMetrics(beams)
	}
	return plan.Snapshot{
		PlanLabel: label,
		Technique: technique,
		Beams:     beams,
		Metrics: plan.PlanMetrics{
			PlanLabel: label,
			Technique: technique,
			Values:    values,
			Beams:     metrics,
		},
	}
}
