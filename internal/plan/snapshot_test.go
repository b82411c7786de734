package plan

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSnapshotYAML(t *testing.T) {
	snap, warnings, err := LoadSnapshot(filepath.Join("..", "..", "test", "plan_a.yaml"))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Prostate VMAT v1", snap.PlanLabel)
	assert.Equal(t, TechniqueVMAT, snap.Technique)
	require.Len(t, snap.Beams, 2)

	arc1 := snap.Beams[0]
	assert.Equal(t, "Arc1", arc1.Name)
	assert.Equal(t, DirectionCW, arc1.Direction)
	assert.Equal(t, 179.0, arc1.GantryAngleEnd)
	assert.Equal(t, 200.0, arc1.MU())
	assert.Equal(t, 90, arc1.NumberOfControlPoints)

	mu, ok := snap.Metrics.Values.Get(taxonomy.TotalMU)
	assert.True(t, ok)
	assert.Equal(t, 410.0, mu)

	require.Len(t, snap.Metrics.Beams, 2)
	assert.Equal(t, 0.33, snap.Metrics.Beams[1].Values[taxonomy.MCS])
	assert.Equal(t, 180.0, snap.Metrics.TotalControlPoints())
}

func TestLoadSnapshotJSON(t *testing.T) {
	snap, warnings, err := LoadSnapshot(filepath.Join("..", "..", "test", "plan_b.json"))
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "patientName")

	require.Len(t, snap.Beams, 2)
	assert.Equal(t, "Arc2_mod", snap.Beams[1].Name)
	assert.Equal(t, DirectionCCW, snap.Beams[1].Direction)
	assert.Equal(t, 400.0, snap.Beams[1].MU())

	_, ok := snap.Metrics.Values.Get("patientName")
	assert.False(t, ok)
	assert.Equal(t, 210.0, snap.Metrics.TotalControlPoints())
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open plan snapshot")
}

func TestDecodeSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "   \n"},
		{"malformed", "beams: [unterminated"},
		{"wrong shape", "beams: 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeSnapshot(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeSnapshotDerivesBeamMetrics(t *testing.T) {
	doc := `
planLabel: geometry only
beams:
  - beamName: F1
    gantryAngleStart: 90
    gantryAngleEnd: 90
    rotationDirection: none
    beamDose: 120
    numberOfControlPoints: 12
  - beamName: F2
    gantryAngleStart: 270
    gantryAngleEnd: 270
    rotationDirection: sideways
    numberOfControlPoints: 10
`
	snap, warnings, err := ParseSnapshot([]byte(doc))
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "sideways")

	assert.Equal(t, TechniqueUnknown, snap.Technique)
	assert.Equal(t, DirectionNone, snap.Beams[0].Direction)
	assert.Equal(t, RotationDirection(""), snap.Beams[1].Direction)
	assert.Nil(t, snap.Beams[1].Dose)
	assert.Equal(t, 0.0, snap.Beams[1].MU())

	require.Len(t, snap.Metrics.Beams, 2)
	assert.Equal(t, taxonomy.Values{
		taxonomy.NumberOfControlPoints: 12,
		taxonomy.BeamMU:                120,
	}, snap.Metrics.Beams[0].Values)
	_, hasMU := snap.Metrics.Beams[1].Values.Get(taxonomy.BeamMU)
	assert.False(t, hasMU)
	assert.Equal(t, 22.0, snap.Metrics.TotalControlPoints())
}

func TestParseRotationDirection(t *testing.T) {
	tests := []struct {
		in   string
		want RotationDirection
		ok   bool
	}{
		{"CW", DirectionCW, true},
		{" ccw ", DirectionCCW, true},
		{"None", DirectionNone, true},
		{"", "", false},
		{"CLOCKWISE", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRotationDirection(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
	}
}

func TestParseTechnique(t *testing.T) {
	assert.Equal(t, TechniqueVMAT, ParseTechnique("vmat"))
	assert.Equal(t, TechniqueIMRT, ParseTechnique("IMRT"))
	assert.Equal(t, TechniqueConformal, ParseTechnique("Conformal"))
	assert.Equal(t, TechniqueUnknown, ParseTechnique(""))
	assert.Equal(t, TechniqueUnknown, ParseTechnique("proton"))
}
