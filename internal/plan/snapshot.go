package plan

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

// snapshotDocument mirrors the on-disk snapshot layout. JSON documents are
// valid YAML, so one decoder serves both.
type snapshotDocument struct {
	PlanLabel   string                 `yaml:"planLabel"`
	Technique   string                 `yaml:"technique"`
	Beams       []beamDocument         `yaml:"beams"`
	Metrics     map[string]interface{} `yaml:"metrics"`
	BeamMetrics []beamMetricsDocument  `yaml:"beamMetrics"`
}

type beamDocument struct {
	BeamNumber            int      `yaml:"beamNumber"`
	BeamName              string   `yaml:"beamName"`
	GantryAngleStart      float64  `yaml:"gantryAngleStart"`
	GantryAngleEnd        float64  `yaml:"gantryAngleEnd"`
	RotationDirection     string   `yaml:"rotationDirection"`
	BeamDose              *float64 `yaml:"beamDose"`
	NumberOfControlPoints int      `yaml:"numberOfControlPoints"`
}

type beamMetricsDocument struct {
	BeamNumber int                    `yaml:"beamNumber"`
	BeamName   string                 `yaml:"beamName"`
	Metrics    map[string]interface{} `yaml:"metrics"`
}

// LoadSnapshot reads a plan snapshot from a YAML or JSON file.
func LoadSnapshot(path string) (Snapshot, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("failed to open plan snapshot %s: %w", path, err)
	}
	defer f.Close()

	snap, warnings, err := DecodeSnapshot(f)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("failed to decode plan snapshot %s: %w", path, err)
	}
	return snap, warnings, nil
}

// ParseSnapshot decodes a snapshot held in memory.
func ParseSnapshot(data []byte) (Snapshot, []string, error) {
	return DecodeSnapshot(bytes.NewReader(data))
}

// DecodeSnapshot decodes a snapshot document. Metric keys outside the
// taxonomy and non-numeric values are dropped and reported as warnings.
// When the document carries beams but no beamMetrics, a minimal breakdown
// (beamMU, numberOfControlPoints) is derived from the geometry.
func DecodeSnapshot(r io.Reader) (Snapshot, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("error reading snapshot: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, nil, fmt.Errorf("empty snapshot document")
	}

	var doc snapshotDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, nil, fmt.Errorf("unable to decode snapshot: %w", err)
	}

	var warnings []string
	snap := Snapshot{
		PlanLabel: strings.TrimSpace(doc.PlanLabel),
		Technique: ParseTechnique(doc.Technique),
	}

	snap.Beams = make([]Beam, 0, len(doc.Beams))
	for i, bd := range doc.Beams {
		dir, ok := ParseRotationDirection(bd.RotationDirection)
		if !ok && bd.RotationDirection != "" {
			warnings = append(warnings, fmt.Sprintf("beam %d (%s): unrecognized rotation direction %q",
				i, bd.BeamName, bd.RotationDirection))
		}
		snap.Beams = append(snap.Beams, Beam{
			BeamNumber:            bd.BeamNumber,
			Name:                  bd.BeamName,
			GantryAngleStart:      bd.GantryAngleStart,
			GantryAngleEnd:        bd.GantryAngleEnd,
			Direction:             dir,
			Dose:                  bd.BeamDose,
			NumberOfControlPoints: bd.NumberOfControlPoints,
		})
	}

	values, ignored := taxonomy.ParseValues(doc.Metrics)
	for _, key := range ignored {
		warnings = append(warnings, fmt.Sprintf("plan metrics: ignored metric %q", key))
	}

	snap.Metrics = PlanMetrics{
		PlanLabel: snap.PlanLabel,
		Technique: snap.Technique,
		Values:    values,
	}

	if len(doc.BeamMetrics) > 0 {
		snap.Metrics.Beams = make([]BeamMetrics, 0, len(doc.BeamMetrics))
		for i, bm := range doc.BeamMetrics {
			beamValues, beamIgnored := taxonomy.ParseValues(bm.Metrics)
			for _, key := range beamIgnored {
				warnings = append(warnings, fmt.Sprintf("beam metrics %d (%s): ignored metric %q", i, bm.BeamName, key))
			}
			snap.Metrics.Beams = append(snap.Metrics.Beams, BeamMetrics{
				BeamNumber: bm.BeamNumber,
				BeamName:   bm.BeamName,
				Values:     beamValues,
			})
		}
	} else if len(snap.Beams) > 0 {
		snap.Metrics.Beams = DeriveBeamMetrics(snap.Beams)
	}

	return snap, warnings, nil
}

// DeriveBeamMetrics builds a beam breakdown from geometry alone.
func DeriveBeamMetrics(beams []Beam) []BeamMetrics {
	out := make([]BeamMetrics, 0, len(beams))
	for _, b := range beams {
		values := taxonomy.Values{
			taxonomy.NumberOfControlPoints: float64(b.NumberOfControlPoints),
		}
		if b.Dose != nil {
			values[taxonomy.BeamMU] = *b.Dose
		}
		out = append(out, BeamMetrics{
			BeamNumber: b.BeamNumber,
			BeamName:   b.Name,
			Values:     values,
		})
	}
	return out
}
