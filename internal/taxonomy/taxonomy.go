// Package taxonomy defines the ordered catalog of comparable plan metrics and
// the validated key space used to store metric values.
package taxonomy

import (
	"encoding/json"
	"math"
	"sort"
)

// Key names a scalar metric produced by the external metrics engine.
type Key string

// Category groups metrics for display.
type Category string

const (
	CategoryPlan           Category = "Plan"
	CategoryComplexity     Category = "Complexity"
	CategoryAccuracy       Category = "Accuracy"
	CategoryDeliverability Category = "Deliverability"
	CategoryAperture       Category = "Aperture"
)

// Plan-level keys.
const (
	TotalMU           Key = "totalMU"
	TotalDeliveryTime Key = "totalDeliveryTime"
	PrescribedDose    Key = "prescribedDose"
	DosePerFraction   Key = "dosePerFraction"
	NumberOfFractions Key = "numberOfFractions"
	MUPerGy           Key = "MUperGy"
)

// Complexity keys shared between plan and beam level.
const (
	MCS    Key = "MCS"
	LSV    Key = "LSV"
	AAV    Key = "AAV"
	MFA    Key = "MFA"
	LT     Key = "LT"
	LTMCS  Key = "LTMCS"
	LG     Key = "LG"
	MAD    Key = "MAD"
	EFS    Key = "EFS"
	PSmall Key = "psmall"
	MUCA   Key = "MUCA"
	LTMU   Key = "LTMU"
	LTNLMU Key = "LTNLMU"
	LNA    Key = "LNA"
	LTAL   Key = "LTAL"
	MDRV   Key = "mDRV"
	GT     Key = "GT"
	GS     Key = "GS"
	MGSV   Key = "mGSV"
	LS     Key = "LS"
	PA     Key = "PA"
	JA     Key = "JA"
	PM     Key = "PM"
	TG     Key = "TG"
	MD     Key = "MD"
	MI     Key = "MI"
	SAS5   Key = "SAS5"
	SAS10  Key = "SAS10"
	EM     Key = "EM"
	PI     Key = "PI"
	PAM    Key = "PAM"
)

// Beam-level keys.
const (
	BeamMU                Key = "beamMU"
	NumberOfControlPoints Key = "numberOfControlPoints"
	ArcLength             Key = "arcLength"
	AverageGantrySpeed    Key = "averageGantrySpeed"
	EstimatedDeliveryTime Key = "estimatedDeliveryTime"
	MUPerDegree           Key = "MUperDegree"
	AvgDoseRate           Key = "avgDoseRate"
	AvgMLCSpeed           Key = "avgMLCSpeed"
	CollimatorAngleStart  Key = "collimatorAngleStart"
	CollimatorAngleEnd    Key = "collimatorAngleEnd"
	NL                    Key = "NL"
	BAM                   Key = "BAM"
)

// Definition describes one comparable metric.
type Definition struct {
	Key           Key      `json:"key" yaml:"key"`
	Label         string   `json:"label" yaml:"label"`
	Category      Category `json:"category" yaml:"category"`
	Unit          string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	LowerIsBetter bool     `json:"lowerIsBetter" yaml:"lowerIsBetter"`
}

// planDefinitions is the plan comparison catalog. Order is display order.
var planDefinitions = []Definition{
	{TotalMU, "Total MU", CategoryPlan, "MU", true},
	{TotalDeliveryTime, "Estimated Delivery Time", CategoryPlan, "s", true},
	{PrescribedDose, "Prescribed Dose", CategoryPlan, "Gy", false},
	{DosePerFraction, "Dose per Fraction", CategoryPlan, "Gy", false},
	{NumberOfFractions, "Number of Fractions", CategoryPlan, "", false},
	{MUPerGy, "MU per Gy", CategoryPlan, "MU/Gy", true},

	{MCS, "Modulation Complexity Score", CategoryComplexity, "", false},
	{LSV, "Leaf Sequence Variability", CategoryComplexity, "", false},
	{AAV, "Aperture Area Variability", CategoryComplexity, "", true},
	{MFA, "Mean Field Area", CategoryComplexity, "cm²", false},
	{LT, "Leaf Travel", CategoryComplexity, "mm", true},
	{LTMCS, "Leaf Travel-weighted MCS", CategoryComplexity, "", false},

	{LG, "Leaf Gap", CategoryAccuracy, "mm", false},
	{MAD, "Mean Asymmetry Distance", CategoryAccuracy, "mm", true},
	{EFS, "Equivalent Field Size", CategoryAccuracy, "mm", false},
	{PSmall, "Small Field Fraction", CategoryAccuracy, "", true},

	{MUCA, "MU per Control Arc", CategoryDeliverability, "MU/CA", true},
	{LTMU, "Leaf Travel per MU", CategoryDeliverability, "mm/MU", true},
	{LTNLMU, "Leaf Travel per Leaf and MU", CategoryDeliverability, "mm/(leaf·MU)", true},
	{LNA, "Leaf Travel per Leaf and CA", CategoryDeliverability, "mm/(leaf·CA)", true},
	{LTAL, "Leaf Travel per Arc Length", CategoryDeliverability, "mm/°", true},
	{MDRV, "Mean Dose Rate Variation", CategoryDeliverability, "MU/min", true},
	{GT, "Gantry Travel", CategoryDeliverability, "°", false},
	{GS, "Gantry Speed", CategoryDeliverability, "°/s", false},
	{MGSV, "Mean Gantry Speed Variation", CategoryDeliverability, "°/s", true},
	{LS, "Leaf Speed", CategoryDeliverability, "mm/s", true},

	{PA, "Plan Area", CategoryAperture, "cm²", false},
	{JA, "Jaw Area", CategoryAperture, "cm²", false},
	{PM, "Plan Modulation", CategoryAperture, "", true},
	{TG, "Tongue-and-Groove Index", CategoryAperture, "", true},
	{MD, "Modulation Degree", CategoryAperture, "", true},
	{MI, "Modulation Index", CategoryAperture, "mm/leaf/CP", true},
	{SAS5, "Small Aperture Score (5 mm)", CategoryAperture, "", true},
	{SAS10, "Small Aperture Score (10 mm)", CategoryAperture, "", true},
	{EM, "Edge Metric", CategoryAperture, "", true},
	{PI, "Plan Irregularity", CategoryAperture, "", true},
	{PAM, "Plan Aperture Modulation", CategoryAperture, "", true},
}

// beamDefinitions covers beam-only keys. Shared complexity keys are reused
// from the plan catalog.
var beamDefinitions = []Definition{
	{BeamMU, "Beam MU", CategoryPlan, "MU", true},
	{NumberOfControlPoints, "Control Points", CategoryPlan, "", false},
	{ArcLength, "Arc Length", CategoryDeliverability, "°", false},
	{AverageGantrySpeed, "Average Gantry Speed", CategoryDeliverability, "°/s", false},
	{EstimatedDeliveryTime, "Estimated Delivery Time", CategoryDeliverability, "s", true},
	{MUPerDegree, "MU per Degree", CategoryDeliverability, "MU/°", true},
	{AvgDoseRate, "Average Dose Rate", CategoryDeliverability, "MU/min", false},
	{AvgMLCSpeed, "Average MLC Speed", CategoryDeliverability, "mm/s", true},
	{CollimatorAngleStart, "Collimator Angle Start", CategoryPlan, "°", false},
	{CollimatorAngleEnd, "Collimator Angle End", CategoryPlan, "°", false},
	{NL, "Active Leaves", CategoryDeliverability, "", true},
	{BAM, "Beam Aperture Modulation", CategoryAperture, "", true},
}

var index = buildIndex()

func buildIndex() map[Key]Definition {
	idx := make(map[Key]Definition, len(planDefinitions)+len(beamDefinitions))
	for _, d := range beamDefinitions {
		idx[d.Key] = d
	}
	for _, d := range planDefinitions {
		idx[d.Key] = d
	}
	return idx
}

// Definitions returns the plan comparison catalog in display order. The
// returned slice is a copy.
func Definitions() []Definition {
	return append([]Definition(nil), planDefinitions...)
}

// BeamDefinitions returns the catalog used for per-beam comparisons: beam
// identity keys first, then the shared complexity keys.
func BeamDefinitions() []Definition {
	defs := make([]Definition, 0, len(beamDefinitions)+len(planDefinitions))
	defs = append(defs, beamDefinitions...)
	for _, d := range planDefinitions {
		if d.Category != CategoryPlan {
			defs = append(defs, d)
		}
	}
	return defs
}

// Lookup returns the definition for a key.
func Lookup(key Key) (Definition, bool) {
	d, ok := index[key]
	return d, ok
}

// IsKnown reports whether key belongs to the plan or beam key space.
func IsKnown(key Key) bool {
	_, ok := index[key]
	return ok
}

// Keys returns every known key sorted alphabetically.
func Keys() []Key {
	keys := make([]Key, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Values holds the numeric metrics of one plan or beam. Only known keys are
// stored; an absent key means the metric is undefined.
type Values map[Key]float64

// Get returns the value for key and whether it is defined.
func (v Values) Get(key Key) (float64, bool) {
	if v == nil {
		return 0, false
	}
	val, ok := v[key]
	return val, ok
}

// Ptr returns a pointer to a copy of the value, or nil when undefined.
func (v Values) Ptr(key Key) *float64 {
	val, ok := v.Get(key)
	if !ok {
		return nil
	}
	return &val
}

// Or returns the value for key, or fallback when undefined.
func (v Values) Or(key Key, fallback float64) float64 {
	if val, ok := v.Get(key); ok {
		return val
	}
	return fallback
}

// ParseValues converts a loosely typed metric record into Values. Unknown
// keys and values that are not finite numbers (strings included) are left out and their keys
// returned, sorted, so the caller can report them.
func ParseValues(raw map[string]interface{}) (Values, []string) {
	values := make(Values, len(raw))
	var ignored []string
	for name, rawVal := range raw {
		key := Key(name)
		if !IsKnown(key) {
			ignored = append(ignored, name)
			continue
		}
		if rawVal == nil {
			continue
		}
		f, ok := toFloat(rawVal)
		if !ok {
			ignored = append(ignored, name)
			continue
		}
		values[key] = f
	}
	sort.Strings(ignored)
	return values, ignored
}

func toFloat(raw interface{}) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
