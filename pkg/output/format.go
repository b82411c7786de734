// Package output provides utilities for formatting and displaying plan
// comparison results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/compare"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/delta"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/format"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/mathutil"
)

// MetricColumns is the header of the metric section of CSV output.
var MetricColumns = []string{
	"metric", "label", "category", "unit", "planA", "planB",
	"absoluteDiff", "percentDiff", "direction", "significance", "tone",
}

// BeamColumns is the header of the optional beam section of CSV output.
var BeamColumns = []string{
	"beamA", "beamB", "matchType", "confidence",
	"muA", "muB", "muDiff", "muDiffPercent", "muSignificance",
	"mcsA", "mcsB", "mcsDiff", "mcsDiffPercent",
	"controlPointsA", "controlPointsB", "arcLengthA", "arcLengthB",
}

// Write renders r to w in the named format.
func Write(w io.Writer, outputFormat string, r compare.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, r)
	case constants.OutputFormatCSV:
		return CsvFormat(w, r)
	case constants.OutputFormatJSON:
		return JSONFormat(w, r)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

func toneMarker(t delta.Tone) string {
	switch t {
	case delta.TonePositive:
		return "[+]"
	case delta.ToneNegative:
		return "[-]"
	case delta.ToneCaution:
		return "[~]"
	default:
		return "[ ]"
	}
}

func signedInt(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, r compare.Result) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "--- Plan comparison: %s vs %s ---\n", r.PlanA, r.PlanB)
	s := r.Structural
	technique := string(s.TechniqueA)
	if !s.TechniqueSame {
		technique = fmt.Sprintf("%s -> %s", s.TechniqueA, s.TechniqueB)
	}
	fmt.Fprintf(&buf, "Beams %s | Control points %s | Technique %s\n",
		signedInt(s.BeamCountDiff), signedInt(s.TotalCPDiff), technique)

	if r.Beams != nil {
		source := "metric records"
		if r.GeometryMatched {
			source = "geometry"
		}
		fmt.Fprintf(&buf, "\nBeam matching (%s)\n", source)
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Beam A\tBeam B\tMatch\tConfidence\tMU A\tMU B\tMU %\tMCS %\t")
		for _, d := range r.BeamDiffs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%s\t%s\t%s\t\n",
				d.BeamNameA, d.BeamNameB, d.MatchType.Describe(), d.Confidence,
				format.Number(d.MUA, 1), format.Number(d.MUB, 1),
				format.Percent(d.MUDiffPercent), format.Percent(d.MCSDiffPercent))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if len(r.Beams.UnmatchedA) > 0 {
			fmt.Fprintf(&buf, "Only in %s: %s\n", r.PlanA, joinInts(r.Beams.UnmatchedA))
		}
		if len(r.Beams.UnmatchedB) > 0 {
			fmt.Fprintf(&buf, "Only in %s: %s\n", r.PlanB, joinInts(r.Beams.UnmatchedB))
		}
	}

	groups := compare.GroupByCategory(r.Metrics)
	for _, category := range r.Categories {
		fmt.Fprintf(&buf, "\n== %s ==\n", category)
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "\tMetric\tPlan A\tPlan B\tDifference\tChange\t")
		for _, d := range groups[category] {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				toneMarker(delta.Classify(d)), d.Label,
				format.WithUnit(format.Value(d.PlanA), d.Unit),
				format.WithUnit(format.Value(d.PlanB), d.Unit),
				format.Signed(d.AbsoluteDiff, constants.DisplayDecimals),
				format.Percent(d.PercentDiff))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	sum := r.Summary
	fmt.Fprintf(&buf, "\nSummary: %d metrics, %d improved, %d regressed, %d caution, %d unchanged\n",
		sum.Total, sum.Improved, sum.Regressed, sum.Caution, sum.Unchanged)
	if sum.LargestChange != "" {
		fmt.Fprintf(&buf, "Largest change: %s (%s), median |change| %s\n",
			sum.LargestChange, format.Percent(sum.MaxAbsPercentDiff),
			format.Number(sum.MedianAbsPercentDiff, constants.PercentDecimals)+"%")
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func csvFloat(v float64) string {
	rounded := mathutil.Round(v, constants.CSVDecimals)
	if rounded == 0 {
		// avoid "-0"
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func csvOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return csvFloat(*v)
}

// CsvFormat outputs in comma-separated value format: one row per metric
// diff, then a blank line and a beam section when beams were compared.
func CsvFormat(w io.Writer, r compare.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MetricColumns); err != nil {
		return err
	}
	for _, d := range r.Metrics {
		record := []string{
			string(d.Metric), d.Label, string(d.Category), d.Unit,
			csvOptional(d.PlanA), csvOptional(d.PlanB),
			csvFloat(d.AbsoluteDiff), csvFloat(d.PercentDiff),
			string(d.Direction), string(d.Significance), string(delta.Classify(d)),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	if len(r.BeamDiffs) > 0 {
		if err := cw.Write(nil); err != nil {
			return err
		}
		if err := cw.Write(BeamColumns); err != nil {
			return err
		}
		for _, d := range r.BeamDiffs {
			record := []string{
				d.BeamNameA, d.BeamNameB, string(d.MatchType), csvFloat(d.Confidence),
				csvFloat(d.MUA), csvFloat(d.MUB), csvFloat(d.MUDiff), csvFloat(d.MUDiffPercent),
				string(d.MUSignificance),
				csvFloat(d.MCSA), csvFloat(d.MCSB), csvFloat(d.MCSDiff), csvFloat(d.MCSDiffPercent),
				strconv.Itoa(d.ControlPointsA), strconv.Itoa(d.ControlPointsB),
				csvFloat(d.ArcLengthA), csvFloat(d.ArcLengthB),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV rendering of r.
func CsvString(r compare.Result) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSONFormat outputs the full comparison as indented JSON.
func JSONFormat(w io.Writer, r compare.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
