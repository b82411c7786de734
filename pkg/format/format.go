// Package format renders metric values for human-readable output.
package format

import (
	"fmt"

	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Missing is shown in place of an undefined metric value.
const Missing = "-"

var printer = message.NewPrinter(language.English)

// Number returns v with thousands separators and the given decimals
// (e.g., "15,230.000").
func Number(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// Value formats an optional metric value with the display precision, or
// Missing when undefined.
func Value(v *float64) string {
	if v == nil {
		return Missing
	}
	return Number(*v, constants.DisplayDecimals)
}

// Signed formats v with an explicit sign (e.g., "+195.000").
func Signed(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%+.%df", decimals), v)
}

// Percent formats a percent difference with an explicit sign (e.g., "+47.6%").
func Percent(pct float64) string {
	return Signed(pct, constants.PercentDecimals) + "%"
}

// WithUnit appends a unit to a formatted value when the unit is known.
func WithUnit(value, unit string) string {
	if unit == "" || value == Missing {
		return value
	}
	return value + " " + unit
}
