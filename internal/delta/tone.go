package delta

// Tone is the display classification of a MetricDiff.
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneCaution  Tone = "caution"
)

// IsImprovement reports whether the change moves the metric in its
// preferred direction. Unchanged metrics are never improvements.
func IsImprovement(d MetricDiff) bool {
	if d.LowerIsBetter {
		return d.Direction == DirectionDecrease
	}
	return d.Direction == DirectionIncrease
}

// Classify maps a diff to its tone. Minor changes are neutral and moderate
// changes always caution; only major changes take the polarity into account.
func Classify(d MetricDiff) Tone {
	switch d.Significance {
	case SignificanceMajor:
		if IsImprovement(d) {
			return TonePositive
		}
		return ToneNegative
	case SignificanceModerate:
		return ToneCaution
	default:
		return ToneNeutral
	}
}
