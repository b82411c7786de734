// Package constants provides shared constants for the plancompare application.
package constants

import "time"

// Beam matching constants
const (
	// GantryToleranceDegrees is the exclusive bound on start and end angle
	// differences for a gantry-range match.
	GantryToleranceDegrees = 5.0

	// MURelativeTolerance is the exclusive bound on relative MU difference
	// for an MU-similarity match.
	MURelativeTolerance = 0.2

	// ConfidenceExact is assigned to case-insensitive name matches.
	ConfidenceExact = 1.0

	// ConfidenceGantryBase is reduced by the summed angle differences / 100.
	ConfidenceGantryBase = 0.9

	// ConfidenceMUBase is reduced by the relative MU difference.
	ConfidenceMUBase = 0.7

	// ConfidenceIndex is assigned to positional fallback pairs.
	ConfidenceIndex = 0.3
)

// Metric delta constants
const (
	// DirectionTolerance is the absolute difference below which a metric is
	// reported as unchanged.
	DirectionTolerance = 0.001

	// SignificanceModeratePercent is the lower (inclusive) bound of the
	// moderate tier on |percentDiff|.
	SignificanceModeratePercent = 1.0

	// SignificanceMajorPercent is the lower (inclusive) bound of the major
	// tier on |percentDiff|.
	SignificanceMajorPercent = 10.0

	// ZeroBaselinePercent is reported when the baseline is zero and the
	// alternative is not.
	ZeroBaselinePercent = 100.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Logging defaults shared by the CLI and server configuration
const (
	// DefaultLogLevel is used when neither config nor flags set a level
	DefaultLogLevel = "info"

	// LogFormatConsole is the human-readable zap encoder
	LogFormatConsole = "console"

	// LogFormatJSON is the structured zap encoder
	LogFormatJSON = "json"

	// DefaultLogFormat is used when no logging format is configured
	DefaultLogFormat = LogFormatConsole
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "plancompare.yaml"

	// StdinConfigPath makes --config read the configuration from stdin
	StdinConfigPath = "-"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of config keys.
	EnvPrefix = "PLANCOMPARE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for plan snapshots (4 MB)
	DefaultMaxUploadSizeBytes int64 = 4 * 1024 * 1024

	// DefaultShutdownTimeout bounds graceful shutdown of the HTTP server
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultReadHeaderTimeout bounds reading request headers
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Display constants
const (
	// DisplayDecimals is the number of decimals used for metric values in
	// human-readable output.
	DisplayDecimals = 3

	// PercentDecimals is the number of decimals used for percentages.
	PercentDecimals = 1

	// CSVDecimals bounds the precision of values written to CSV
	CSVDecimals = 6
)
