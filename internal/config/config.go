// Package config defines the data structures related to configuration and
// includes functions for loading and checking the comparison config.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for plancompare.
type Configuration struct {
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Comparison ComparisonConfig `yaml:"comparison,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// ComparisonConfig names the two plan snapshots to compare.
type ComparisonConfig struct {
	PlanA        string `yaml:"planA,omitempty"`
	PlanB        string `yaml:"planB,omitempty"`
	IncludeBeams bool   `yaml:"includeBeams"`
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validLogFormats = map[string]bool{constants.LogFormatJSON: true, constants.LogFormatConsole: true}

// Resolve applies a level override and the logging defaults and checks the
// result. Levels are lowercased and "warning" is accepted for "warn".
func (l LoggingConfig) Resolve(levelOverride string) (LoggingConfig, error) {
	if levelOverride != "" {
		l.Level = levelOverride
	}
	if l.Level == "" {
		l.Level = constants.DefaultLogLevel
	}
	if l.Format == "" {
		l.Format = constants.DefaultLogFormat
	}

	l.Level = strings.ToLower(l.Level)
	if l.Level == "warning" {
		l.Level = "warn"
	}
	if !validLogLevels[l.Level] {
		return l, fmt.Errorf("invalid log level: %s", l.Level)
	}
	if !validLogFormats[l.Format] {
		return l, fmt.Errorf("invalid log format: %s", l.Format)
	}
	return l, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", constants.DefaultLogLevel)
	v.SetDefault("logging.format", constants.DefaultLogFormat)
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("comparison.planA", "")
	v.SetDefault("comparison.planB", "")
	v.SetDefault("comparison.includeBeams", true)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Relative plan paths are resolved against the
// directory of the configuration file. Any key can be overridden with a
// PLANCOMPARE_ environment variable, e.g. PLANCOMPARE_OUTPUT_FORMAT.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration, err := decode(v)
	if err != nil {
		return nil, err
	}
	configuration.ResolvePaths(filepath.Dir(configPath))
	return configuration, nil
}

// LoadConfigurationFromReader loads a YAML configuration from r. Plan paths
// are left as written.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

// Defaults returns the configuration used when no file is given.
func Defaults() (*Configuration, error) {
	return decode(newViper())
}

// ResolvePaths makes relative plan paths relative to baseDir.
func (c *Configuration) ResolvePaths(baseDir string) {
	c.Comparison.PlanA = resolve(baseDir, c.Comparison.PlanA)
	c.Comparison.PlanB = resolve(baseDir, c.Comparison.PlanB)
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Validate checks values that would make a run fail.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := c.Logging.Resolve(""); err != nil {
		return err
	}
	return nil
}

// ValidateComparison checks that both plans to compare are named.
func (c *Configuration) ValidateComparison() error {
	if c.Comparison.PlanA == "" || c.Comparison.PlanB == "" {
		return fmt.Errorf("both plans are required: set --plan-a and --plan-b or comparison.planA and comparison.planB")
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	if c.Comparison.PlanA != "" && c.Comparison.PlanA == c.Comparison.PlanB {
		warnings = append(warnings, fmt.Sprintf("comparison.planA and comparison.planB both point to %s", c.Comparison.PlanA))
	}
	return warnings
}
