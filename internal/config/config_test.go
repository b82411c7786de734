package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config file",
			configPath: "../../test/compare-config.yaml",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	config, err := LoadConfiguration("../../test/compare-config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "info" {
		t.Errorf("Expected logging level info, got %s", config.Logging.Level)
	}
	if config.Output.Format != "pretty" {
		t.Errorf("Expected output format pretty, got %s", config.Output.Format)
	}
	if !config.Comparison.IncludeBeams {
		t.Errorf("Expected includeBeams to be true")
	}

	wantA := filepath.Join("..", "..", "test", "plan_a.yaml")
	if config.Comparison.PlanA != wantA {
		t.Errorf("Expected planA %s, got %s", wantA, config.Comparison.PlanA)
	}
	wantB := filepath.Join("..", "..", "test", "plan_b.json")
	if config.Comparison.PlanB != wantB {
		t.Errorf("Expected planB %s, got %s", wantB, config.Comparison.PlanB)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("PLANCOMPARE_OUTPUT_FORMAT", "json")
	t.Setenv("PLANCOMPARE_LOGGING_LEVEL", "debug")

	config, err := LoadConfiguration("../../test/compare-config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Output.Format != "json" {
		t.Errorf("Expected env override json, got %s", config.Output.Format)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected env override debug, got %s", config.Logging.Level)
	}
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	yaml := `
comparison:
  planA: /plans/a.yaml
`
	config, err := LoadConfigurationFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Output.Format != "pretty" {
		t.Errorf("Expected default output format pretty, got %s", config.Output.Format)
	}
	if config.Logging.Level != "info" || config.Logging.Format != "console" {
		t.Errorf("Unexpected default logging config %+v", config.Logging)
	}
	if !config.Comparison.IncludeBeams {
		t.Errorf("Expected includeBeams to default to true")
	}
	if config.Comparison.PlanA != "/plans/a.yaml" {
		t.Errorf("Expected planA to be kept as written, got %s", config.Comparison.PlanA)
	}

	if err := config.ValidateComparison(); err == nil || !strings.Contains(err.Error(), "both plans are required") {
		t.Errorf("ValidateComparison() error = %v, want missing plan error", err)
	}
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Unexpected warnings %v", warnings)
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("logging: [unclosed")); err == nil {
		t.Errorf("Expected error for malformed YAML")
	}
}

func TestDefaults(t *testing.T) {
	config, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}
	if config.Output.Format != "pretty" || !config.Comparison.IncludeBeams {
		t.Errorf("Unexpected defaults %+v", config)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Configuration
		wantError bool
	}{
		{
			name:   "Valid",
			config: Configuration{Output: OutputConfig{Format: "csv"}, Logging: LoggingConfig{Level: "WARN", Format: "json"}},
		},
		{
			name:      "Bad output format",
			config:    Configuration{Output: OutputConfig{Format: "xml"}},
			wantError: true,
		},
		{
			name:      "Bad logging level",
			config:    Configuration{Output: OutputConfig{Format: "json"}, Logging: LoggingConfig{Level: "trace"}},
			wantError: true,
		},
		{
			name:      "Bad logging format",
			config:    Configuration{Output: OutputConfig{Format: "json"}, Logging: LoggingConfig{Format: "xml"}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Errorf("Validate() expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateConfigurationSamePlan(t *testing.T) {
	config := Configuration{Comparison: ComparisonConfig{PlanA: "a.yaml", PlanB: "a.yaml"}}
	warnings := config.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "both point to a.yaml") {
		t.Errorf("Unexpected warnings %v", warnings)
	}
}

func TestLoggingConfigResolve(t *testing.T) {
	tests := []struct {
		name     string
		cfg      LoggingConfig
		override string
		want     LoggingConfig
		wantErr  string
	}{
		{
			name: "defaults",
			want: LoggingConfig{Level: constants.DefaultLogLevel, Format: constants.DefaultLogFormat},
		},
		{
			name:     "override and alias",
			cfg:      LoggingConfig{Level: "error", Format: "json", OutputFile: "x.log"},
			override: "WARNING",
			want:     LoggingConfig{Level: "warn", Format: "json", OutputFile: "x.log"},
		},
		{name: "bad level", cfg: LoggingConfig{Level: "trace"}, wantErr: "invalid log level: trace"},
		{name: "bad format", cfg: LoggingConfig{Format: "xml"}, wantErr: "invalid log format: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Resolve(tt.override)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Resolve() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultsMatchLoggingResolve(t *testing.T) {
	config, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}
	resolved, err := LoggingConfig{}.Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if config.Logging.Format != resolved.Format || config.Logging.Level != resolved.Level {
		t.Errorf("viper defaults %+v differ from resolved defaults %+v", config.Logging, resolved)
	}
}
