package cli

import (
	"fmt"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/compare"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/plan"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/output"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two plan snapshots",
		Long: `Compare loads two plan snapshots (YAML or JSON) and prints the metric deltas,
beam correspondence and structural changes. Paths and output format come
from the configuration file unless given as flags.`,
		Args: cobra.NoArgs,
		RunE: runCompare,
	}

	cmd.Flags().String("plan-a", "", "path to the baseline plan snapshot")
	cmd.Flags().String("plan-b", "", "path to the alternative plan snapshot")
	cmd.Flags().String("output-format", "", "type of output override: pretty, csv, json")
	cmd.Flags().Bool("no-beams", false, "skip beam matching and per-beam deltas")
	return cmd
}

func runCompare(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	logger, err := InitializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI flags take precedence over config
	if f, _ := cmd.Flags().GetString("output-format"); f != "" {
		conf.Output.Format = f
	}
	if p, _ := cmd.Flags().GetString("plan-a"); p != "" {
		conf.Comparison.PlanA = p
	}
	if p, _ := cmd.Flags().GetString("plan-b"); p != "" {
		conf.Comparison.PlanB = p
	}
	if noBeams, _ := cmd.Flags().GetBool("no-beams"); noBeams {
		conf.Comparison.IncludeBeams = false
	}

	if err := conf.Validate(); err != nil {
		return err
	}
	if err := conf.ValidateComparison(); err != nil {
		return err
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "cli.compare"),
		)
	}

	snapA, err := loadSnapshot(logger, conf.Comparison.PlanA)
	if err != nil {
		return err
	}
	snapB, err := loadSnapshot(logger, conf.Comparison.PlanB)
	if err != nil {
		return err
	}

	result := compare.Plans(logger, snapA, snapB, compare.Options{IncludeBeams: conf.Comparison.IncludeBeams})

	logger.Info("plans compared",
		zap.String("op", "cli.compare"),
		zap.String("planA", result.PlanA),
		zap.String("planB", result.PlanB),
		zap.Int("metrics", result.Summary.Total),
		zap.Int("major", result.Summary.Major),
	)

	return output.Write(cmd.OutOrStdout(), conf.Output.Format, result)
}

func loadSnapshot(logger *zap.Logger, path string) (plan.Snapshot, error) {
	snap, warnings, err := plan.LoadSnapshot(path)
	if err != nil {
		return plan.Snapshot{}, err
	}

	sv := validation.SnapshotValidator{Snapshot: snap}
	warnings = append(warnings, sv.ValidateAll()...)
	for _, warning := range warnings {
		logger.Warn("Snapshot warning: "+warning,
			zap.String("op", "cli.loadSnapshot"),
			zap.String("path", path),
		)
	}
	return snap, nil
}
