// Package cli wires the plancompare commands.
package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/config"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the plancompare command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "plancompare",
		Short: "Compare the complexity metrics of two radiotherapy plans",
		Long: `plancompare compares two treatment plan snapshots produced by a DICOM parser
and complexity metrics engine. Beams are paired by name, gantry range, MU or
position; every catalog metric gets an absolute and relative change with a
direction, a significance tier and a display tone.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "path to configuration file, - for stdin (default: ./"+constants.DefaultConfigFile+" if present)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newCompareCommand(),
		newServeCommand(version),
		newMetricsCommand(),
		newVersionCommand(version),
	)
	return root
}

// loadConfiguration reads the file named by --config, or stdin for "-".
// Without the flag the default file is used when present, built-in defaults
// otherwise.
func loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	switch path {
	case "":
	case constants.StdinConfigPath:
		return config.LoadConfigurationFromReader(cmd.InOrStdin())
	default:
		return config.LoadConfiguration(path)
	}

	if _, err := os.Stat(constants.DefaultConfigFile); err == nil {
		return config.LoadConfiguration(constants.DefaultConfigFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return config.Defaults()
}
