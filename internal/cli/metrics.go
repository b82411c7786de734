package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"github.com/spf13/cobra"
)

func newMetricsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics [key...]",
		Short: "List the comparable metrics",
		Long: `Metrics lists the plan catalog, or the per-beam catalog with --beam.
Given keys, only those definitions are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			beam, _ := cmd.Flags().GetBool("beam")
			asJSON, _ := cmd.Flags().GetBool("json")

			defs := taxonomy.Definitions()
			if beam {
				defs = taxonomy.BeamDefinitions()
			}
			if len(args) > 0 {
				selected, err := lookupDefinitions(args)
				if err != nil {
					return err
				}
				defs = selected
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tCATEGORY\tUNIT\tPREFERRED")
			for _, d := range defs {
				preferred := "higher"
				if d.LowerIsBetter {
					preferred = "lower"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Key, d.Label, d.Category, d.Unit, preferred)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Bool("beam", false, "list the per-beam catalog instead of the plan catalog")
	cmd.Flags().Bool("json", false, "output the catalog as JSON")
	return cmd
}

func lookupDefinitions(keys []string) ([]taxonomy.Definition, error) {
	defs := make([]taxonomy.Definition, 0, len(keys))
	for _, k := range keys {
		d, ok := taxonomy.Lookup(taxonomy.Key(k))
		if !ok {
			known := make([]string, 0)
			for _, key := range taxonomy.Keys() {
				known = append(known, string(key))
			}
			return nil, fmt.Errorf("unknown metric %q, expected one of: %s", k, strings.Join(known, ", "))
		}
		defs = append(defs, d)
	}
	return defs, nil
}
