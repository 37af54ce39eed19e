// Command mpirt-interop joins a multi-language MPI job through a library
// resolved at run time: every rank synchronizes on MPI_COMM_WORLD, the root
// broadcasts a value and every rank checks it received that value.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "mpirt-interop",
	Short:        "Barrier and broadcast over the MPI library in MPI_RT_LIB",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := cmd.Flags().GetInt("value")
		if err != nil {
			return err
		}
		root, err := cmd.Flags().GetInt("root")
		if err != nil {
			return err
		}
		return run(cmd.OutOrStdout(), bindWorld(), value, root)
	},
}

func init() {
	rootCmd.Flags().Int("value", 42, "value the root broadcasts")
	rootCmd.Flags().Int("root", 0, "broadcasting rank")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
