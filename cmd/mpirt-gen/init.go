package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mpirt/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create an mpirt.toml manifest",
	Long: `Init writes a default mpirt.toml into dir (the working directory when
omitted), creating the directory if needed. An existing manifest is never
overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("package", "mpi", "generated package name, also the output directory")
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err == nil && !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}
	pkg, err := cmd.Flags().GetString("package")
	if err != nil {
		return err
	}
	manifestPath, err := project.WriteDefault(target, pkg)
	if err != nil {
		return err
	}
	if !quiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized mpirt-gen project in %s\n", displayPath(target))
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", filepath.Base(manifestPath))
	}
	return nil
}
