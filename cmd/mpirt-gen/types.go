package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"mpirt/internal/defs"
	"mpirt/internal/typemap"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Print the C to Go type mapping tables",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	typesCmd.Flags().String("table", "all", "table to print (primary|constants|callbacks|all)")
}

func runTypes(cmd *cobra.Command, args []string) error {
	table, err := cmd.Flags().GetString("table")
	if err != nil {
		return err
	}
	tables := typemap.Tables()
	out := cmd.OutOrStdout()
	switch strings.ToLower(table) {
	case "primary":
		printTypeTable(out, "primary", tables.Primary)
	case "constants":
		printTypeTable(out, "constants", tables.Constants)
	case "callbacks":
		printCallbacks(out, tables.Callbacks)
	case "all":
		printTypeTable(out, "primary", tables.Primary)
		fmt.Fprintln(out)
		printTypeTable(out, "constants", tables.Constants)
		fmt.Fprintln(out)
		printCallbacks(out, tables.Callbacks)
	default:
		return fmt.Errorf("unknown table %q (expected primary|constants|callbacks|all)", table)
	}
	return nil
}

func printTypeTable(out io.Writer, title string, m map[defs.TypeRef]typemap.GoType) {
	keys := slices.Sorted(maps.Keys(m))
	width := 0
	for _, k := range keys {
		width = max(width, runewidth.StringWidth(string(k)))
	}
	fmt.Fprintf(out, "%s (%d)\n", color.New(color.Bold).Sprint(title), len(keys))
	for _, k := range keys {
		fmt.Fprintf(out, "  %s  %s\n", runewidth.FillRight(string(k), width), m[k])
	}
}

func printCallbacks(out io.Writer, cbs []typemap.Callback) {
	fmt.Fprintf(out, "%s (%d)\n", color.New(color.Bold).Sprint("callbacks"), len(cbs))
	for _, cb := range cbs {
		params := make([]string, 0, len(cb.Params))
		for _, p := range cb.Params {
			params = append(params, string(p.Type)+" "+p.Name)
		}
		fmt.Fprintf(out, "  %s %s(%s)\n", cb.Return, cb.Name, strings.Join(params, ", "))
	}
}
