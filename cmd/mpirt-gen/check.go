package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mpirt/internal/diag"
	"mpirt/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [definitions.toml]",
	Short: "Lint a definitions file without writing anything",
	Long: `Check loads the definitions, reports every unmapped type at once and, when
all types map, the warnings generation would produce. It exits non-zero when
any error is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	addSettingsFlags(checkCmd)
	checkCmd.Flags().String("format", "short", "output format (short|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

type checkPayload struct {
	Source      string           `json:"source"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

type diagnosticJSON struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Source   string   `json:"source,omitempty"`
	Symbol   string   `json:"symbol,omitempty"`
	Message  string   `json:"message"`
	Notes    []string `json:"notes,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		s.definitions = args[0]
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "short" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be short or json)", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return err
	}
	strict, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	bag, err := pipeline.Check(cmd.Context(), s.definitions, s.tags, s.options, maxDiagnostics)
	if err != nil {
		dumpTrace(cmd, cmd.ErrOrStderr())
		return err
	}

	errs, warns := countSeverities(bag)
	source := s.definitions
	if source == "" {
		source = "embedded"
	}
	out := cmd.OutOrStdout()
	if format == "json" {
		if err := renderCheckJSON(out, source, bag, errs, warns); err != nil {
			return err
		}
	} else if bag.Len() > 0 {
		fmt.Fprintln(out, diag.FormatGolden(bag.Items(), withNotes))
	}
	if format == "short" && !quiet(cmd) {
		summary := fmt.Sprintf("%s: %d errors, %d warnings", source, errs, warns)
		switch {
		case errs > 0:
			fmt.Fprintln(out, color.RedString("%s", summary))
		case warns > 0:
			fmt.Fprintln(out, color.YellowString("%s", summary))
		default:
			fmt.Fprintln(out, color.GreenString("%s", summary))
		}
	}

	if errs > 0 || (strict && warns > 0) {
		return fmt.Errorf("check failed: %d errors, %d warnings", errs, warns)
	}
	return nil
}

func countSeverities(bag *diag.Bag) (errs, warns int) {
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}

func renderCheckJSON(out io.Writer, source string, bag *diag.Bag, errs, warns int) error {
	payload := checkPayload{Source: source, Errors: errs, Warnings: warns, Diagnostics: []diagnosticJSON{}}
	for _, d := range bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, diagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Source:   d.Source,
			Symbol:   d.Symbol,
			Message:  d.Message,
			Notes:    d.Notes,
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
