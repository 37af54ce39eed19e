package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mpirt/internal/diag"
	"mpirt/internal/gen"
	"mpirt/internal/pipeline"
	"mpirt/internal/project"
	"mpirt/internal/version"
)

const noManifestMessage = "no mpirt.toml found\nplease pass --output or run `mpirt-gen init` first"

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write functions.go, constants.go and callbacks.go",
	Long: `Generate renders the function trampolines, the constant accessors and the
callback types into the output package. Settings come from mpirt.toml
(searched upwards from the working directory); flags override them.
Files are left untouched when the stamp shows they are current.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addSettingsFlags(generateCmd)
	generateCmd.Flags().StringP("output", "o", "", "output directory")
	generateCmd.Flags().Bool("force", false, "rewrite files even when they are up to date")
	generateCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	generateCmd.Flags().Int("jobs", 0, "max parallel file writes (0=auto)")
}

// addSettingsFlags registers the flags shared by generate and check.
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().String("definitions", "", "definitions file (default: embedded MPIABI set)")
	cmd.Flags().String("package", "", "generated package name")
	cmd.Flags().String("abi-import", "", "import path of the abi package")
	cmd.Flags().String("rt-import", "", "import path of the rt package")
	cmd.Flags().String("symbols", "", "function symbol namespace (raw|abi)")
	cmd.Flags().Bool("strict-constants", false, "fail on constants without a value mapping")
	cmd.Flags().StringSlice("tags", nil, "keep only functions with these tags")
}

// settings is the manifest merged with explicit flags.
type settings struct {
	manifest    *project.Manifest
	definitions string
	tags        []string
	output      string
	options     gen.Options
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, found, err := project.Load(wd)
	if err != nil {
		return nil, err
	}
	s := &settings{manifest: m}
	cfg := project.Config{}
	if found {
		cfg = m.Config
		s.definitions = m.DefinitionsPath()
		s.output = m.OutputDir()
		s.tags = cfg.Generate.Tags
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) error {
		if !flags.Changed(name) {
			return nil
		}
		v, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
		return nil
	}
	for name, dst := range map[string]*string{
		"package":    &cfg.Generate.Package,
		"abi-import": &cfg.Generate.ABIImport,
		"rt-import":  &cfg.Generate.RTImport,
		"symbols":    &cfg.Generate.FunctionSymbols,
	} {
		if err := str(name, dst); err != nil {
			return nil, err
		}
	}
	if err := str("definitions", &s.definitions); err != nil {
		return nil, err
	}
	if flags.Lookup("output") != nil {
		if err := str("output", &s.output); err != nil {
			return nil, err
		}
	}
	if flags.Changed("strict-constants") {
		if cfg.Generate.StrictConstants, err = flags.GetBool("strict-constants"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("tags") {
		if s.tags, err = flags.GetStringSlice("tags"); err != nil {
			return nil, err
		}
	}

	if s.options, err = cfg.Options(); err != nil {
		return nil, err
	}
	return s, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.output == "" {
		return errors.New(noManifestMessage)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	useTUI, err := wantProgressView(uiFlag, quiet(cmd), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	bag := diag.NewBag(maxDiagnostics)
	s.options.Reporter = &diag.BagReporter{Bag: bag}
	req := pipeline.Request{
		Definitions: s.definitions,
		Tags:        s.tags,
		OutputDir:   s.output,
		Options:     s.options,
		Tool:        version.Tool(),
		Force:       force,
		Jobs:        jobs,
	}

	var res pipeline.Result
	if useTUI {
		res, err = runGenerateWithUI(cmd.Context(), "mpirt-gen "+displayPath(s.output), req)
	} else {
		res, err = pipeline.Run(cmd.Context(), &req)
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	printDiagnostics(errOut, bag, quiet(cmd))
	if err != nil {
		dumpTrace(cmd, errOut)
		return err
	}
	if !quiet(cmd) {
		printGenerateSummary(out, res, s.output)
	}
	if showTimings {
		printTimings(out, res.Timings)
	}
	return nil
}

func printGenerateSummary(out io.Writer, res pipeline.Result, outputDir string) {
	dir := displayPath(outputDir)
	if res.UpToDate {
		fmt.Fprintf(out, "%s %s is up to date\n", color.GreenString("ok"), dir)
		return
	}
	st := res.Gen.Stats
	fmt.Fprintf(out, "%s %d files in %s (%s)\n", color.GreenString("wrote"), len(res.Written), dir, res.Reason)
	fmt.Fprintf(out, "  %d functions, %d constants, %d skipped, %d callbacks, %d extras, %d aliases\n",
		st.Functions, st.Constants, st.Skipped, st.Callbacks, st.Extras, st.Aliases)
}

// printDiagnostics writes errors always and warnings unless quiet.
func printDiagnostics(w io.Writer, bag *diag.Bag, quiet bool) {
	bag.Dedup()
	bag.Sort()
	for _, d := range bag.Items() {
		if quiet && d.Severity < diag.SevError {
			continue
		}
		line := diag.FormatGolden([]diag.Diagnostic{d}, false)
		if d.Severity >= diag.SevError {
			fmt.Fprintln(w, color.RedString("%s", line))
		} else {
			fmt.Fprintln(w, color.YellowString("%s", line))
		}
	}
}

func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(wd, p); err == nil {
		return rel
	}
	return p
}
