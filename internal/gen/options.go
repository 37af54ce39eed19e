package gen

import (
	"fmt"
	"go/token"
	"path"
	"strings"

	"mpirt/internal/defs"
	"mpirt/internal/diag"
	"mpirt/internal/naming"
)

// SymbolNamespace selects the names function trampolines resolve.
type SymbolNamespace string

const (
	// SymbolsRaw resolves MPI_Send as "MPI_Send".
	SymbolsRaw SymbolNamespace = "raw"
	// SymbolsABI resolves MPI_Send as "MPIABI_Send".
	SymbolsABI SymbolNamespace = "abi"
)

// ParseSymbolNamespace accepts "raw", "abi" or empty (raw).
func ParseSymbolNamespace(s string) (SymbolNamespace, error) {
	switch SymbolNamespace(strings.ToLower(strings.TrimSpace(s))) {
	case "", SymbolsRaw:
		return SymbolsRaw, nil
	case SymbolsABI:
		return SymbolsABI, nil
	}
	return "", fmt.Errorf("invalid function symbol namespace %q (expected: raw|abi)", s)
}

// Extra is an accessor for a symbol the definitions do not declare. A value
// extra reads the exported MPIABI variable into its own cell; a function
// extra forwards RSMPI_<X> to the MPI_<X> trampoline.
type Extra struct {
	Name     string       `toml:"name"`
	Type     defs.TypeRef `toml:"type"`
	Function bool         `toml:"function"`
}

// DefaultExtras are the library limits and timers consumers expect under the
// RSMPI_ names.
var DefaultExtras = []Extra{
	{Name: "MPI_MAX_LIBRARY_VERSION_STRING", Type: "int"},
	{Name: "MPI_MAX_PROCESSOR_NAME", Type: "int"},
	{Name: "MPI_Wtime", Function: true},
	{Name: "MPI_Wtick", Function: true},
}

const (
	DefaultPackage   = "mpi"
	DefaultABIImport = "mpirt/abi"
	DefaultRTImport  = "mpirt/rt"
)

type Options struct {
	// Package is the name of the generated package.
	Package   string
	ABIImport string
	RTImport  string

	FunctionSymbols SymbolNamespace
	// StrictConstants turns constants without a value mapping into errors
	// instead of skipping them.
	StrictConstants bool

	// Overrides defaults to naming.DefaultOverrides when nil.
	Overrides []naming.Override
	// Extras defaults to DefaultExtras when nil.
	Extras []Extra

	// Reporter receives warnings and the error that stopped generation.
	Reporter diag.Reporter
}

func (o Options) withDefaults() (Options, error) {
	if o.Package == "" {
		o.Package = DefaultPackage
	}
	if !token.IsIdentifier(o.Package) {
		return o, fmt.Errorf("%w: package name %q", ErrInvalidIdentifier, o.Package)
	}
	if o.ABIImport == "" {
		o.ABIImport = DefaultABIImport
	}
	if o.RTImport == "" {
		o.RTImport = DefaultRTImport
	}
	if o.FunctionSymbols == "" {
		o.FunctionSymbols = SymbolsRaw
	}
	if _, err := ParseSymbolNamespace(string(o.FunctionSymbols)); err != nil {
		return o, err
	}
	if o.Overrides == nil {
		o.Overrides = naming.DefaultOverrides
	}
	if o.Extras == nil {
		o.Extras = DefaultExtras
	}
	if o.Reporter == nil {
		o.Reporter = diag.NopReporter{}
	}
	return o, nil
}

// importSpec renders an import line, naming it when the path's last element
// differs from the name generated code uses.
func importSpec(name, importPath string) string {
	if path.Base(importPath) == name {
		return fmt.Sprintf("%q", importPath)
	}
	return fmt.Sprintf("%s %q", name, importPath)
}
