// Package defs loads the Definition Source: the ordered MPI function
// signatures and constant declarations the generator turns into bindings.
//
// Definitions are TOML documents with [[function]] and [[constant]] tables.
// An MPIABI subset is embedded and returned by Default.
package defs

import (
	"slices"
)

// TypeRef is a C type spelled exactly as it appears in the MPI standard
// ("const void *", "MPI_Comm", "MPI_User_function *"). It is an opaque key:
// nothing in the generator parses it.
type TypeRef string

type Param struct {
	Type TypeRef `toml:"type"`
	Name string  `toml:"name"`
}

type FunctionSignature struct {
	Name   string  `toml:"name"`
	Return TypeRef `toml:"return"`
	Params []Param `toml:"params"`
	// Tag groups functions ("mpi", "mpi_c", "mpi_f2c"); see Filter.
	Tag string `toml:"tag"`
}

type ConstantDecl struct {
	Name string  `toml:"name"`
	Type TypeRef `toml:"type"`
}

// Definitions is an immutable, validated Definition Source.
type Definitions struct {
	source    string
	functions []FunctionSignature
	constants []ConstantDecl
}

// New validates the given tables and wraps them. source names the origin in
// errors and diagnostics. The slices are copied.
func New(source string, functions []FunctionSignature, constants []ConstantDecl) (*Definitions, error) {
	d := &Definitions{
		source:    source,
		functions: cloneFunctions(functions),
		constants: slices.Clone(constants),
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Source is the file the definitions came from.
func (d *Definitions) Source() string { return d.source }

// Functions returns the signatures in input order.
func (d *Definitions) Functions() []FunctionSignature { return cloneFunctions(d.functions) }

// Constants returns the declarations in input order.
func (d *Definitions) Constants() []ConstantDecl { return slices.Clone(d.constants) }

func (d *Definitions) NumFunctions() int { return len(d.functions) }

func (d *Definitions) NumConstants() int { return len(d.constants) }

// Function finds a signature by raw name.
func (d *Definitions) Function(name string) (FunctionSignature, bool) {
	for _, fn := range d.functions {
		if fn.Name == name {
			fn.Params = slices.Clone(fn.Params)
			return fn, true
		}
	}
	return FunctionSignature{}, false
}

// Constant finds a declaration by raw name.
func (d *Definitions) Constant(name string) (ConstantDecl, bool) {
	for _, c := range d.constants {
		if c.Name == name {
			return c, true
		}
	}
	return ConstantDecl{}, false
}

// Filter keeps the functions whose tag is listed. An empty list keeps
// everything. Constants are never filtered.
func (d *Definitions) Filter(tags []string) *Definitions {
	if len(tags) == 0 {
		return d
	}
	out := &Definitions{source: d.source, constants: d.constants}
	for _, fn := range d.functions {
		if slices.Contains(tags, fn.Tag) {
			out.functions = append(out.functions, fn)
		}
	}
	return out
}

// TypeRefs lists every type reference in order of first use: function
// returns and parameters first, then constant types.
func (d *Definitions) TypeRefs() []TypeRef {
	seen := make(map[TypeRef]struct{})
	var out []TypeRef
	add := func(t TypeRef) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, fn := range d.functions {
		add(fn.Return)
		for _, p := range fn.Params {
			add(p.Type)
		}
	}
	for _, c := range d.constants {
		add(c.Type)
	}
	return out
}

func cloneFunctions(in []FunctionSignature) []FunctionSignature {
	if in == nil {
		return nil
	}
	out := make([]FunctionSignature, len(in))
	for i, fn := range in {
		fn.Params = slices.Clone(fn.Params)
		out[i] = fn
	}
	return out
}
