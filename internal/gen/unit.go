package gen

import (
	"fmt"
	"go/format"
	"go/token"
	"strings"

	"mpirt/internal/defs"
	"mpirt/internal/naming"
	"mpirt/internal/typemap"
)

// unitWriter accumulates the body of one unit and the imports it needs.
type unitWriter struct {
	kind  UnitKind
	opts  *Options
	needs typemap.Import
	useRT bool
	body  strings.Builder
}

func newUnit(kind UnitKind, opts *Options) *unitWriter {
	return &unitWriter{kind: kind, opts: opts}
}

// typ records the imports t needs and returns its expression.
func (w *unitWriter) typ(t typemap.GoType) string {
	w.needs |= t.Needs
	return t.Expr
}

func (w *unitWriter) printf(format string, args ...any) {
	fmt.Fprintf(&w.body, format, args...)
}

// finish assembles header, imports and body and formats the result.
func (w *unitWriter) finish(origin string) (Unit, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by mpirt-gen from %s. DO NOT EDIT.\n\n", origin)
	fmt.Fprintf(&b, "package %s\n", w.opts.Package)

	var std, local []string
	if w.needs&typemap.NeedsUnsafe != 0 {
		std = append(std, `"unsafe"`)
	}
	if w.needs&typemap.NeedsABI != 0 {
		local = append(local, importSpec("abi", w.opts.ABIImport))
	}
	if w.useRT {
		local = append(local, importSpec("rt", w.opts.RTImport))
	}
	if len(std)+len(local) > 0 {
		b.WriteString("\nimport (\n")
		for _, s := range std {
			fmt.Fprintf(&b, "\t%s\n", s)
		}
		if len(std) > 0 && len(local) > 0 {
			b.WriteByte('\n')
		}
		for _, s := range local {
			fmt.Fprintf(&b, "\t%s\n", s)
		}
		b.WriteString(")\n")
	}
	b.WriteString(w.body.String())

	src := []byte(b.String())
	out, err := format.Source(src)
	if err != nil {
		return Unit{}, &FormatError{Unit: w.kind, Source: src, Err: err}
	}
	return Unit{Kind: w.kind, Path: w.kind.FileName(), Content: out}, nil
}

// signature is a rendered Go parameter list.
type signature struct {
	params string // "buf unsafe.Pointer, count int32"
	args   string // "buf, count"
	result string // empty for void
}

func (s signature) funcType() string {
	return "func(" + s.params + ")" + s.resultSuffix()
}

func (s signature) resultSuffix() string {
	if s.result == "" {
		return ""
	}
	return " " + s.result
}

// signature maps params and ret. Parameter order is never changed; reserved
// names get a suffix.
func (w *unitWriter) signature(symbol string, params []defs.Param, ret defs.TypeRef) (signature, error) {
	fail := func(where string, err error) (signature, error) {
		return signature{}, &SymbolError{Unit: w.kind, Symbol: symbol, Where: where, Err: err}
	}

	if len(params) > MaxParams {
		return fail("", fmt.Errorf("%w: %d, limit is %d", ErrTooManyParams, len(params), MaxParams))
	}

	names := make([]string, 0, len(params))
	types := make([]string, 0, len(params))
	seen := make(map[string]struct{}, len(params))
	for i, p := range params {
		where := fmt.Sprintf("parameter %d (%s)", i+1, p.Name)
		t, err := typemap.Map(p.Type)
		if err != nil {
			return fail(where, err)
		}
		if t.IsVoid() {
			return fail(where, &typemap.UnknownTypeError{Type: p.Type, Reason: typemap.ErrUnknownType})
		}
		name := naming.SafeParam(p.Name)
		if !token.IsIdentifier(name) {
			return fail(where, fmt.Errorf("%w: %q", ErrInvalidIdentifier, p.Name))
		}
		if _, dup := seen[name]; dup {
			return fail(where, fmt.Errorf("%w: parameter %s", ErrDuplicateSymbol, name))
		}
		seen[name] = struct{}{}
		names = append(names, name)
		types = append(types, w.typ(t))
	}

	result, err := typemap.Map(ret)
	if err != nil {
		return fail("return", err)
	}

	var ps strings.Builder
	for i := range names {
		if i > 0 {
			ps.WriteString(", ")
		}
		ps.WriteString(names[i])
		ps.WriteByte(' ')
		ps.WriteString(types[i])
	}
	return signature{
		params: ps.String(),
		args:   strings.Join(names, ", "),
		result: w.typ(result),
	}, nil
}

// symbols guards the package scope shared by all units.
type symbols struct {
	owner map[string]string
}

func newSymbols(reserved ...string) *symbols {
	s := &symbols{owner: make(map[string]string)}
	for _, r := range reserved {
		s.owner[r] = "generated code"
	}
	return s
}

func (s *symbols) claim(ident, owner string) error {
	if !token.IsIdentifier(ident) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, ident)
	}
	if prev, ok := s.owner[ident]; ok {
		return fmt.Errorf("%w: %s (already declared for %s)", ErrDuplicateSymbol, ident, prev)
	}
	s.owner[ident] = owner
	return nil
}

func (s *symbols) has(ident string) bool {
	_, ok := s.owner[ident]
	return ok
}
