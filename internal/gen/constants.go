package gen

import (
	"context"
	"fmt"
	"strings"

	"mpirt/internal/defs"
	"mpirt/internal/diag"
	"mpirt/internal/naming"
	"mpirt/internal/trace"
	"mpirt/internal/typemap"
)

const (
	aggregateType = "mpiConstants"
	aggregateCell = "loadConstants"
)

type constantField struct {
	decl  defs.ConstantDecl
	field string
	typ   string
	// skip is the reason the constant has no field.
	skip string
}

// emitConstants renders the aggregate record, its single cell, the RSMPI_
// accessors, the extras and the naming-exception aliases.
func (g *generator) emitConstants(ctx context.Context) (*unitWriter, error) {
	w := newUnit(ConstantBindings, g.opts)
	fail := func(symbol string, err error) error {
		return &SymbolError{Unit: w.kind, Symbol: symbol, Err: err}
	}

	fields, err := g.constantFields(ctx, w)
	if err != nil {
		return nil, err
	}

	var mapped []constantField
	for _, f := range fields {
		if f.skip == "" {
			mapped = append(mapped, f)
		}
	}

	if len(mapped) > 0 {
		for _, ident := range []string{aggregateType, aggregateCell} {
			if err := g.syms.claim(ident, "constants aggregate"); err != nil {
				return nil, fail(ident, err)
			}
		}
		w.useRT = true
		w.printf("\ntype %s struct {\n", aggregateType)
		for _, f := range fields {
			if f.skip != "" {
				w.printf("\t// %s skipped: %s\n", f.decl.Name, f.skip)
				continue
			}
			w.printf("\t%s %s\n", f.field, f.typ)
		}
		w.printf("}\n")

		w.printf("\n// %s reads every constant on first use.\n", aggregateCell)
		w.printf("var %s = rt.Aggregate(func(lib rt.Library) *%s {\n", aggregateCell, aggregateType)
		w.printf("\treturn &%s{\n", aggregateType)
		for _, f := range mapped {
			w.printf("\t\t%s: rt.ReadValue[%s](lib, %q),\n", f.field, f.typ, naming.Intermediate(f.decl.Name))
		}
		w.printf("\t}\n})\n")

		for _, f := range mapped {
			consumer, consumerFn := naming.Consumer(f.decl.Name), naming.ConsumerFn(f.decl.Name)
			w.printf("\n// %s returns %s.\n", consumer, f.decl.Name)
			w.printf("func %s() %s { return %s().%s }\n", consumer, f.typ, aggregateCell, f.field)
			w.printf("\nfunc %s() %s { return %s().%s }\n", consumerFn, f.typ, aggregateCell, f.field)
		}
	} else if len(fields) > 0 {
		w.printf("\n// No constant has a value mapping.\n")
		for _, f := range fields {
			w.printf("// %s skipped: %s\n", f.decl.Name, f.skip)
		}
	}

	if err := g.emitExtras(ctx, w); err != nil {
		return nil, err
	}
	g.emitAliases(ctx, w, mapped)
	return w, nil
}

// constantFields maps every declaration, skipping (or, in strict mode,
// rejecting) those without a value mapping.
func (g *generator) constantFields(ctx context.Context, w *unitWriter) ([]constantField, error) {
	fieldNames := newSymbols()
	var out []constantField
	for _, c := range g.defs.Constants() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, ok := typemap.MapConstant(c.Type)
		if !ok {
			err := fmt.Errorf("%w: %q", ErrUnmappedConstant, string(c.Type))
			if g.opts.StrictConstants {
				return nil, &SymbolError{Unit: w.kind, Symbol: c.Name, Err: err}
			}
			reason := fmt.Sprintf("no value mapping for %q", string(c.Type))
			g.warn(diag.Warnf(diag.TypConstantSkipped, c.Name, "%s", reason))
			out = append(out, constantField{decl: c, skip: reason})
			g.res.Stats.Skipped++
			continue
		}

		field := naming.FieldName(c.Name)
		if err := fieldNames.claim(field, c.Name); err != nil {
			return nil, &SymbolError{Unit: w.kind, Symbol: c.Name, Where: "field", Err: err}
		}
		for _, ident := range []string{naming.Consumer(c.Name), naming.ConsumerFn(c.Name)} {
			if err := g.syms.claim(ident, c.Name); err != nil {
				return nil, &SymbolError{Unit: w.kind, Symbol: c.Name, Err: err}
			}
		}
		out = append(out, constantField{decl: c, field: field, typ: w.typ(t)})
		g.res.Stats.Constants++
		trace.Point(ctx, trace.ScopeSymbol, c.Name, naming.Intermediate(c.Name))
	}
	return out, nil
}

func extraCell(raw string) string {
	f := strings.TrimPrefix(naming.FieldName(raw), "_")
	if f == "" {
		return "extra"
	}
	return "extra" + strings.ToUpper(f[:1]) + f[1:]
}

// emitExtras renders the accessors for symbols outside the definitions.
func (g *generator) emitExtras(ctx context.Context, w *unitWriter) error {
	for _, e := range g.opts.Extras {
		consumer, consumerFn := naming.Consumer(e.Name), naming.ConsumerFn(e.Name)
		if e.Function {
			fn, ok := g.defs.Function(e.Name)
			if !ok {
				return &SymbolError{Unit: w.kind, Symbol: consumer, Err: fmt.Errorf("%w: function %s", ErrDanglingExtra, e.Name)}
			}
			sig, err := w.signature(fn.Name, fn.Params, fn.Return)
			if err != nil {
				return err
			}
			if err := g.syms.claim(consumer, e.Name); err != nil {
				return &SymbolError{Unit: w.kind, Symbol: consumer, Err: err}
			}
			w.printf("\n// %s forwards to %s.\n", consumer, fn.Name)
			if sig.result == "" {
				w.printf("func %s(%s) { %s(%s) }\n", consumer, sig.params, fn.Name, sig.args)
			} else {
				w.printf("func %s(%s) %s { return %s(%s) }\n", consumer, sig.params, sig.result, fn.Name, sig.args)
			}
			g.res.Stats.Extras++
			trace.Point(ctx, trace.ScopeSymbol, consumer, "extra")
			continue
		}

		t, ok := typemap.MapConstant(e.Type)
		if !ok {
			return &SymbolError{Unit: w.kind, Symbol: e.Name, Where: "extra", Err: fmt.Errorf("%w: %q", ErrUnmappedConstant, string(e.Type))}
		}
		cell := extraCell(e.Name)
		for _, ident := range []string{consumer, consumerFn, cell} {
			if err := g.syms.claim(ident, e.Name); err != nil {
				return &SymbolError{Unit: w.kind, Symbol: e.Name, Where: "extra", Err: err}
			}
		}
		typ := w.typ(t)
		w.useRT = true
		w.printf("\nvar %s = rt.LazyValue[%s](%q)\n", cell, typ, naming.Intermediate(e.Name))
		w.printf("\n// %s returns %s.\n", consumerFn, e.Name)
		w.printf("func %s() %s { return %s() }\n", consumerFn, typ, cell)
		w.printf("\nfunc %s() %s { return %s() }\n", consumer, typ, consumerFn)
		g.res.Stats.Extras++
		trace.Point(ctx, trace.ScopeSymbol, consumer, "extra")
	}
	return nil
}

// emitAliases forwards each override to its target accessors. Overrides whose
// target was not emitted, or whose alias is already taken, are reported and
// left out.
func (g *generator) emitAliases(ctx context.Context, w *unitWriter, mapped []constantField) {
	types := make(map[string]string, len(mapped))
	for _, f := range mapped {
		types[f.decl.Name] = f.typ
	}
	for _, o := range g.opts.Overrides {
		target, alias := o.TargetRaw(), o.AliasRaw()
		typ, ok := types[target]
		if !ok {
			g.warn(diag.Warnf(diag.GenDanglingAlias, naming.Consumer(alias), "target %s was not emitted", target))
			continue
		}
		consumer, consumerFn := naming.Consumer(alias), naming.ConsumerFn(alias)
		if g.syms.has(consumer) || g.syms.has(consumerFn) {
			g.warn(diag.Warnf(diag.GenAliasUnreachable, consumer, "already declared, alias to %s dropped", naming.Consumer(target)))
			continue
		}
		// neither is taken, the claims cannot fail
		_ = g.syms.claim(consumer, o.String())
		_ = g.syms.claim(consumerFn, o.String())

		w.printf("\n// %s is %s.\n", consumer, naming.Consumer(target))
		w.printf("func %s() %s { return %s() }\n", consumer, typ, naming.Consumer(target))
		w.printf("\nfunc %s() %s { return %s() }\n", consumerFn, typ, naming.ConsumerFn(target))
		g.res.Stats.Aliases++
		trace.Point(ctx, trace.ScopeSymbol, consumer, "alias")
	}
}
