package gen

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"mpirt/internal/defs"
	"mpirt/internal/diag"
	"mpirt/internal/trace"
)

type generator struct {
	defs *defs.Definitions
	opts *Options
	syms *symbols
	res  *Result
}

func (g *generator) warn(d diag.Diagnostic) {
	d = d.WithSource(g.defs.Source())
	g.res.Diagnostics = append(g.res.Diagnostics, d)
	g.opts.Reporter.Report(d)
}

// Generate renders the function, constant and callback units for d.
// On error no units are returned; the error is also reported as a diagnostic.
func Generate(ctx context.Context, d *defs.Definitions, opts Options) (*Result, error) {
	if d == nil {
		return nil, errors.New("gen: nil definitions")
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "emit")
	g := &generator{
		defs: d,
		opts: &opts,
		syms: newSymbols("abi", "rt", "unsafe"),
		res:  &Result{},
	}
	origin := filepath.Base(d.Source())

	steps := []struct {
		kind UnitKind
		emit func(context.Context) (*unitWriter, error)
	}{
		{FunctionBindings, g.emitFunctions},
		{ConstantBindings, g.emitConstants},
		{CallbackTypeAliases, g.emitCallbacks},
	}
	for _, step := range steps {
		unitCtx, unitSpan := trace.Start(ctx, trace.ScopeUnit, "unit:"+step.kind.FileName())
		w, err := step.emit(unitCtx)
		var unit Unit
		if err == nil {
			unit, err = w.finish(origin)
		}
		if err != nil {
			unitSpan.End("failed")
			span.End("failed")
			g.report(err)
			return nil, err
		}
		unitSpan.WithExtra("bytes", fmt.Sprint(len(unit.Content))).End("")
		g.res.Units = append(g.res.Units, unit)
	}

	span.WithExtra("functions", fmt.Sprint(g.res.Stats.Functions)).
		WithExtra("constants", fmt.Sprint(g.res.Stats.Constants)).
		WithExtra("skipped", fmt.Sprint(g.res.Stats.Skipped)).
		End("")
	return g.res, nil
}

func (g *generator) report(err error) {
	var d diag.Diagnostic
	var symErr *SymbolError
	var fmtErr *FormatError
	switch {
	case errors.As(err, &symErr):
		d = symErr.Diagnostic()
	case errors.As(err, &fmtErr):
		d = diag.Errorf(diag.GenFormat, fmtErr.Unit.FileName(), "%v", fmtErr.Err)
	default:
		d = diag.Errorf(diag.GenInfo, "", "%v", err)
	}
	g.opts.Reporter.Report(d.WithSource(g.defs.Source()))
}
