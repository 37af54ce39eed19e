package gen

import (
	"context"

	"mpirt/internal/naming"
	"mpirt/internal/trace"
)

// emitFunctions renders one cached trampoline per function:
//
//	var fnMPI_Send = rt.LazyFunc[func(...) int32]("MPI_Send")
//
//	func MPI_Send(...) int32 { return fnMPI_Send()(...) }
func (g *generator) emitFunctions(ctx context.Context) (*unitWriter, error) {
	w := newUnit(FunctionBindings, g.opts)
	for _, fn := range g.defs.Functions() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sig, err := w.signature(fn.Name, fn.Params, fn.Return)
		if err != nil {
			return nil, err
		}
		cache := naming.CacheVar(fn.Name)
		for _, ident := range []string{fn.Name, cache} {
			if err := g.syms.claim(ident, fn.Name); err != nil {
				return nil, &SymbolError{Unit: w.kind, Symbol: fn.Name, Err: err}
			}
		}

		symbol := fn.Name
		if g.opts.FunctionSymbols == SymbolsABI {
			symbol = naming.Intermediate(fn.Name)
		}

		w.useRT = true
		w.printf("\nvar %s = rt.LazyFunc[%s](%q)\n", cache, sig.funcType(), symbol)
		w.printf("\n// %s calls %s in the loaded MPI library.\n", fn.Name, symbol)
		w.printf("func %s(%s)%s {\n", fn.Name, sig.params, sig.resultSuffix())
		if sig.result == "" {
			w.printf("\t%s()(%s)\n}\n", cache, sig.args)
		} else {
			w.printf("\treturn %s()(%s)\n}\n", cache, sig.args)
		}

		g.res.Stats.Functions++
		trace.Point(ctx, trace.ScopeSymbol, fn.Name, symbol)
	}
	return w, nil
}
