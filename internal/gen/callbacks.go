package gen

import (
	"context"

	"mpirt/internal/trace"
	"mpirt/internal/typemap"
)

// emitCallbacks declares every registered callback signature as a nullable
// function pointer with a constructor from a Go func.
func (g *generator) emitCallbacks(ctx context.Context) (*unitWriter, error) {
	w := newUnit(CallbackTypeAliases, g.opts)
	for _, cb := range typemap.Callbacks() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sig, err := w.signature(cb.Name, cb.Params, cb.Return)
		if err != nil {
			return nil, err
		}
		ctor := "New" + cb.Name
		for _, ident := range []string{cb.Name, ctor} {
			if err := g.syms.claim(ident, cb.Name); err != nil {
				return nil, &SymbolError{Unit: w.kind, Symbol: cb.Name, Err: err}
			}
		}

		w.useRT = true
		w.printf("\n// %s is a C function pointer. The zero value is NULL.\n", cb.Name)
		w.printf("type %s uintptr\n", cb.Name)
		w.printf("\n// IsNull reports whether f is the NULL pointer.\n")
		w.printf("func (f %s) IsNull() bool { return f == 0 }\n", cb.Name)
		w.printf("\n// %s makes fn callable from C. The pointer is never released.\n", ctor)
		w.printf("func %s(fn %s) %s {\n", ctor, sig.funcType(), cb.Name)
		w.printf("\treturn %s(rt.Callback(fn))\n}\n", cb.Name)

		g.res.Stats.Callbacks++
		trace.Point(ctx, trace.ScopeSymbol, cb.Name, "callback")
	}
	return w, nil
}
