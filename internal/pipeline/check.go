package pipeline

import (
	"context"
	"errors"
	"io/fs"

	"mpirt/internal/defs"
	"mpirt/internal/diag"
	"mpirt/internal/gen"
	"mpirt/internal/typemap"
)

// Check lints a definitions file. Unlike Run it keeps going after the first
// problem: every load violation and every unmapped type is reported, and
// generation warnings are added when the definitions map cleanly. The
// returned error is only set for failures outside the definitions.
func Check(ctx context.Context, path string, tags []string, opts gen.Options, maxDiagnostics int) (*diag.Bag, error) {
	bag := diag.NewBag(maxDiagnostics)
	d, err := LoadDefinitions(ctx, path, tags)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || ctx.Err() != nil {
			return bag, err
		}
		for _, x := range defs.Diagnostics(err) {
			if x.Source == "" {
				x = x.WithSource(path)
			}
			bag.Add(x)
		}
		return finish(bag), nil
	}

	unmapped := typemap.Unmapped(d)
	for _, u := range unmapped {
		code := diag.TypUnknown
		if errors.Is(u.Reason, typemap.ErrUnregisteredCallback) {
			code = diag.TypUnregisteredCallback
		}
		x := diag.Errorf(code, string(u.Type), "%v", u).WithSource(d.Source())
		for _, user := range usersOf(d, u.Type) {
			x = x.WithNote("used by " + user)
		}
		bag.Add(x)
	}
	if len(unmapped) > 0 {
		return finish(bag), nil
	}

	opts.Reporter = &diag.BagReporter{Bag: bag}
	if _, err := gen.Generate(ctx, d, opts); err != nil && ctx.Err() != nil {
		return bag, err
	}
	return finish(bag), nil
}

func finish(bag *diag.Bag) *diag.Bag {
	bag.Dedup()
	bag.Sort()
	return bag
}

// usersOf names the functions that mention ref.
func usersOf(d *defs.Definitions, ref defs.TypeRef) []string {
	var out []string
	for _, fn := range d.Functions() {
		if fn.Return == ref {
			out = append(out, fn.Name)
			continue
		}
		for _, p := range fn.Params {
			if p.Type == ref {
				out = append(out, fn.Name)
				break
			}
		}
	}
	return out
}
