package gen

import (
	"fmt"

	"mpirt/internal/diag"
)

type UnitKind uint8

const (
	FunctionBindings UnitKind = iota + 1
	ConstantBindings
	CallbackTypeAliases
)

func (k UnitKind) String() string {
	switch k {
	case FunctionBindings:
		return "functions"
	case ConstantBindings:
		return "constants"
	case CallbackTypeAliases:
		return "callbacks"
	}
	return fmt.Sprintf("UnitKind(%d)", uint8(k))
}

// FileName is the unit's file name inside the output package.
func (k UnitKind) FileName() string { return k.String() + ".go" }

// Unit is one formatted Go source file.
type Unit struct {
	Kind    UnitKind
	Path    string
	Content []byte
}

type Stats struct {
	Functions int
	Constants int
	Skipped   int
	Callbacks int
	Extras    int
	Aliases   int
}

type Result struct {
	Units       []Unit
	Stats       Stats
	Diagnostics []diag.Diagnostic
}

// Unit returns the unit of kind k.
func (r *Result) Unit(k UnitKind) (Unit, bool) {
	for _, u := range r.Units {
		if u.Kind == k {
			return u, true
		}
	}
	return Unit{}, false
}
