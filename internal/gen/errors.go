package gen

import (
	"errors"
	"fmt"

	"mpirt/internal/diag"
	"mpirt/internal/typemap"
)

var (
	ErrDanglingExtra     = errors.New("extra accessor target is not defined")
	ErrDuplicateSymbol   = errors.New("duplicate generated identifier")
	ErrInvalidIdentifier = errors.New("not a Go identifier")
	ErrUnmappedConstant  = errors.New("constant type has no value mapping")
	ErrTooManyParams     = errors.New("too many parameters for a native call")
)

// MaxParams is the most arguments purego can pass to a bound function or
// accept in a callback.
const MaxParams = 15

// SymbolError ties a generation failure to the MPI name being emitted.
type SymbolError struct {
	Unit   UnitKind
	Symbol string
	// Where is the position inside the symbol ("return", "parameter 2 (comm)").
	Where string
	Err   error
}

func (e *SymbolError) Error() string {
	if e.Where != "" {
		return fmt.Sprintf("%s: %s %s: %v", e.Unit, e.Symbol, e.Where, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Unit, e.Symbol, e.Err)
}

func (e *SymbolError) Unwrap() error { return e.Err }

// Diagnostic converts the error for a diag.Bag.
func (e *SymbolError) Diagnostic() diag.Diagnostic {
	code := diag.UnknownCode
	switch {
	case errors.Is(e.Err, typemap.ErrUnregisteredCallback):
		code = diag.TypUnregisteredCallback
	case errors.Is(e.Err, typemap.ErrUnknownType):
		code = diag.TypUnknown
	case errors.Is(e.Err, ErrUnmappedConstant):
		code = diag.TypConstantSkipped
	case errors.Is(e.Err, ErrDanglingExtra):
		code = diag.GenDanglingExtra
	case errors.Is(e.Err, ErrTooManyParams):
		code = diag.GenTooManyParams
	case errors.Is(e.Err, ErrDuplicateSymbol), errors.Is(e.Err, ErrInvalidIdentifier):
		code = diag.GenDuplicateSymbol
	}
	msg := e.Err.Error()
	if e.Where != "" {
		msg = e.Where + ": " + msg
	}
	return diag.Errorf(code, e.Symbol, "%s", msg)
}

// FormatError reports generated source go/format rejected. Source is kept
// for debugging.
type FormatError struct {
	Unit   UnitKind
	Source []byte
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: generated source does not format: %v", e.Unit, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
