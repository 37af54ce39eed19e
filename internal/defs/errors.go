package defs

import (
	"errors"
	"fmt"

	"mpirt/internal/diag"
)

var (
	ErrMissingPrefix = errors.New("name must start with MPI_")
	ErrDuplicateName = errors.New("duplicate name")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyType     = errors.New("empty type")
	ErrUnknownField  = errors.New("unknown field")
	ErrNoDefinitions = errors.New("no functions or constants")
)

// EntryError reports an invalid entry of a definitions file.
type EntryError struct {
	Source string
	Kind   string // "function", "constant" or "param"
	Name   string
	Detail string
	Err    error
}

func (e *EntryError) Error() string {
	msg := fmt.Sprintf("%s: %s %s: %v", e.Source, e.Kind, e.Name, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *EntryError) Unwrap() error { return e.Err }

// Diagnostic converts the error for reporting through a diag.Bag.
func (e *EntryError) Diagnostic() diag.Diagnostic {
	code := diag.DefDecode
	switch {
	case errors.Is(e.Err, ErrMissingPrefix):
		code = diag.DefMissingPrefix
	case errors.Is(e.Err, ErrDuplicateName):
		code = diag.DefDuplicateName
	case errors.Is(e.Err, ErrEmptyName):
		code = diag.DefEmptyParamName
	case errors.Is(e.Err, ErrEmptyType):
		code = diag.DefEmptyType
	}
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return diag.Errorf(code, e.Name, "%s %s", e.Kind, msg).WithSource(e.Source)
}

// Diagnostics flattens a load error into diagnostics. Errors that are not
// entry errors become a single DefDecode diagnostic.
func Diagnostics(err error) []diag.Diagnostic {
	if err == nil {
		return nil
	}
	var out []diag.Diagnostic
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var entry *EntryError
		if errors.As(err, &entry) {
			out = append(out, entry.Diagnostic())
			return
		}
		out = append(out, diag.Errorf(diag.DefDecode, "", "%v", err))
	}
	walk(err)
	return out
}
