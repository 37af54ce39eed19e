package rt

import (
	"errors"
	"fmt"
)

// ErrNoLibrary reports that no library path was configured.
var ErrNoLibrary = errors.New("no MPI library configured (set " + EnvLibrary + " or " + EnvTrampolineLibrary + ")")

// ErrUnsupported reports a platform without dynamic loading support.
var ErrUnsupported = errors.New("dynamic loading is not supported on this platform")

// LoadError is raised when the shared library cannot be opened.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("rt: load MPI library: %v", e.Err)
	}
	return fmt.Sprintf("rt: load MPI library %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MissingSymbolError is raised when a cell's symbol is absent from the library.
type MissingSymbolError struct {
	Name string
	Err  error
}

func (e *MissingSymbolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rt: symbol %q not found", e.Name)
	}
	return fmt.Sprintf("rt: symbol %q not found: %v", e.Name, e.Err)
}

func (e *MissingSymbolError) Unwrap() error { return e.Err }
