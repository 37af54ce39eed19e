//go:build !(darwin || (linux && (amd64 || arm64)))

package rt

import "fmt"

// Dylib is a placeholder on platforms without dlopen support.
type Dylib struct {
	path string
}

// Open always fails on this platform.
func Open(path string) (*Dylib, error) {
	return nil, &LoadError{Path: path, Err: ErrUnsupported}
}

// Path returns the requested path.
func (l *Dylib) Path() string { return l.path }

// Lookup always fails on this platform.
func (l *Dylib) Lookup(name string) (uintptr, error) {
	return 0, fmt.Errorf("%s: %w", name, ErrUnsupported)
}

func bindNative(_ any, _ uintptr) {
	panic(ErrUnsupported)
}

func newCallback(_ any) uintptr {
	panic(ErrUnsupported)
}
