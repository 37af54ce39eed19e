//go:build darwin || (linux && (amd64 || arm64))

package rt

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Dylib is a shared object opened with dlopen.
type Dylib struct {
	path   string
	handle uintptr
}

// Open loads the library at path. The handle lives for the rest of the process.
func Open(path string) (*Dylib, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return &Dylib{path: path, handle: handle}, nil
}

// Path returns the path the library was opened from.
func (l *Dylib) Path() string { return l.path }

// Lookup returns the address of an exported symbol.
func (l *Dylib) Lookup(name string) (uintptr, error) {
	addr, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", l.path, err)
	}
	return addr, nil
}

func bindNative(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}

func newCallback(fn any) uintptr {
	return purego.NewCallback(fn)
}
