package rt

import (
	"os"
	"strings"
	"sync"
)

// Environment variables naming the MPIABI-compatible library, in lookup order.
const (
	EnvLibrary           = "MPI_RT_LIB"
	EnvTrampolineLibrary = "MPITRAMPOLINE_LIB"
)

// Library resolves exported symbols of a loaded shared object.
// Implementations must be safe for concurrent use.
type Library interface {
	Lookup(name string) (uintptr, error)
}

// LibraryFunc supplies the library a cell resolves against.
type LibraryFunc func() Library

// LibraryPath returns the configured library path.
func LibraryPath() (string, error) {
	for _, key := range []string{EnvLibrary, EnvTrampolineLibrary} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, nil
		}
	}
	return "", &LoadError{Err: ErrNoLibrary}
}

var defaultLibrary = sync.OnceValue(func() Library {
	path, err := LibraryPath()
	if err != nil {
		panic(err)
	}
	lib, err := Open(path)
	if err != nil {
		panic(err)
	}
	return lib
})

// Default returns the process-wide library, loading it on first use.
// It panics with *LoadError when no library can be loaded.
func Default() Library {
	return defaultLibrary()
}

// MustLookup resolves name or panics with *MissingSymbolError.
func MustLookup(lib Library, name string) uintptr {
	addr, err := lib.Lookup(name)
	if err != nil {
		panic(&MissingSymbolError{Name: name, Err: err})
	}
	if addr == 0 {
		panic(&MissingSymbolError{Name: name})
	}
	return addr
}
