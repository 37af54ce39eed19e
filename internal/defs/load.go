package defs

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed mpiabi.toml
var embedded []byte

// DefaultSource is the name the embedded definitions report as their origin.
const DefaultSource = "<embedded mpiabi.toml>"

type document struct {
	Functions []FunctionSignature `toml:"function"`
	Constants []ConstantDecl      `toml:"constant"`
}

// Parse decodes and validates a definitions document. Keys the decoder does
// not know are rejected so that typos do not silently drop data.
func Parse(data []byte, name string) (*Definitions, error) {
	var doc document
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, &EntryError{Source: name, Kind: "key", Name: strings.Join(keys, ", "), Err: ErrUnknownField}
	}
	return New(name, doc.Functions, doc.Constants)
}

// Load reads and parses the definitions file at path.
func Load(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	return Parse(data, path)
}

var defaultDefinitions = sync.OnceValues(func() (*Definitions, error) {
	return Parse(embedded, DefaultSource)
})

// Default returns the embedded MPIABI definitions. It panics if the embedded
// file is invalid, which the package tests rule out.
func Default() *Definitions {
	d, err := defaultDefinitions()
	if err != nil {
		panic(err)
	}
	return d
}
