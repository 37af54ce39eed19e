package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mpirt/internal/defs"
	"mpirt/internal/gen"
	"mpirt/internal/naming"
)

// ErrInvalidManifest is wrapped by every manifest validation failure.
var ErrInvalidManifest = errors.New("invalid manifest")

type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Generate GenerateConfig    `toml:"generate"`
	Alias    []naming.Override `toml:"alias"`
	Extra    []gen.Extra       `toml:"extra"`
}

type GenerateConfig struct {
	// Definitions is relative to the manifest; empty selects the embedded set.
	Definitions     string   `toml:"definitions"`
	Output          string   `toml:"output"`
	Package         string   `toml:"package"`
	ABIImport       string   `toml:"abi_import"`
	RTImport        string   `toml:"rt_import"`
	FunctionSymbols string   `toml:"function_symbols"`
	StrictConstants bool     `toml:"strict_constants"`
	Tags            []string `toml:"tags"`
}

// Load finds mpirt.toml above startDir and decodes it. ok is false when there
// is no manifest.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates the manifest at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	invalid := func(format string, args ...any) (Config, error) {
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrInvalidManifest, fmt.Sprintf(format, args...))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return invalid("unknown key %s", undecoded[0])
	}
	if !meta.IsDefined("generate") {
		return invalid("missing [generate]")
	}
	if !meta.IsDefined("generate", "output") || strings.TrimSpace(cfg.Generate.Output) == "" {
		return invalid("missing [generate].output")
	}
	if _, err := gen.ParseSymbolNamespace(cfg.Generate.FunctionSymbols); err != nil {
		return invalid("[generate].function_symbols: %v", err)
	}
	for i, a := range cfg.Alias {
		if strings.TrimSpace(a.Alias) == "" || strings.TrimSpace(a.Target) == "" {
			return invalid("[[alias]] #%d needs alias and target", i+1)
		}
	}
	for i, e := range cfg.Extra {
		if !strings.HasPrefix(e.Name, naming.RawPrefix) {
			return invalid("[[extra]] #%d: name %q lacks the %s prefix", i+1, e.Name, naming.RawPrefix)
		}
		if !e.Function && strings.TrimSpace(string(e.Type)) == "" {
			return invalid("[[extra]] %s needs a type", e.Name)
		}
	}
	return cfg, nil
}

// OutputDir is the absolute directory generated files go to.
func (m *Manifest) OutputDir() string {
	return m.resolve(m.Config.Generate.Output)
}

// DefinitionsPath is the absolute definitions path, or "" for the embedded set.
func (m *Manifest) DefinitionsPath() string {
	if strings.TrimSpace(m.Config.Generate.Definitions) == "" {
		return ""
	}
	return m.resolve(m.Config.Generate.Definitions)
}

func (m *Manifest) resolve(p string) string {
	p = filepath.FromSlash(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

// Options converts the generate settings. Aliases and extras are added to
// the defaults; an alias replaces the default with the same name.
func (c Config) Options() (gen.Options, error) {
	ns, err := gen.ParseSymbolNamespace(c.Generate.FunctionSymbols)
	if err != nil {
		return gen.Options{}, err
	}
	extras := append([]gen.Extra(nil), gen.DefaultExtras...)
	extras = append(extras, c.Extra...)
	return gen.Options{
		Package:         c.Generate.Package,
		ABIImport:       c.Generate.ABIImport,
		RTImport:        c.Generate.RTImport,
		FunctionSymbols: ns,
		StrictConstants: c.Generate.StrictConstants,
		Overrides:       naming.MergeOverrides(naming.DefaultOverrides, c.Alias),
		Extras:          extras,
	}, nil
}

// LoadDefinitions reads the configured definitions, filtered by tags.
func (m *Manifest) LoadDefinitions() (*defs.Definitions, error) {
	d := defs.Default()
	if p := m.DefinitionsPath(); p != "" {
		var err error
		if d, err = defs.Load(p); err != nil {
			return nil, err
		}
	}
	return d.Filter(m.Config.Generate.Tags), nil
}
