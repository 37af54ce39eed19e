package naming

import (
	"fmt"
	"strings"
)

// Override exposes a constant under a second consumer name. Both fields are
// stems: Alias FLOAT_COMPLEX with Target C_FLOAT_COMPLEX yields
// RSMPI_FLOAT_COMPLEX forwarding to RSMPI_C_FLOAT_COMPLEX.
type Override struct {
	Alias  string `toml:"alias"`
	Target string `toml:"target"`
}

// AliasRaw and TargetRaw are the raw MPI_ spellings.
func (o Override) AliasRaw() string { return RawPrefix + o.Alias }
func (o Override) TargetRaw() string { return RawPrefix + o.Target }

func (o Override) String() string {
	return fmt.Sprintf("%s -> %s", Consumer(o.AliasRaw()), Consumer(o.TargetRaw()))
}

// DefaultOverrides is the complex datatype family, exposed without the C_
// sub-prefix as well.
var DefaultOverrides = []Override{
	{Alias: "FLOAT_COMPLEX", Target: "C_FLOAT_COMPLEX"},
	{Alias: "DOUBLE_COMPLEX", Target: "C_DOUBLE_COMPLEX"},
	{Alias: "LONG_DOUBLE_COMPLEX", Target: "C_LONG_DOUBLE_COMPLEX"},
	{Alias: "COMPLEX", Target: "C_COMPLEX"},
}

// MergeOverrides appends extra to base, replacing entries of base that share
// an alias. Stems are normalized: a leading MPI_ is dropped.
func MergeOverrides(base, extra []Override) []Override {
	out := make([]Override, 0, len(base)+len(extra))
	index := make(map[string]int, len(base)+len(extra))
	for _, list := range [][]Override{base, extra} {
		for _, o := range list {
			o.Alias = Stem(strings.TrimSpace(o.Alias))
			o.Target = Stem(strings.TrimSpace(o.Target))
			if i, ok := index[o.Alias]; ok {
				out[i] = o
				continue
			}
			index[o.Alias] = len(out)
			out = append(out, o)
		}
	}
	return out
}
