// Package naming translates raw MPI names between the three namespaces the
// bindings bridge: the raw C API (MPI_X), the ABI-stable symbol namespace the
// library exports (MPIABI_X) and the consumer-facing accessors (RSMPI_X,
// RSMPI_X_fn).
package naming

import (
	"go/token"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	RawPrefix          = "MPI_"
	IntermediatePrefix = "MPIABI_"
	ConsumerPrefix     = "RSMPI_"
	fnSuffix           = "_fn"
)

// Stem strips the raw prefix. Names without it are returned whole.
func Stem(raw string) string {
	return strings.TrimPrefix(raw, RawPrefix)
}

// Intermediate maps MPI_X to MPIABI_X.
func Intermediate(raw string) string { return IntermediatePrefix + Stem(raw) }

// Consumer maps MPI_X to RSMPI_X.
func Consumer(raw string) string { return ConsumerPrefix + Stem(raw) }

// ConsumerFn maps MPI_X to RSMPI_X_fn.
func ConsumerFn(raw string) string { return Consumer(raw) + fnSuffix }

// CacheVar is the package-level cell holding the resolved function.
func CacheVar(raw string) string { return "fn" + raw }

// reserved are identifiers generated files declare or import themselves.
var reserved = map[string]struct{}{
	"abi":    {},
	"rt":     {},
	"unsafe": {},
}

// SafeParam suffixes names a parameter cannot take in generated code.
func SafeParam(name string) string {
	if token.IsKeyword(name) {
		return name + "_"
	}
	if _, ok := reserved[name]; ok {
		return name + "_"
	}
	return name
}

var title = cases.Title(language.Und)

// FieldName is the unexported aggregate field for a constant:
// MPI_COMM_WORLD becomes commWorld. Names that are not identifiers once
// joined (MPI_2INT, keywords) get a leading underscore.
func FieldName(raw string) string {
	words := strings.Split(strings.ToLower(Stem(raw)), "_")
	var b strings.Builder
	for i, w := range words {
		if w == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(title.String(w))
	}
	name := b.String()
	if !token.IsIdentifier(name) {
		name = "_" + name
	}
	return name
}
