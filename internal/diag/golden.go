package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatGolden renders diagnostics one per line in a stable form suitable for
// golden comparisons and for the short CLI output:
//
//	error TYP2001 defs/mpiabi.toml MPI_Foo: unknown type "struct foo *"
//
// Notes follow their diagnostic as "note" lines when includeNotes is set.
func FormatGolden(items []Diagnostic, includeNotes bool) string {
	var b strings.Builder
	for i, d := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeLine(&b, d.Severity.String(), d.Code, d.Source, d.Symbol, d.Message)
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			b.WriteByte('\n')
			writeLine(&b, "note", d.Code, d.Source, d.Symbol, note)
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, label string, code Code, source, symbol, msg string) {
	fmt.Fprintf(b, "%s %s", label, code.ID())
	if source != "" {
		b.WriteByte(' ')
		b.WriteString(normalizePath(source))
	}
	if symbol != "" {
		fmt.Fprintf(b, " %s:", symbol)
	}
	b.WriteByte(' ')
	b.WriteString(sanitizeMessage(msg))
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
