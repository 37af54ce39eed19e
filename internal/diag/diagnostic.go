package diag

import "fmt"

type Diagnostic struct {
	Severity Severity
	Code     Code
	Source   string
	Symbol   string
	Message  string
	Notes    []string
}

// Errorf builds an error diagnostic for symbol.
func Errorf(code Code, symbol, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Symbol: symbol, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning diagnostic for symbol.
func Warnf(code Code, symbol, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SevWarning, Code: code, Symbol: symbol, Message: fmt.Sprintf(format, args...)}
}

// WithNote returns a copy of d carrying an extra note.
func (d Diagnostic) WithNote(note string) Diagnostic {
	notes := make([]string, 0, len(d.Notes)+1)
	notes = append(notes, d.Notes...)
	d.Notes = append(notes, note)
	return d
}

// WithSource returns a copy of d attributed to the definitions file path.
func (d Diagnostic) WithSource(path string) Diagnostic {
	d.Source = path
	return d
}
