// Package diag defines the diagnostic model shared by the generator passes.
//
// # Purpose
//
//   - Collect findings produced while loading definitions, mapping types and
//     emitting units, without coupling producers to output formatting.
//   - Keep the output deterministic: Bag sorts and deduplicates, and the
//     golden formatter renders one stable line per diagnostic.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Source: the definitions file the finding belongs to, if any.
//   - Symbol: the MPI name at fault (function, constant or type string).
//   - Message: short and actionable.
//   - Notes: extra context lines, used sparingly.
//
// Generation errors are still returned as Go errors; diagnostics exist so that
// the check command can report everything at once and so that warnings (such
// as skipped constants) reach the CLI.
package diag
