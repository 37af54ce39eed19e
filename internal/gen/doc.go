// Package gen renders the three binding units from a Definition Source:
//
//   - functions.go: one trampoline per function, resolved on first call
//   - constants.go: the constants aggregate and its accessors
//   - callbacks.go: nullable function pointer types
//
// Generate is all or nothing. Units are built in memory and each is run
// through go/format; any failure returns no units, so a half-written
// package never reaches disk.
package gen
