// Package typemap maps the C type strings of the MPI definitions onto the Go
// types used in generated bindings.
//
// Lookups are exact. A string that is not in a table is an error, never a
// guess: "int*" and "int *" are different keys. Handles come from the abi
// package and are pointer sized integers; every pointer becomes a Go pointer
// or unsafe.Pointer; callbacks become the nullable function pointer types
// declared in the generated callbacks file.
package typemap
