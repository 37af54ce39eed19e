// Package abi is the low-level type vocabulary shared by generated MPI
// bindings. It mirrors the MPIABI header: every handle is an integer wide
// enough to hold either an implementation's pointer or its int handle, so the
// same compiled consumer can talk to OpenMPI- and MPICH-derived libraries.
package abi

import "unsafe"

// Scalar types.
type (
	Aint   = int   // intptr_t
	Count  = int64 // int64_t
	Fint   = int32 // Fortran INTEGER
	Offset = int64 // int64_t
)

// Handles. The zero value is not a null handle; use the RSMPI_*_NULL accessors.
type (
	Comm       uintptr
	Datatype   uintptr
	Errhandler uintptr
	File       uintptr
	Group      uintptr
	Info       uintptr
	Message    uintptr
	Op         uintptr
	Request    uintptr
	Win        uintptr
)

// StatusInternalSize is the size of the implementation-private prefix of
// Status: max(OpenMPI 4*int + size_t, MPICH 5*int).
const StatusInternalSize = 16 + unsafe.Sizeof(uintptr(0))

// Status is laid out as MPIABI_Status. Only the public fields are portable.
type Status struct {
	internal [StatusInternalSize]byte
	Source   int32
	Tag      int32
	Error    int32
}
