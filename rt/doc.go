// Package rt is the runtime half of generated MPI bindings.
//
// Generated code never touches a library handle directly. It declares cells:
//
//	var fnMPI_Send = rt.LazyFunc[func(...) int32]("MPI_Send")
//	var constants = rt.Aggregate(func(lib rt.Library) *mpiConstants { ... })
//
// A cell resolves on first call, exactly once per process, and every caller
// (including goroutines that raced the first one) observes the same value.
// Resolution failures are fatal: the cell panics with *MissingSymbolError or
// *LoadError and keeps re-panicking with the same error on later calls,
// without trying again.
//
// unsafe.go holds every conversion from a raw address to a typed Go value;
// nothing else in this package or in generated code does that.
package rt
