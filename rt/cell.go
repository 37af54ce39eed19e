package rt

import "sync"

// ResolveFunc returns a single-assignment cell holding the function named
// name, converted by bind. The lookup runs on the first call only.
func ResolveFunc[F any](lib LibraryFunc, name string, bind func(addr uintptr) F) func() F {
	return sync.OnceValue(func() F {
		return bind(MustLookup(lib(), name))
	})
}

// LazyFunc is ResolveFunc against the default library with a C calling
// convention binding. F must be a func type whose parameters are all
// integer, float, pointer or unsafe.Pointer kinds.
func LazyFunc[F any](name string) func() F {
	return ResolveFunc(Default, name, BindFunc[F])
}

// AggregateFrom returns a cell populated once by build.
func AggregateFrom[T any](lib LibraryFunc, build func(Library) T) func() T {
	return sync.OnceValue(func() T {
		return build(lib())
	})
}

// Aggregate is AggregateFrom against the default library.
func Aggregate[T any](build func(Library) T) func() T {
	return AggregateFrom(Default, build)
}

// ResolveValue returns a cell holding the value stored at the exported
// variable name.
func ResolveValue[T any](lib LibraryFunc, name string) func() T {
	return sync.OnceValue(func() T {
		return ReadValue[T](lib(), name)
	})
}

// LazyValue is ResolveValue against the default library.
func LazyValue[T any](name string) func() T {
	return ResolveValue[T](Default, name)
}
