package rt

import "unsafe"

// This file is the unsafe boundary: raw addresses become typed values here
// and nowhere else.

// ReadValue reads the exported variable name as a T. The caller vouches that
// the symbol really is a T.
func ReadValue[T any](lib Library, name string) T {
	addr := MustLookup(lib, name)
	return *(*T)(unsafe.Pointer(addr))
}

// BindFunc turns a function address into a callable F.
func BindFunc[F any](addr uintptr) F {
	var fn F
	bindNative(&fn, addr)
	return fn
}

// Callback converts a Go func into a C function pointer. The result is never
// released; callbacks are meant to be registered once.
func Callback(fn any) uintptr {
	return newCallback(fn)
}
