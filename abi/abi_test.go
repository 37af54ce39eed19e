package abi

import (
	"testing"
	"unsafe"
)

func TestStatusLayout(t *testing.T) {
	want := StatusInternalSize + 3*unsafe.Sizeof(int32(0))
	if got := unsafe.Sizeof(Status{}); got != want {
		t.Fatalf("sizeof(Status) = %d, want %d", got, want)
	}
	if off := unsafe.Offsetof(Status{}.Source); off != StatusInternalSize {
		t.Fatalf("offsetof(Source) = %d, want %d", off, StatusInternalSize)
	}
	switch unsafe.Sizeof(uintptr(0)) {
	case 8:
		if StatusInternalSize != 24 {
			t.Fatalf("64-bit internal size = %d, want 24", StatusInternalSize)
		}
	case 4:
		if StatusInternalSize != 20 {
			t.Fatalf("32-bit internal size = %d, want 20", StatusInternalSize)
		}
	}
}

func TestHandlesArePointerSized(t *testing.T) {
	ptr := unsafe.Sizeof(uintptr(0))
	sizes := map[string]uintptr{
		"Comm":       unsafe.Sizeof(Comm(0)),
		"Datatype":   unsafe.Sizeof(Datatype(0)),
		"Errhandler": unsafe.Sizeof(Errhandler(0)),
		"File":       unsafe.Sizeof(File(0)),
		"Group":      unsafe.Sizeof(Group(0)),
		"Info":       unsafe.Sizeof(Info(0)),
		"Message":    unsafe.Sizeof(Message(0)),
		"Op":         unsafe.Sizeof(Op(0)),
		"Request":    unsafe.Sizeof(Request(0)),
		"Win":        unsafe.Sizeof(Win(0)),
	}
	for name, size := range sizes {
		if size != ptr {
			t.Errorf("sizeof(%s) = %d, want %d", name, size, ptr)
		}
	}
}
