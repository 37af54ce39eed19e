package typemap

// Import is the set of imports a Go type expression needs in the generated
// file.
type Import uint8

const (
	NeedsUnsafe Import = 1 << iota
	NeedsABI
)

// GoType is the Go spelling of a C type.
type GoType struct {
	// Expr is the type expression as written in generated code. It is empty
	// for void.
	Expr     string
	Needs    Import
	// Callback is set when Expr names a generated callback type.
	Callback bool
}

func (t GoType) IsVoid() bool { return t.Expr == "" }

func (t GoType) String() string {
	if t.IsVoid() {
		return "void"
	}
	return t.Expr
}

var (
	goVoid    = GoType{}
	goInt     = GoType{Expr: "int32"}
	goDouble  = GoType{Expr: "float64"}
	goChar    = GoType{Expr: "byte"}
	goPointer = GoType{Expr: "unsafe.Pointer", Needs: NeedsUnsafe}
)

func ptr(t GoType) GoType {
	t.Expr = "*" + t.Expr
	t.Callback = false
	return t
}

func abiType(name string) GoType {
	return GoType{Expr: "abi." + name, Needs: NeedsABI}
}

func callbackType(name string) GoType {
	return GoType{Expr: name, Callback: true}
}
