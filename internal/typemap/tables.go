package typemap

import "mpirt/internal/defs"

// handles are the opaque MPI object types, integers in the ABI.
var handles = []string{
	"Comm", "Datatype", "Errhandler", "File", "Group", "Info", "Message", "Op", "Request", "Win",
}

var primary = buildPrimary()

func buildPrimary() map[defs.TypeRef]GoType {
	m := map[defs.TypeRef]GoType{
		"void":   goVoid,
		"int":    goInt,
		"double": goDouble,
		"char":   goChar,

		"const void *": goPointer,
		"void *":       goPointer,

		"const char *": ptr(goChar),
		"char *":       ptr(goChar),
		"char **":      ptr(ptr(goChar)),
		"char ***":     ptr(ptr(ptr(goChar))),
		"char * * *":   ptr(ptr(ptr(goChar))),

		"MPIABI_array_int_3 *": {Expr: "*[3]int32"},

		"const int *":  ptr(goInt),
		"int *":        ptr(goInt),
		"const int []": ptr(goInt),
		"int []":       ptr(goInt),

		"const double *": ptr(goDouble),
		"double *":       ptr(goDouble),

		"MPI_Status *":       ptr(abiType("Status")),
		"const MPI_Status *": ptr(abiType("Status")),
	}
	for _, scalar := range []string{"Aint", "Count", "Fint", "Offset"} {
		addFamily(m, scalar)
	}
	for _, h := range handles {
		addFamily(m, h)
	}
	return m
}

// addFamily registers MPI_X and its pointer and array spellings.
func addFamily(m map[defs.TypeRef]GoType, name string) {
	t := abiType(name)
	c := "MPI_" + name
	m[defs.TypeRef(c)] = t
	for _, form := range []string{c + " *", "const " + c + " *", c + " []", "const " + c + " []"} {
		m[defs.TypeRef(form)] = ptr(t)
	}
}

// constants lists the types an exported MPIABI variable can be read as.
var constants = buildConstants()

func buildConstants() map[defs.TypeRef]GoType {
	m := map[defs.TypeRef]GoType{
		"int":          goInt,
		"int *":        ptr(goInt),
		"void *":       goPointer,
		"char **":      ptr(ptr(goChar)),
		"char ***":     ptr(ptr(ptr(goChar))),
		"MPI_Offset":   abiType("Offset"),
		"MPI_Fint *":   ptr(abiType("Fint")),
		"MPI_Status *": ptr(abiType("Status")),
	}
	for _, h := range handles {
		m[defs.TypeRef("MPI_"+h)] = abiType(h)
	}
	for _, cb := range []string{
		"MPI_Comm_copy_attr_function",
		"MPI_Comm_delete_attr_function",
		"MPI_Copy_function",
		"MPI_Datarep_conversion_function",
		"MPI_Delete_function",
		"MPI_Type_copy_attr_function",
		"MPI_Type_delete_attr_function",
		"MPI_Win_copy_attr_function",
		"MPI_Win_delete_attr_function",
	} {
		m[defs.TypeRef(cb+" *")] = callbackType(cb)
	}
	return m
}

// Table is a read-only snapshot of the mapping tables.
type Table struct {
	Primary   map[defs.TypeRef]GoType
	Constants map[defs.TypeRef]GoType
	Callbacks []Callback
}

// Tables returns copies of all tables.
func Tables() Table {
	t := Table{
		Primary:   make(map[defs.TypeRef]GoType, len(primary)),
		Constants: make(map[defs.TypeRef]GoType, len(constants)),
		Callbacks: Callbacks(),
	}
	for k, v := range primary {
		t.Primary[k] = v
	}
	for k, v := range constants {
		t.Constants[k] = v
	}
	return t
}
