package typemap

import (
	"slices"

	"mpirt/internal/defs"
)

// Callback is the signature of a C function pointer type the MPI API accepts.
type Callback struct {
	Name   string
	Params []defs.Param
	Return defs.TypeRef
}

// TypeRef is the spelling functions use to accept this callback.
func (c Callback) TypeRef() defs.TypeRef { return defs.TypeRef(c.Name + " *") }

func p(t defs.TypeRef, name string) defs.Param { return defs.Param{Type: t, Name: name} }

func copyAttr(handle defs.TypeRef, keyval string) []defs.Param {
	return []defs.Param{
		p(handle, "oldobj"), p("int", keyval), p("void *", "extra_state"),
		p("void *", "attribute_val_in"), p("void *", "attribute_val_out"), p("int *", "flag"),
	}
}

func deleteAttr(handle defs.TypeRef, keyval string) []defs.Param {
	return []defs.Param{
		p(handle, "obj"), p("int", keyval), p("void *", "attribute_val"), p("void *", "extra_state"),
	}
}

func errhandler(handle string) []defs.Param {
	return []defs.Param{p(defs.TypeRef(handle+" *"), "obj"), p("int *", "error_code")}
}

var callbacks = []Callback{
	{Name: "MPI_User_function", Return: "void", Params: []defs.Param{
		p("void *", "invec"), p("void *", "inoutvec"), p("int *", "len"), p("MPI_Datatype *", "datatype"),
	}},
	{Name: "MPI_Comm_copy_attr_function", Return: "int", Params: copyAttr("MPI_Comm", "comm_keyval")},
	{Name: "MPI_Comm_delete_attr_function", Return: "int", Params: deleteAttr("MPI_Comm", "comm_keyval")},
	{Name: "MPI_Comm_errhandler_function", Return: "void", Params: errhandler("MPI_Comm")},
	{Name: "MPI_Win_copy_attr_function", Return: "int", Params: copyAttr("MPI_Win", "win_keyval")},
	{Name: "MPI_Win_delete_attr_function", Return: "int", Params: deleteAttr("MPI_Win", "win_keyval")},
	{Name: "MPI_Win_errhandler_function", Return: "void", Params: errhandler("MPI_Win")},
	{Name: "MPI_Type_copy_attr_function", Return: "int", Params: copyAttr("MPI_Datatype", "type_keyval")},
	{Name: "MPI_Type_delete_attr_function", Return: "int", Params: deleteAttr("MPI_Datatype", "type_keyval")},
	{Name: "MPI_Copy_function", Return: "int", Params: copyAttr("MPI_Comm", "keyval")},
	{Name: "MPI_Delete_function", Return: "int", Params: deleteAttr("MPI_Comm", "keyval")},
	{Name: "MPI_File_errhandler_function", Return: "void", Params: errhandler("MPI_File")},
	{Name: "MPI_Grequest_query_function", Return: "int", Params: []defs.Param{
		p("void *", "extra_state"), p("MPI_Status *", "status"),
	}},
	{Name: "MPI_Grequest_free_function", Return: "int", Params: []defs.Param{p("void *", "extra_state")}},
	{Name: "MPI_Grequest_cancel_function", Return: "int", Params: []defs.Param{
		p("void *", "extra_state"), p("int", "complete"),
	}},
	{Name: "MPI_Datarep_conversion_function", Return: "int", Params: []defs.Param{
		p("void *", "userbuf"), p("MPI_Datatype", "datatype"), p("int", "count"),
		p("void *", "filebuf"), p("MPI_Offset", "position"), p("void *", "extra_state"),
	}},
	{Name: "MPI_Datarep_extent_function", Return: "int", Params: []defs.Param{
		p("MPI_Datatype", "datatype"), p("MPI_Aint *", "file_extent"), p("void *", "extra_state"),
	}},
}

// callbackTypes is derived from callbacks so every accepted callback type has
// a declaration to point at.
var callbackTypes = func() map[defs.TypeRef]GoType {
	m := make(map[defs.TypeRef]GoType, len(callbacks))
	for _, cb := range callbacks {
		m[cb.TypeRef()] = callbackType(cb.Name)
	}
	return m
}()

// Callbacks returns the registered callback signatures in declaration order.
func Callbacks() []Callback {
	out := make([]Callback, len(callbacks))
	for i, cb := range callbacks {
		cb.Params = slices.Clone(cb.Params)
		out[i] = cb
	}
	return out
}
