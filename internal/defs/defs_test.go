package defs

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const sampleDefs = `
[[function]]
name = "MPI_Wtime"
return = "double"
tag = "mpi"
params = []

[[function]]
name = "MPI_Send"
return = "int"
tag = "mpi"
params = [
  { type = "const void *", name = "buf" },
  { type = "int", name = "count" },
  { type = "MPI_Datatype", name = "datatype" },
]

[[function]]
name = "MPI_Send_c"
return = "int"
tag = "mpi_c"
params = [
  { type = "const void *", name = "buf" },
  { type = "MPI_Count", name = "count" },
]

[[constant]]
name = "MPI_COMM_WORLD"
type = "MPI_Comm"

[[constant]]
name = "MPI_ANY_TAG"
type = "int"
`

func TestParsePreservesOrder(t *testing.T) {
	d, err := Parse([]byte(sampleDefs), "sample.toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var names []string
	for _, fn := range d.Functions() {
		names = append(names, fn.Name)
	}
	if want := []string{"MPI_Wtime", "MPI_Send", "MPI_Send_c"}; !slices.Equal(names, want) {
		t.Fatalf("functions = %v, want %v", names, want)
	}
	send, ok := d.Function("MPI_Send")
	if !ok {
		t.Fatalf("MPI_Send missing")
	}
	wantParams := []Param{{"const void *", "buf"}, {"int", "count"}, {"MPI_Datatype", "datatype"}}
	if !slices.Equal(send.Params, wantParams) || send.Return != "int" {
		t.Fatalf("MPI_Send = %+v", send)
	}
	if c := d.Constants(); len(c) != 2 || c[0].Name != "MPI_COMM_WORLD" || c[1].Type != "int" {
		t.Fatalf("constants = %+v", c)
	}
	if d.Source() != "sample.toml" {
		t.Fatalf("source = %q", d.Source())
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	d, err := Parse([]byte(sampleDefs), "sample.toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fns := d.Functions()
	fns[1].Params[0].Name = "clobbered"
	fns[0].Name = "MPI_Other"
	if fn, _ := d.Function("MPI_Send"); fn.Params[0].Name != "buf" {
		t.Fatalf("params aliased: %+v", fn.Params)
	}
	if _, ok := d.Function("MPI_Wtime"); !ok {
		t.Fatalf("functions aliased")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		fns    []FunctionSignature
		consts []ConstantDecl
		want   []error
	}{
		{
			name: "missing prefix",
			fns:  []FunctionSignature{{Name: "PMPI_Send", Return: "int"}},
			want: []error{ErrMissingPrefix},
		},
		{
			name:   "duplicate function and constant",
			fns:    []FunctionSignature{{Name: "MPI_Init", Return: "int"}, {Name: "MPI_Init", Return: "int"}},
			consts: []ConstantDecl{{Name: "MPI_INT", Type: "MPI_Datatype"}, {Name: "MPI_INT", Type: "MPI_Datatype"}},
			want:   []error{ErrDuplicateName, ErrDuplicateName},
		},
		{
			name: "empty param name and type",
			fns:  []FunctionSignature{{Name: "MPI_Barrier", Return: "int", Params: []Param{{Type: "MPI_Comm"}, {Name: "x"}}}},
			want: []error{ErrEmptyName, ErrEmptyType},
		},
		{
			name:   "empty constant type",
			consts: []ConstantDecl{{Name: "MPI_ROOT"}},
			want:   []error{ErrEmptyType},
		},
		{
			name: "nothing at all",
			want: []error{ErrNoDefinitions},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("t.toml", tt.fns, tt.consts)
			if err == nil {
				t.Fatalf("expected error")
			}
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("error %v does not match %v", err, want)
				}
			}
			if tt.name != "nothing at all" {
				if got := len(Diagnostics(err)); got != len(tt.want) {
					t.Errorf("diagnostics = %d, want %d", got, len(tt.want))
				}
			}
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	src := "[[function]]\nname = \"MPI_Init\"\nreturn = \"int\"\nreturns = \"int\"\n"
	_, err := Parse([]byte(src), "typo.toml")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
	if !strings.Contains(err.Error(), "returns") {
		t.Fatalf("error does not name the key: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.toml")
	if err := os.WriteFile(path, []byte(sampleDefs), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.NumFunctions() != 3 || d.NumConstants() != 2 {
		t.Fatalf("counts = %d/%d", d.NumFunctions(), d.NumConstants())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
}

func TestFilterAndTypeRefs(t *testing.T) {
	d, err := Parse([]byte(sampleDefs), "sample.toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := d.Filter(nil); got != d {
		t.Fatalf("empty filter should return the receiver")
	}
	large := d.Filter([]string{"mpi_c"})
	if large.NumFunctions() != 1 || large.NumConstants() != 2 {
		t.Fatalf("filtered counts = %d/%d", large.NumFunctions(), large.NumConstants())
	}

	want := []TypeRef{"double", "int", "const void *", "MPI_Datatype", "MPI_Count", "MPI_Comm"}
	if got := d.TypeRefs(); !slices.Equal(got, want) {
		t.Fatalf("TypeRefs = %q, want %q", got, want)
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d != Default() {
		t.Fatalf("Default is not memoized")
	}
	for _, name := range []string{"MPI_Init", "MPI_Wtime", "MPI_Wtick", "MPI_Barrier", "MPI_Bcast", "MPI_Op_create"} {
		if _, ok := d.Function(name); !ok {
			t.Errorf("embedded definitions lack %s", name)
		}
	}
	for _, name := range []string{"MPI_COMM_WORLD", "MPI_INT", "MPI_C_FLOAT_COMPLEX", "MPI_STATUS_IGNORE"} {
		if _, ok := d.Constant(name); !ok {
			t.Errorf("embedded definitions lack %s", name)
		}
	}
	wtime, _ := d.Function("MPI_Wtime")
	if wtime.Return != "double" || len(wtime.Params) != 0 {
		t.Fatalf("MPI_Wtime = %+v", wtime)
	}
}
