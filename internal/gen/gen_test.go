package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"slices"
	"strings"
	"testing"

	"mpirt/internal/defs"
	"mpirt/internal/diag"
	"mpirt/internal/naming"
	"mpirt/internal/typemap"
)

func mustDefs(t *testing.T, fns []defs.FunctionSignature, consts []defs.ConstantDecl) *defs.Definitions {
	t.Helper()
	d, err := defs.New("test.toml", fns, consts)
	if err != nil {
		t.Fatalf("defs.New: %v", err)
	}
	return d
}

var timers = []defs.FunctionSignature{
	{Name: "MPI_Wtime", Return: "double"},
	{Name: "MPI_Wtick", Return: "double"},
}

func sampleDefs(t *testing.T) *defs.Definitions {
	fns := append(slices.Clone(timers), defs.FunctionSignature{
		Name:   "MPI_Send",
		Return: "int",
		Params: []defs.Param{
			{Type: "const void *", Name: "buf"},
			{Type: "int", Name: "count"},
			{Type: "MPI_Datatype", Name: "datatype"},
			{Type: "int", Name: "dest"},
			{Type: "int", Name: "tag"},
			{Type: "MPI_Comm", Name: "comm"},
		},
	}, defs.FunctionSignature{
		Name:   "MPI_Op_create",
		Return: "int",
		Params: []defs.Param{
			{Type: "MPI_User_function *", Name: "user_fn"},
			{Type: "int", Name: "commute"},
			{Type: "MPI_Op *", Name: "op"},
		},
	})
	return mustDefs(t, fns, []defs.ConstantDecl{
		{Name: "MPI_COMM_WORLD", Type: "MPI_Comm"},
		{Name: "MPI_SESSION_NULL", Type: "MPI_Session"},
		{Name: "MPI_C_FLOAT_COMPLEX", Type: "MPI_Datatype"},
		{Name: "MPI_STATUS_IGNORE", Type: "MPI_Status *"},
	})
}

type parsedUnit struct {
	file  *ast.File
	funcs map[string]*ast.FuncDecl
	src   string
}

func parseUnit(t *testing.T, res *Result, kind UnitKind) parsedUnit {
	t.Helper()
	unit, ok := res.Unit(kind)
	if !ok {
		t.Fatalf("no %s unit", kind)
	}
	if unit.Path != kind.FileName() {
		t.Fatalf("%s path = %q", kind, unit.Path)
	}
	file, err := parser.ParseFile(token.NewFileSet(), unit.Path, unit.Content, parser.ParseComments)
	if err != nil {
		t.Fatalf("%s does not parse: %v\n%s", kind, err, unit.Content)
	}
	p := parsedUnit{file: file, funcs: make(map[string]*ast.FuncDecl), src: string(unit.Content)}
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil {
			p.funcs[fn.Name.Name] = fn
		}
	}
	return p
}

// params returns "name type" pairs of fn in order.
func params(fn *ast.FuncDecl) []string {
	var out []string
	for _, field := range fn.Type.Params.List {
		for _, name := range field.Names {
			out = append(out, name.Name+" "+types.ExprString(field.Type))
		}
	}
	return out
}

// squash collapses whitespace so checks survive gofmt alignment.
func squash(s string) string { return strings.Join(strings.Fields(s), " ") }

func results(fn *ast.FuncDecl) string {
	if fn.Type.Results == nil {
		return ""
	}
	var out []string
	for _, field := range fn.Type.Results.List {
		out = append(out, types.ExprString(field.Type))
	}
	return strings.Join(out, ", ")
}

func imports(f *ast.File) []string {
	var out []string
	for _, imp := range f.Imports {
		s := imp.Path.Value
		if imp.Name != nil {
			s = imp.Name.Name + " " + s
		}
		out = append(out, s)
	}
	return out
}

func TestGenerateFunctions(t *testing.T) {
	res, err := Generate(context.Background(), sampleDefs(t), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Units) != 3 {
		t.Fatalf("units = %d, want 3", len(res.Units))
	}
	u := parseUnit(t, res, FunctionBindings)
	if !strings.HasPrefix(u.src, "// Code generated by mpirt-gen from test.toml. DO NOT EDIT.") {
		t.Fatalf("missing generated header:\n%s", u.src)
	}
	if u.file.Name.Name != "mpi" {
		t.Fatalf("package = %s", u.file.Name.Name)
	}
	if got, want := imports(u.file), []string{`"unsafe"`, `"mpirt/abi"`, `"mpirt/rt"`}; !slices.Equal(got, want) {
		t.Fatalf("imports = %v, want %v", got, want)
	}

	send := u.funcs["MPI_Send"]
	if send == nil {
		t.Fatalf("MPI_Send not emitted:\n%s", u.src)
	}
	wantParams := []string{
		"buf unsafe.Pointer", "count int32", "datatype abi.Datatype",
		"dest int32", "tag int32", "comm abi.Comm",
	}
	if got := params(send); !slices.Equal(got, wantParams) || results(send) != "int32" {
		t.Fatalf("MPI_Send signature = %v -> %s", got, results(send))
	}
	wantCell := `var fnMPI_Send = rt.LazyFunc[func(buf unsafe.Pointer, count int32, datatype abi.Datatype, dest int32, tag int32, comm abi.Comm) int32]("MPI_Send")`
	if !strings.Contains(squash(u.src), wantCell) {
		t.Fatalf("cache cell missing:\n%s", u.src)
	}
	if !strings.Contains(u.src, "return fnMPI_Send()(buf, count, datatype, dest, tag, comm)") {
		t.Fatalf("call does not forward arguments in order:\n%s", u.src)
	}

	wtime := u.funcs["MPI_Wtime"]
	if wtime == nil || len(params(wtime)) != 0 || results(wtime) != "float64" {
		t.Fatalf("MPI_Wtime not emitted as func() float64")
	}
	if got := params(u.funcs["MPI_Op_create"]); got[0] != "user_fn MPI_User_function" || got[2] != "op *abi.Op" {
		t.Fatalf("MPI_Op_create params = %v", got)
	}
	if res.Stats.Functions != 4 {
		t.Fatalf("stats = %+v", res.Stats)
	}
}

func TestGenerateConstants(t *testing.T) {
	bag := diag.NewBag(16)
	res, err := Generate(context.Background(), sampleDefs(t), Options{Reporter: &diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	u := parseUnit(t, res, ConstantBindings)

	for name, want := range map[string]string{
		"RSMPI_COMM_WORLD":                    "abi.Comm",
		"RSMPI_COMM_WORLD_fn":                 "abi.Comm",
		"RSMPI_C_FLOAT_COMPLEX_fn":            "abi.Datatype",
		"RSMPI_FLOAT_COMPLEX":                 "abi.Datatype",
		"RSMPI_FLOAT_COMPLEX_fn":              "abi.Datatype",
		"RSMPI_STATUS_IGNORE":                 "*abi.Status",
		"RSMPI_MAX_LIBRARY_VERSION_STRING":    "int32",
		"RSMPI_MAX_LIBRARY_VERSION_STRING_fn": "int32",
		"RSMPI_MAX_PROCESSOR_NAME_fn":         "int32",
		"RSMPI_Wtime":                         "float64",
		"RSMPI_Wtick":                         "float64",
	} {
		fn := u.funcs[name]
		if fn == nil {
			t.Errorf("%s not emitted", name)
			continue
		}
		if got := results(fn); got != want {
			t.Errorf("%s returns %s, want %s", name, got, want)
		}
	}
	for _, absent := range []string{"RSMPI_SESSION_NULL", "RSMPI_SESSION_NULL_fn", "RSMPI_Wtime_fn", "RSMPI_DOUBLE_COMPLEX"} {
		if u.funcs[absent] != nil {
			t.Errorf("%s should not be emitted", absent)
		}
	}

	for _, want := range []string{
		`commWorld: rt.ReadValue[abi.Comm](lib, "MPIABI_COMM_WORLD")`,
		`var extraMaxProcessorName = rt.LazyValue[int32]("MPIABI_MAX_PROCESSOR_NAME")`,
		`// MPI_SESSION_NULL skipped: no value mapping for "MPI_Session"`,
		`func RSMPI_Wtime() float64 { return MPI_Wtime() }`,
		`func RSMPI_FLOAT_COMPLEX_fn() abi.Datatype { return RSMPI_C_FLOAT_COMPLEX_fn() }`,
	} {
		if !strings.Contains(squash(u.src), want) {
			t.Errorf("constants.go lacks %q", want)
		}
	}
	if strings.Count(u.src, "rt.Aggregate(") != 1 {
		t.Errorf("expected exactly one aggregate cell:\n%s", u.src)
	}

	if res.Stats.Constants != 3 || res.Stats.Skipped != 1 || res.Stats.Aliases != 1 || res.Stats.Extras != 4 {
		t.Fatalf("stats = %+v", res.Stats)
	}
	var skipped, dangling int
	for _, d := range bag.Items() {
		switch d.Code {
		case diag.TypConstantSkipped:
			skipped++
			if d.Symbol != "MPI_SESSION_NULL" || d.Source != "test.toml" {
				t.Errorf("skip diagnostic = %+v", d)
			}
		case diag.GenDanglingAlias:
			dangling++
		}
	}
	if skipped != 1 || dangling != 3 || len(res.Diagnostics) != 4 {
		t.Fatalf("diagnostics: skipped=%d dangling=%d total=%d", skipped, dangling, len(res.Diagnostics))
	}
}

func TestGenerateCallbacks(t *testing.T) {
	res, err := Generate(context.Background(), sampleDefs(t), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	u := parseUnit(t, res, CallbackTypeAliases)
	var declared []string
	for _, decl := range u.file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			if types.ExprString(ts.Type) != "uintptr" {
				t.Errorf("%s is %s, want uintptr", ts.Name.Name, types.ExprString(ts.Type))
			}
			declared = append(declared, ts.Name.Name)
		}
	}
	if len(declared) != len(typemap.Callbacks()) {
		t.Fatalf("declared %d callback types, want %d", len(declared), len(typemap.Callbacks()))
	}
	ctor := u.funcs["NewMPI_User_function"]
	if ctor == nil || results(ctor) != "MPI_User_function" {
		t.Fatalf("constructor missing:\n%s", u.src)
	}
	if got := types.ExprString(ctor.Type.Params.List[0].Type); got != "func(invec unsafe.Pointer, inoutvec unsafe.Pointer, len *int32, datatype *abi.Datatype)" {
		t.Fatalf("constructor param = %s", got)
	}
	if !strings.Contains(u.src, "func (f MPI_Comm_copy_attr_function) IsNull() bool { return f == 0 }") {
		t.Fatalf("IsNull missing:\n%s", u.src)
	}
}

func TestReservedParamNamesKeepOrder(t *testing.T) {
	d := mustDefs(t, append(slices.Clone(timers), defs.FunctionSignature{
		Name:   "MPI_Example",
		Return: "void",
		Params: []defs.Param{
			{Type: "MPI_Datatype", Name: "type"},
			{Type: "int", Name: "range"},
			{Type: "void *", Name: "rt"},
			{Type: "int", Name: "count"},
		},
	}), nil)
	res, err := Generate(context.Background(), d, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	u := parseUnit(t, res, FunctionBindings)
	fn := u.funcs["MPI_Example"]
	want := []string{"type_ abi.Datatype", "range_ int32", "rt_ unsafe.Pointer", "count int32"}
	if got := params(fn); !slices.Equal(got, want) {
		t.Fatalf("params = %v, want %v", got, want)
	}
	if results(fn) != "" {
		t.Fatalf("void function has results %q", results(fn))
	}
	if !strings.Contains(squash(u.src), "{ fnMPI_Example()(type_, range_, rt_, count) }") {
		t.Fatalf("void call not emitted as a statement:\n%s", u.src)
	}
}

func TestUnknownTypeFailsWholeGeneration(t *testing.T) {
	tests := []struct {
		name   string
		param  defs.TypeRef
		reason error
	}{
		{"unknown", "long double", typemap.ErrUnknownType},
		{"unregistered callback", "MPI_Session_errhandler_function *", typemap.ErrUnregisteredCallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDefs(t, append(slices.Clone(timers), defs.FunctionSignature{
				Name: "MPI_Bad", Return: "int", Params: []defs.Param{{Type: "int", Name: "ok"}, {Type: tt.param, Name: "x"}},
			}), nil)
			bag := diag.NewBag(8)
			res, err := Generate(context.Background(), d, Options{Reporter: &diag.BagReporter{Bag: bag}})
			if res != nil {
				t.Fatalf("partial result returned: %+v", res.Stats)
			}
			if !errors.Is(err, tt.reason) || !errors.Is(err, typemap.ErrUnknownType) {
				t.Fatalf("err = %v, want %v", err, tt.reason)
			}
			var symErr *SymbolError
			if !errors.As(err, &symErr) || symErr.Symbol != "MPI_Bad" || symErr.Where != "parameter 2 (x)" {
				t.Fatalf("err = %#v", err)
			}
			if !strings.Contains(err.Error(), string(tt.param)) {
				t.Fatalf("error does not name the type: %v", err)
			}
			if !bag.HasErrors() {
				t.Fatalf("error not reported")
			}
		})
	}
}

func manyParams(n int) defs.FunctionSignature {
	fn := defs.FunctionSignature{Name: "MPI_Wide", Return: "int"}
	for i := range n {
		fn.Params = append(fn.Params, defs.Param{Type: "int", Name: fmt.Sprintf("a%d", i)})
	}
	return fn
}

func TestGenerateAcceptsParamLimit(t *testing.T) {
	fns := append(slices.Clone(timers), manyParams(MaxParams))
	res, err := Generate(context.Background(), mustDefs(t, fns, nil), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	u, _ := res.Unit(FunctionBindings)
	if !strings.Contains(string(u.Content), "a14 int32") {
		t.Fatalf("functions.go:\n%s", u.Content)
	}
}

func TestTooManyParamsDiagnostic(t *testing.T) {
	_, err := Generate(context.Background(), mustDefs(t, []defs.FunctionSignature{manyParams(MaxParams + 1)}, nil), Options{})
	var se *SymbolError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v", err)
	}
	if d := se.Diagnostic(); d.Code != diag.GenTooManyParams || d.Symbol != "MPI_Wide" {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestGenerateErrors(t *testing.T) {
	send := defs.FunctionSignature{Name: "MPI_Barrier", Return: "int", Params: []defs.Param{{Type: "MPI_Comm", Name: "comm"}}}
	tests := []struct {
		name   string
		fns    []defs.FunctionSignature
		consts []defs.ConstantDecl
		opts   Options
		want   error
	}{
		{
			name: "extra without its function",
			fns:  []defs.FunctionSignature{send},
			want: ErrDanglingExtra,
		},
		{
			name:   "strict constants",
			fns:    timers,
			consts: []defs.ConstantDecl{{Name: "MPI_SESSION_NULL", Type: "MPI_Session"}},
			opts:   Options{StrictConstants: true},
			want:   ErrUnmappedConstant,
		},
		{
			name:   "field collision",
			fns:    timers,
			consts: []defs.ConstantDecl{{Name: "MPI_A_B", Type: "int"}, {Name: "MPI_A__B", Type: "int"}},
			want:   ErrDuplicateSymbol,
		},
		{
			name:   "constant shadows an extra",
			fns:    timers,
			consts: []defs.ConstantDecl{{Name: "MPI_MAX_PROCESSOR_NAME", Type: "int"}},
			want:   ErrDuplicateSymbol,
		},
		{
			name: "extra of unmapped type",
			fns:  timers,
			opts: Options{Extras: []Extra{{Name: "MPI_VERSION_REAL", Type: "double"}}},
			want: ErrUnmappedConstant,
		},
		{
			name: "bad package name",
			fns:  timers,
			opts: Options{Package: "mpi-bindings"},
			want: ErrInvalidIdentifier,
		},
		{
			name: "more parameters than a native call takes",
			fns:  append(slices.Clone(timers), manyParams(MaxParams+1)),
			want: ErrTooManyParams,
		},
		{
			name: "function name is not an identifier",
			fns:  append(slices.Clone(timers), defs.FunctionSignature{Name: "MPI_Send-c", Return: "int"}),
			want: ErrInvalidIdentifier,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Generate(context.Background(), mustDefs(t, tt.fns, tt.consts), tt.opts)
			if res != nil || !errors.Is(err, tt.want) {
				t.Fatalf("Generate = %v, %v; want %v", res, err, tt.want)
			}
		})
	}
}

func TestGenerateOptions(t *testing.T) {
	d := sampleDefs(t)
	res, err := Generate(context.Background(), d, Options{
		Package:         "mpibind",
		ABIImport:       "example.com/hpc/mpiabi",
		RTImport:        "example.com/hpc/rt",
		FunctionSymbols: SymbolsABI,
		Overrides:       []naming.Override{{Alias: "WORLD", Target: "COMM_WORLD"}},
		Extras:          []Extra{},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	fu := parseUnit(t, res, FunctionBindings)
	if fu.file.Name.Name != "mpibind" {
		t.Fatalf("package = %s", fu.file.Name.Name)
	}
	if got, want := imports(fu.file), []string{`"unsafe"`, `abi "example.com/hpc/mpiabi"`, `"example.com/hpc/rt"`}; !slices.Equal(got, want) {
		t.Fatalf("imports = %v, want %v", got, want)
	}
	if !strings.Contains(fu.src, `("MPIABI_Send")`) {
		t.Fatalf("abi namespace not used:\n%s", fu.src)
	}

	cu := parseUnit(t, res, ConstantBindings)
	if cu.funcs["RSMPI_WORLD_fn"] == nil || cu.funcs["RSMPI_FLOAT_COMPLEX"] != nil || cu.funcs["RSMPI_Wtime"] != nil {
		t.Fatalf("overrides or extras not applied:\n%s", cu.src)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	d := defs.Default()
	first, err := Generate(context.Background(), d, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(context.Background(), d, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := range first.Units {
		if !bytes.Equal(first.Units[i].Content, second.Units[i].Content) {
			t.Fatalf("%s differs between runs", first.Units[i].Kind)
		}
	}
}

func TestGenerateDefaultDefinitions(t *testing.T) {
	d := defs.Default()
	res, err := Generate(context.Background(), d, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, kind := range []UnitKind{FunctionBindings, ConstantBindings, CallbackTypeAliases} {
		parseUnit(t, res, kind)
	}
	if res.Stats.Functions != d.NumFunctions() {
		t.Fatalf("functions = %d, want %d", res.Stats.Functions, d.NumFunctions())
	}
	if res.Stats.Constants+res.Stats.Skipped != d.NumConstants() {
		t.Fatalf("constants %d + skipped %d != %d", res.Stats.Constants, res.Stats.Skipped, d.NumConstants())
	}
	if res.Stats.Aliases != len(naming.DefaultOverrides) || res.Stats.Callbacks != 17 {
		t.Fatalf("stats = %+v", res.Stats)
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, defs.Default(), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
