package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command. Flag values persist across calls, so each
// test passes every flag it relies on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color=off"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitGenerateCheck(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "init", "--package=mpibind")
	if err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	if !strings.Contains(out, "mpirt.toml") {
		t.Fatalf("init output:\n%s", out)
	}
	if _, err := execute(t, "init", "--package=mpibind"); err == nil {
		t.Fatalf("second init succeeded")
	}

	out, err = execute(t, "generate", "--ui=off", "--force=false")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "wrote 3 files in mpibind") {
		t.Fatalf("generate output:\n%s", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "mpibind", "functions.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("package mpibind")) {
		t.Fatalf("functions.go:\n%.200s", data)
	}

	out, err = execute(t, "generate", "--ui=off", "--force=false")
	if err != nil || !strings.Contains(out, "mpibind is up to date") {
		t.Fatalf("second generate = %v\n%s", err, out)
	}

	out, err = execute(t, "check", "--format=json", "--warnings-as-errors=false")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	var payload checkPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("check json: %v\n%s", err, out)
	}
	if payload.Errors != 0 || payload.Source != "embedded" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestCheckFailsOnUnknownType(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	p := filepath.Join(dir, "bad.toml")
	body := "[[function]]\nname = \"MPI_Bad\"\nreturn = \"long double\"\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "check", p, "--format=short", "--warnings-as-errors=false")
	if err == nil {
		t.Fatalf("check passed:\n%s", out)
	}
	if !strings.Contains(out, "error TYP2001") || !strings.Contains(out, "1 errors") {
		t.Fatalf("check output:\n%s", out)
	}
}

func TestGenerateWithoutManifest(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "generate", "--ui=off")
	if err == nil || !strings.Contains(err.Error(), "no mpirt.toml found") {
		t.Fatalf("err = %v", err)
	}
}

func TestTypesAndVersion(t *testing.T) {
	out, err := execute(t, "types", "--table=callbacks")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "callbacks (17)") || !strings.Contains(out, "MPI_User_function(") {
		t.Fatalf("types output:\n%s", out)
	}
	if _, err := execute(t, "types", "--table=nope"); err == nil {
		t.Fatalf("unknown table accepted")
	}

	out, err = execute(t, "version", "--format=json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil || payload.Tool != "mpirt-gen" {
		t.Fatalf("version json = %+v, %v\n%s", payload, err, out)
	}
	versionFormat = "pretty"
}

func TestWantProgressView(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		flag    string
		quiet   bool
		want    bool
		wantErr bool
	}{
		{"", false, false, false},
		{" ON ", false, true, false},
		{"on", true, false, false},
		{"off", false, false, false},
		{"auto", false, false, false},
		{"maybe", false, false, true},
	}
	for _, tt := range tests {
		got, err := wantProgressView(tt.flag, tt.quiet, &buf)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("wantProgressView(%q, %v) = %v, %v", tt.flag, tt.quiet, got, err)
		}
	}
}
