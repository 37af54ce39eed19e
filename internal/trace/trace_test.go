package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDetail, ScopeSymbol, false},
		{LevelDebug, ScopeSymbol, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamSpansThroughContext(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, pass := Start(ctx, ScopePass, "emit")
	_, unit := Start(ctx, ScopeUnit, "unit:functions.go")
	unit.WithExtra("functions", "3").End("")
	_, sym := Start(ctx, ScopeSymbol, "MPI_Send")
	sym.End("")
	pass.End("ok")

	out := buf.String()
	for _, want := range []string{"→ emit", "→ unit:functions.go", "← unit:functions.go", "{functions=3}", "← emit (ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "MPI_Send") {
		t.Errorf("symbol scope leaked at detail level:\n%s", out)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(3, LevelPhase)
	for _, name := range []string{"a", "b", "c", "d"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	snap := ring.Snapshot()
	if len(snap) != 3 || snap[0].Name != "b" || snap[2].Name != "d" {
		t.Fatalf("snapshot = %+v", snap)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("dump lines = %d", len(lines))
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("ndjson: %v", err)
	}
	if first["name"] != "b" || first["scope"] != "pass" {
		t.Fatalf("first event = %v", first)
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off tracer = %v, %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok || multi.Ring() == nil {
		t.Fatalf("ModeBoth tracer = %T", tr)
	}
	Begin(tr, ScopeDriver, "generate", 0).End("")
	if len(multi.Ring().Snapshot()) != 2 || buf.Len() == 0 {
		t.Fatalf("events not fanned out")
	}

	if _, err := ParseMode("tape"); err == nil {
		t.Fatalf("ParseMode accepted garbage")
	}
	if lvl, err := ParseLevel(" Detail "); err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", lvl, err)
	}
}
