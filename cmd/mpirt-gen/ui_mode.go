package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// uiModes lists the accepted --ui values, the first being the default.
var uiModes = []string{"auto", "on", "off"}

// wantProgressView resolves --ui against the rest of the invocation. The
// bubbletea view only runs when output goes to a real terminal that can
// redraw in place; --quiet always wins.
func wantProgressView(flag string, quietRun bool, out io.Writer) (bool, error) {
	mode := strings.ToLower(strings.TrimSpace(flag))
	if mode == "" {
		mode = uiModes[0]
	}
	if !slices.Contains(uiModes, mode) {
		return false, fmt.Errorf("invalid --ui value %q (expected %s)", flag, strings.Join(uiModes, "|"))
	}
	if quietRun || mode == "off" {
		return false, nil
	}
	if mode == "on" {
		return true, nil
	}
	f, ok := out.(*os.File)
	if !ok || os.Getenv("TERM") == "dumb" {
		return false, nil
	}
	return isTerminal(f), nil
}
