package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestTool(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	tests := []struct {
		version, commit, want string
	}{
		{"1.2.3", "", "mpirt-gen 1.2.3"},
		{"1.2.3", "abc123", "mpirt-gen 1.2.3+abc123"},
		{"  ", "", "mpirt-gen dev"},
	}
	for _, tt := range tests {
		Version, GitCommit = tt.version, tt.commit
		if got := Tool(); got != tt.want {
			t.Errorf("Tool() with %q/%q = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}

func TestColoredWithoutColor(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = origVersion, origNoColor })
	color.NoColor = true

	for _, v := range []string{"0.1.0-dev", "2.0.1", "3"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}
