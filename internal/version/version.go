package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata. Overridden at build time via -ldflags.
var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored renders Version with major, minor and patch in their own colors.
// fatih/color drops the escapes when output is not a terminal.
func Colored() string {
	v := strings.TrimSpace(Version)
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", len(partColors))
	for i, p := range parts {
		parts[i] = partColors[i].Sprint(p)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Tool identifies the generator in stamps: the version plus the commit when
// one was recorded.
func Tool() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	if c := strings.TrimSpace(GitCommit); c != "" {
		v += "+" + c
	}
	return "mpirt-gen " + v
}
