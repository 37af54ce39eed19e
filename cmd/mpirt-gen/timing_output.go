package main

import (
	"fmt"
	"io"

	"mpirt/internal/observ"
)

func printTimings(out io.Writer, report observ.Report) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	if _, err := fmt.Fprint(out, report.String()); err != nil {
		panic(err)
	}
}
