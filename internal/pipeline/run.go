// Package pipeline loads definitions, renders the bindings and writes them
// next to a stamp.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mpirt/internal/defs"
	"mpirt/internal/gen"
	"mpirt/internal/observ"
	"mpirt/internal/stamp"
	"mpirt/internal/trace"
)

// ErrNoOutput is returned when Request.OutputDir is empty.
var ErrNoOutput = errors.New("no output directory")

type Request struct {
	// Definitions is a definitions file; empty selects the embedded set.
	Definitions string
	Tags        []string
	OutputDir   string
	Options     gen.Options
	// Tool is the generator version recorded in the stamp.
	Tool string
	// Force rewrites files even when the stamp says they are current.
	Force    bool
	Jobs     int
	Progress ProgressSink
}

type Result struct {
	Defs *defs.Definitions
	Gen  *gen.Result
	// Written lists the files replaced, in unit order. Empty when UpToDate.
	Written  []string
	UpToDate bool
	// Reason explains why the files were rewritten.
	Reason  string
	Timings observ.Report
}

// Files are the file names a run produces, in unit order.
func Files() []string {
	return []string{
		gen.FunctionBindings.FileName(),
		gen.ConstantBindings.FileName(),
		gen.CallbackTypeAliases.FileName(),
	}
}

// Run loads, renders and writes. Nothing is written unless every unit
// rendered.
func Run(ctx context.Context, req *Request) (result Result, err error) {
	if req == nil {
		return result, fmt.Errorf("missing generate request")
	}
	if req.OutputDir == "" {
		return result, ErrNoOutput
	}
	timer := observ.NewTimer()
	defer func() { result.Timings = timer.Report() }()

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "generate")
	defer span.End("")

	files := Files()
	emitStage(req.Progress, files, StageLoad, StatusQueued, nil, 0)

	phase := timer.Begin(string(StageLoad))
	emitStage(req.Progress, nil, StageLoad, StatusWorking, nil, 0)
	d, err := LoadDefinitions(ctx, req.Definitions, req.Tags)
	elapsed := timer.End(phase, "")
	if err != nil {
		emitStage(req.Progress, files, StageLoad, StatusError, err, elapsed)
		return result, err
	}
	result.Defs = d
	emitStage(req.Progress, nil, StageLoad, StatusDone, nil, elapsed)

	phase = timer.Begin(string(StageEmit))
	emitStage(req.Progress, files, StageEmit, StatusWorking, nil, 0)
	res, err := gen.Generate(ctx, d, req.Options)
	if err != nil {
		elapsed = timer.End(phase, "failed")
		emitStage(req.Progress, files, StageEmit, StatusError, err, elapsed)
		return result, err
	}
	result.Gen = res
	elapsed = timer.End(phase, fmt.Sprintf("%d functions, %d constants", res.Stats.Functions, res.Stats.Constants))
	emitStage(req.Progress, files, StageEmit, StatusDone, nil, elapsed)

	names := make([]string, len(res.Units))
	contents := make([][]byte, len(res.Units))
	for i, u := range res.Units {
		names[i], contents[i] = u.Path, u.Content
	}
	want, err := stamp.New(req.Tool, d.Source(), names, contents)
	if err != nil {
		return result, err
	}

	if !req.Force {
		fresh, reason, err := stamp.Fresh(req.OutputDir, want)
		if err != nil {
			return result, err
		}
		if fresh {
			result.UpToDate = true
			emitStage(req.Progress, files, StageWrite, StatusSkipped, nil, 0)
			trace.Point(ctx, trace.ScopePass, "write", "up to date")
			return result, nil
		}
		result.Reason = reason
	} else {
		result.Reason = "forced"
	}

	phase = timer.Begin(string(StageWrite))
	written, err := writeUnits(ctx, req, res.Units)
	timer.End(phase, fmt.Sprintf("%d files", len(written)))
	result.Written = written
	if err != nil {
		return result, err
	}

	phase = timer.Begin(string(StageStamp))
	err = stamp.Write(req.OutputDir, want)
	elapsed = timer.End(phase, want.Digest.Short())
	if err != nil {
		err = fmt.Errorf("failed to write stamp: %w", err)
		emitStage(req.Progress, nil, StageStamp, StatusError, err, elapsed)
		return result, err
	}
	emitStage(req.Progress, nil, StageStamp, StatusDone, nil, elapsed)
	return result, nil
}

// LoadDefinitions reads path (or the embedded set) and keeps the tagged
// functions.
func LoadDefinitions(ctx context.Context, path string, tags []string) (*defs.Definitions, error) {
	_, span := trace.Start(ctx, trace.ScopePass, "load")
	d := defs.Default()
	if path != "" {
		var err error
		if d, err = defs.Load(path); err != nil {
			span.End("failed")
			return nil, err
		}
	}
	d = d.Filter(tags)
	span.WithExtra("functions", fmt.Sprint(d.NumFunctions())).End("")
	return d, nil
}

func writeUnits(ctx context.Context, req *Request, units []gen.Unit) ([]string, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "write")
	defer span.End("")

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// indexes are unique per goroutine
	done := make([]bool, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))
	for i, u := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			emitFile(req.Progress, u.Path, StageWrite, StatusWorking, nil, 0)
			target := filepath.Join(req.OutputDir, u.Path)
			if err := stamp.WriteFileAtomic(target, u.Content); err != nil {
				err = fmt.Errorf("failed to write %s: %w", target, err)
				emitFile(req.Progress, u.Path, StageWrite, StatusError, err, time.Since(start))
				return err
			}
			done[i] = true
			emitFile(req.Progress, u.Path, StageWrite, StatusDone, nil, time.Since(start))
			trace.Point(gctx, trace.ScopeUnit, u.Path, fmt.Sprintf("%d bytes", len(u.Content)))
			return nil
		})
	}
	err := g.Wait()

	var written []string
	for i, u := range units {
		if done[i] {
			written = append(written, filepath.Join(req.OutputDir, u.Path))
		}
	}
	return written, err
}
