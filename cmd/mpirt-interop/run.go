package main

import (
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/fatih/color"
)

// MPI_SUCCESS is zero in every ABI.
const mpiSuccess = 0

type callError struct {
	Fn   string
	Code int32
}

func (e *callError) Error() string { return fmt.Sprintf("%s failed with error code %d", e.Fn, e.Code) }

func check(fn string, code int32) error {
	if code != mpiSuccess {
		return &callError{Fn: fn, Code: code}
	}
	return nil
}

func safecastLen(buf []int32) (int32, error) {
	n, err := safecast.Conv[int32](len(buf))
	if err != nil {
		return 0, fmt.Errorf("broadcast of %d elements: %w", len(buf), err)
	}
	return n, nil
}

// run performs barrier, broadcast from root, barrier.
func run(out io.Writer, w world, value, root int) (err error) {
	value32, err := safecast.Conv[int32](value)
	if err != nil {
		return fmt.Errorf("--value: %w", err)
	}
	root32, err := safecast.Conv[int32](root)
	if err != nil {
		return fmt.Errorf("--root: %w", err)
	}

	if err := w.init(); err != nil {
		return err
	}
	defer func() {
		if ferr := w.finalize(); err == nil {
			err = ferr
		}
	}()

	rank, err := w.rank()
	if err != nil {
		return err
	}
	size, err := w.size()
	if err != nil {
		return err
	}
	if root32 < 0 || root32 >= size {
		return fmt.Errorf("--root %d outside MPI_COMM_WORLD of size %d", root, size)
	}
	fmt.Fprintf(out, "[Go rank %d] MPI_COMM_WORLD size = %d\n", rank, size)
	if err := w.barrier(); err != nil {
		return err
	}

	buf := []int32{0}
	if rank == root32 {
		buf[0] = value32
	}
	if err := w.bcastInt(buf, root32); err != nil {
		return err
	}
	if buf[0] != value32 {
		return fmt.Errorf("rank %d: broadcast value mismatch: got %d, want %d", rank, buf[0], value32)
	}
	fmt.Fprintf(out, "[Go rank %d] broadcast received: %d\n", rank, buf[0])

	if err := w.barrier(); err != nil {
		return err
	}
	if rank == root32 {
		fmt.Fprintf(out, "[Go rank %d] interop test %s\n", rank, color.GreenString("PASSED"))
	}
	return nil
}
