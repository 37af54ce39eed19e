// Package stamp records what was last generated into an output directory so
// an unchanged run can leave the files alone.
package stamp

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"mpirt/internal/project"
)

// FileName is the stamp file inside the output directory.
const FileName = ".mpirt-stamp"

// increment when Stamp changes shape
const schemaVersion uint16 = 1

var (
	// ErrSchema is returned by Read for a stamp written by another schema.
	ErrSchema = errors.New("stamp schema mismatch")
	// ErrCorrupt is returned by Read when the stamp does not decode.
	ErrCorrupt = errors.New("stamp unreadable")
)

type File struct {
	Name string
	Sum  project.Digest
}

type Stamp struct {
	Schema uint16
	// Tool is the generator version that wrote the files.
	Tool string
	// Source names the definitions the files came from.
	Source string
	// Digest covers Tool and every file in order.
	Digest project.Digest
	Files  []File
}

// New builds the stamp for contents, keyed by file name in the given order.
func New(tool, source string, names []string, contents [][]byte) (*Stamp, error) {
	if len(names) != len(contents) {
		return nil, fmt.Errorf("stamp: %d names for %d files", len(names), len(contents))
	}
	s := &Stamp{Schema: schemaVersion, Tool: tool, Source: source}
	sums := make([]project.Digest, 0, len(names))
	for i, name := range names {
		sum := project.Sum(contents[i])
		s.Files = append(s.Files, File{Name: name, Sum: sum})
		sums = append(sums, project.Sum([]byte(name)), sum)
	}
	s.Digest = project.Combine(project.Sum([]byte(tool)), sums...)
	return s, nil
}

// Read loads dir's stamp. ok is false when there is none.
func Read(dir string) (s *Stamp, ok bool, err error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	s = new(Stamp)
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(s); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrCorrupt, FileName, err)
	}
	if s.Schema != schemaVersion {
		return nil, false, fmt.Errorf("%w: have %d, want %d", ErrSchema, s.Schema, schemaVersion)
	}
	return s, true, nil
}

// Write replaces dir's stamp atomically.
func Write(dir string, s *Stamp) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(s)
	if err != nil {
		return err
	}
	return WriteFileAtomic(filepath.Join(dir, FileName), data)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place.
func WriteFileAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Fresh reports whether dir already holds exactly what want describes: the
// recorded stamp has the same digest and every file on disk still hashes to
// its recorded sum. reason explains a false result.
func Fresh(dir string, want *Stamp) (fresh bool, reason string, err error) {
	have, ok, err := Read(dir)
	switch {
	case errors.Is(err, ErrSchema):
		return false, err.Error(), nil
	case errors.Is(err, ErrCorrupt):
		return false, ErrCorrupt.Error(), nil
	}
	if err != nil {
		return false, "", err
	}
	if !ok {
		return false, "no stamp", nil
	}
	if have.Digest != want.Digest {
		return false, "inputs changed", nil
	}
	for _, f := range have.Files {
		data, err := os.ReadFile(filepath.Join(dir, f.Name))
		if errors.Is(err, os.ErrNotExist) {
			return false, f.Name + " is missing", nil
		}
		if err != nil {
			return false, "", err
		}
		if project.Sum(data) != f.Sum {
			return false, f.Name + " was edited", nil
		}
	}
	return true, "", nil
}
