package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrManifestExists = errors.New("manifest already exists")

// DefaultManifest is the manifest init writes for package pkg.
func DefaultManifest(pkg string) string {
	return fmt.Sprintf(`# mpirt-gen project manifest
[generate]
# definitions = "defs/mpiabi.toml"
output = "%[1]s"
package = "%[1]s"
abi_import = "mpirt/abi"
rt_import = "mpirt/rt"
function_symbols = "raw"
strict_constants = false
tags = []

# [[alias]]
# alias = "FLOAT_COMPLEX"
# target = "C_FLOAT_COMPLEX"

# [[extra]]
# name = "MPI_MAX_OBJECT_NAME"
# type = "int"
`, pkg)
}

// WriteDefault creates dir/mpirt.toml. It refuses to overwrite an existing
// manifest.
func WriteDefault(dir, pkg string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	manifestPath := filepath.Join(dir, ManifestName)
	f, err := os.OpenFile(manifestPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrManifestExists, manifestPath)
		}
		return "", err
	}
	if _, err := f.WriteString(DefaultManifest(pkg)); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return manifestPath, f.Close()
}
