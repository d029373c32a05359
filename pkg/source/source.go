// pkg/source/source.go
// Package source describes the SLEPc source tree being configured.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neonkingfr/slepc/pkg/petsc"
)

// Tree is the SLEPc checkout the configure run operates on.
type Tree struct {
	Dir     string
	Version petsc.Version
	Repo    petsc.Repo

	// Prefix is the requested installation prefix; empty for in-tree
	// builds, where it later defaults to the arch directory.
	Prefix string

	// DataDir points at the developer test datafiles, when available.
	DataDir string
}

// Load reads the tree metadata at dir.
func Load(ctx context.Context, dir string) (*Tree, error) {
	v, err := petsc.ReadVersionHeader(filepath.Join(dir, "include", "slepcversion.h"), "SLEPC")
	if err != nil {
		return nil, fmt.Errorf("%s is not a SLEPc source tree: %w", dir, err)
	}
	return &Tree{
		Dir:     dir,
		Version: v,
		Repo:    petsc.LoadRepo(ctx, dir),
	}, nil
}

// IsInstall reports whether the build targets an installation prefix
// outside the source tree.
func (t *Tree) IsInstall() bool {
	return t.Prefix != ""
}

// Valid reports whether dir looks like a SLEPc source tree.
func Valid(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "include", "slepcversion.h"))
	return err == nil
}
