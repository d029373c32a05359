// pkg/configure/dirs.go
package configure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dirs holds the arch directory layout a configure run writes into.
type dirs struct {
	Arch      string // <slepcdir>/<archname>
	Lib       string // <arch>/lib
	Conf      string // <arch>/lib/slepc-conf
	Include   string // <arch>/include
	Modules   string // <arch>/lib/slepc-conf/modules/slepc
	PkgConfig string // <arch>/lib/pkgconfig

	// Existed reports whether the arch directory predates this run.
	Existed bool
}

// createDirs builds the arch directory tree under slepcdir.
func createDirs(slepcdir, archname string) (*dirs, error) {
	d := &dirs{Arch: filepath.Join(slepcdir, archname)}
	if _, err := os.Stat(d.Arch); err == nil {
		d.Existed = true
	}
	d.Lib = filepath.Join(d.Arch, "lib")
	d.Conf = filepath.Join(d.Lib, "slepc-conf")
	d.Include = filepath.Join(d.Arch, "include")
	d.Modules = filepath.Join(d.Conf, "modules", "slepc")
	d.PkgConfig = filepath.Join(d.Lib, "pkgconfig")
	for _, p := range []string{d.Conf, d.Include, d.Modules, d.PkgConfig} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create directory %s: %w", p, err)
		}
	}
	return d, nil
}

// remove deletes the whole arch directory for a clean reconfigure.
func (d *dirs) remove() error {
	if err := os.RemoveAll(d.Arch); err != nil {
		return fmt.Errorf("cannot remove existing directory %s: %w", d.Arch, err)
	}
	return nil
}

// externalPackageNames are the markers a previous slepcvariables file
// carries when it was configured with external packages.
var externalPackageNames = []string{"ARPACK", "BLZPACK", "TRLAN", "PRIMME", "FEAST", "BLOPEX"}

// hadExternalPackages reports whether the variables fragment of a
// previous run referenced any external package. A fresh run without
// those packages must start from a clean arch directory or the stale
// link lines would survive.
func hadExternalPackages(confdir string) bool {
	data, err := os.ReadFile(filepath.Join(confdir, "slepcvariables"))
	if err != nil {
		return false
	}
	content := string(data)
	for _, name := range externalPackageNames {
		if strings.Contains(content, name) {
			return true
		}
	}
	return false
}
