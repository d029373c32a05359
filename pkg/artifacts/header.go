// pkg/artifacts/header.go
package artifacts

import (
	"fmt"
	"os"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Header writes the slepcconf.h configuration header. Every define is
// wrapped in its own ifndef block so an installed header can coexist
// with an arch-specific one.
type Header struct {
	f *os.File
}

// CreateHeader opens the header at path and writes the include guard.
func CreateHeader(path string) (*Header, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	h := &Header{f: f}
	if err := h.raw("#if !defined(__SLEPCCONF_H)\n#define __SLEPCCONF_H\n\n"); err != nil {
		f.Close()
		return nil, err
	}
	return h, nil
}

func (h *Header) raw(s string) error {
	if _, err := h.f.WriteString(s); err != nil {
		return fmt.Errorf("writing %s: %w", h.f.Name(), err)
	}
	return nil
}

func (h *Header) define(name, value string) error {
	return h.raw("#ifndef " + name + "\n#define " + name + " " + value + "\n#endif\n\n")
}

// DefineGit records the repository revision the tree was configured
// from.
func (h *Header) DefineGit(rev, date string) error {
	if err := h.define("SLEPC_VERSION_GIT", fmt.Sprintf("%q", rev)); err != nil {
		return err
	}
	return h.define("SLEPC_VERSION_DATE_GIT", fmt.Sprintf("%q", date))
}

// DefineLibDir records where the built library will live.
func (h *Header) DefineLibDir(dir string) error {
	return h.define("SLEPC_LIB_DIR", fmt.Sprintf("%q", dir))
}

// Package records a resolved external package and, when one was
// detected, its Fortran mangling scheme.
func (h *Header) Package(name string, mangling probe.Mangling) error {
	block := "#ifndef SLEPC_HAVE_" + name + "\n#define SLEPC_HAVE_" + name + " 1\n"
	if mangling != probe.None {
		block += "#define SLEPC_" + name + "_HAVE_" + string(mangling) + " 1\n"
	}
	return h.raw(block + "#endif\n\n")
}

// MissingLapack records an optional LAPACK routine the host toolchain
// does not provide.
func (h *Header) MissingLapack(routine string) error {
	return h.define("SLEPC_MISSING_LAPACK_"+routine, "1")
}

// Close ends the include guard and releases the file.
func (h *Header) Close() error {
	werr := h.raw("#endif\n")
	cerr := h.f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
