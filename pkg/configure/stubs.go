// pkg/configure/stubs.go
package configure

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/neonkingfr/slepc/pkg/packages"
)

// fortranStubs regenerates the Fortran interface stubs of a repository
// checkout. Release tarballs ship them pregenerated, so only repos
// with a Fortran compiler enter here. The bfort binary comes from
// PETSc when it has one, otherwise sowing is built locally.
func (c *configurer) fortranStubs(ctx context.Context) error {
	env := &packages.Env{
		Petsc:   c.conf,
		Fetcher: c.fetcher,
		Pins:    c.pins,
		Log:     c.lg,
		ArchDir: c.dirs.Arch,
	}

	bfort := c.conf.Bfort
	if c.opts.Sowing.Requested() {
		var err error
		if bfort, err = c.opts.Sowing.Install(ctx, env); err != nil {
			return c.fatal(nil, err.Error())
		}
	}

	if c.tree.Repo.IsRepo && c.conf.FC != "" {
		c.lg.NewSection("Generating Fortran stubs...")
		if !fileExists(bfort) {
			bfort = filepath.Join(c.dirs.Arch, "bin", "bfort")
		}
		if !fileExists(bfort) {
			var err error
			if bfort, err = c.opts.Sowing.Install(ctx, env); err != nil {
				return c.fatal(nil, "cannot generate Fortran stubs; try configuring PETSc with --download-sowing: "+err.Error())
			}
		}
		generator := filepath.Join(c.slepcdir, "bin", "maint", "generatefortranstubs.py")
		cmd := exec.CommandContext(ctx, generator, bfort)
		cmd.Dir = c.slepcdir
		out, err := cmd.CombinedOutput()
		c.lg.Write(string(out))
		if err != nil {
			return c.fatal(nil, "cannot generate Fortran stubs; try configuring PETSc with --download-sowing: "+err.Error())
		}
	}

	if bfort != c.conf.Bfort {
		if err := c.vars.Set("BFORT", bfort); err != nil {
			return c.fatal(ErrArtifact, err.Error())
		}
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
