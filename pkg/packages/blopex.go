// pkg/packages/blopex.go
package packages

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Blopex downloads and builds the BLOPEX locally optimal block
// preconditioned eigensolver, installing its static library and
// headers under the arch directory.
type Blopex struct {
	download
}

func NewBlopex() *Blopex {
	return &Blopex{download{name: "blopex"}}
}

func (b *Blopex) Process(ctx context.Context, env *Env) (*probe.Outcome, error) {
	if !b.Requested() {
		return nil, nil
	}
	env.Log.Write(strings.Repeat("=", 80))
	env.Log.Println("Installing BLOPEX...")

	root, err := b.fetchSource(ctx, env)
	if err != nil {
		return nil, err
	}

	buildDir := filepath.Join(root, "blopex_abstract")
	cmd := env.Petsc.MakeCommand(ctx, buildDir, "CC="+env.Petsc.CC, "CFLAGS="+env.Petsc.CCFlags)
	out, err := cmd.CombinedOutput()
	env.Log.Write(string(out))
	if err != nil {
		return nil, fmt.Errorf("building BLOPEX in %s: %w", buildDir, err)
	}

	libdir := filepath.Join(env.ArchDir, "lib")
	src := filepath.Join(buildDir, "lib", "libBLOPEX.a")
	if err := copyFile(src, filepath.Join(libdir, "libBLOPEX.a")); err != nil {
		return nil, fmt.Errorf("installing BLOPEX library: %w", err)
	}
	incdir := filepath.Join(env.ArchDir, "include", "blopex")
	if err := copyHeaders(buildDir, incdir); err != nil {
		return nil, fmt.Errorf("installing BLOPEX headers: %w", err)
	}

	flags := []string{"-L" + libdir, "-lBLOPEX"}
	res, err := env.Prober.TryLink(ctx, []string{"lobpcg_solve_double"}, nil, flags)
	if err != nil {
		return nil, err
	}
	env.Log.Write(res.Output)
	if !res.OK {
		return nil, fmt.Errorf("unable to link with downloaded BLOPEX")
	}

	b.outcome = &probe.Outcome{
		Package: b.name,
		Found:   true,
		Dir:     libdir,
		Libs:    []string{"-lBLOPEX"},
		Flags:   flags,
	}
	return b.outcome, nil
}
