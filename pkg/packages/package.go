// pkg/packages/package.go
// Package packages implements the catalog of optional external
// packages a configure run can detect on the system, download and
// build, or verify inside the host toolchain.
package packages

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"github.com/neonkingfr/slepc/pkg/fetch"
	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/petsc"
	"github.com/neonkingfr/slepc/pkg/probe"
	"github.com/neonkingfr/slepc/pkg/registry"
	"github.com/neonkingfr/slepc/pkg/source"
)

// Env bundles what a package needs to resolve itself.
type Env struct {
	Petsc   *petsc.Conf
	Slepc   *source.Tree
	Prober  *probe.Prober
	Fetcher *fetch.Fetcher
	Pins    *registry.Registry
	Log     *logging.Log
	ArchDir string
}

// Package is one catalog entry. Flags are registered before parsing;
// Process resolves the package and returns its outcome, or nil when
// the package was not requested.
type Package interface {
	Name() string
	RegisterFlags(fs *pflag.FlagSet)
	Requested() bool
	Process(ctx context.Context, env *Env) (*probe.Outcome, error)
	ShowHelp(w io.Writer)
	ShowInfo(lg *logging.Log)
}

// Downloader is implemented by packages installed from upstream
// releases; the driver prefetches their archives concurrently before
// the sequential package pass.
type Downloader interface {
	PrefetchRequest(pins *registry.Registry) (fetch.Request, error)
}

// Catalog returns the packages in processing order. LAPACK runs last
// so its warnings land after the optional solvers are settled.
func Catalog() []Package {
	return []Package{
		NewArpack(),
		NewBlopex(),
		NewBlzpack(),
		NewFeast(),
		NewPrimme(),
		NewTrlan(),
		NewLapack(),
	}
}
