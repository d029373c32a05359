// slepc.go
// Package slepc is the configuration front-end for a SLEPc source
// tree. It re-exports the pieces external tooling needs: the configure
// driver, the package catalog and the probe result types.
package slepc

import (
	"context"

	"github.com/neonkingfr/slepc/pkg/configure"
	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/packages"
	"github.com/neonkingfr/slepc/pkg/probe"
)

// Re-export the probe result types for convenience
type (
	Options    = configure.Options
	Package    = packages.Package
	Descriptor = probe.Descriptor
	Outcome    = probe.Outcome
	Mangling   = probe.Mangling
	LogConfig  = logging.Config
)

// Re-export the Fortran mangling schemes
const (
	Underscore = probe.Underscore
	Caps       = probe.Caps
	Stdcall    = probe.Stdcall
)

// Catalog returns the external packages in processing order.
func Catalog() []Package {
	return packages.Catalog()
}

// Configure performs one configuration pass with the given options,
// routing diagnostics through lg. A nil lg gets the default console
// setup and nil opts the default catalog.
func Configure(ctx context.Context, lg *logging.Log, opts *Options) error {
	if lg == nil {
		lg = logging.New(nil)
	}
	return configure.Run(ctx, lg, opts)
}
