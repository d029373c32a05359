// errors.go
package slepc

import (
	"github.com/neonkingfr/slepc/pkg/configure"
	"github.com/neonkingfr/slepc/pkg/probe"
)

var (
	// ErrEnvironment indicates a missing or invalid SLEPC_DIR,
	// PETSC_DIR or PETSC_ARCH setup.
	ErrEnvironment = configure.ErrEnvironment

	// ErrIncompatible indicates the PETSc installation cannot host
	// this SLEPc version.
	ErrIncompatible = configure.ErrIncompatible

	// ErrArtifact indicates a build artifact could not be written.
	ErrArtifact = configure.ErrArtifact
)

// SearchError reports that a required package could not be linked
// with any directory, library set and mangling combination.
type SearchError = probe.SearchError
