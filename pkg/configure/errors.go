// pkg/configure/errors.go
package configure

import "errors"

var (
	// ErrEnvironment indicates a missing or invalid SLEPC_DIR,
	// PETSC_DIR or PETSC_ARCH setup.
	ErrEnvironment = errors.New("invalid environment")

	// ErrIncompatible indicates the PETSc installation cannot host
	// this SLEPc version.
	ErrIncompatible = errors.New("incompatible PETSc configuration")

	// ErrArtifact indicates a build artifact could not be written.
	ErrArtifact = errors.New("cannot write configuration file")
)
