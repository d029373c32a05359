// pkg/packages/arpack.go
package packages

import (
	"context"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Arpack detects the ARPACK reverse-communication eigensolver. When
// PETSc carries a real MPI the parallel PARPACK entry points and
// library names are probed instead of the serial ones.
type Arpack struct {
	external
}

func NewArpack() *Arpack {
	return &Arpack{external{name: "arpack", guessName: "Arpack"}}
}

func (a *Arpack) Process(ctx context.Context, env *Env) (*probe.Outcome, error) {
	if !a.Requested() {
		return nil, nil
	}
	a.beginCheck(env.Log)

	var functions []string
	if env.Petsc.Scalar == "real" {
		if env.Petsc.Precision == "single" {
			functions = []string{"snaupd", "sneupd", "ssaupd", "sseupd"}
		} else {
			functions = []string{"dnaupd", "dneupd", "dsaupd", "dseupd"}
		}
	} else {
		if env.Petsc.Precision == "single" {
			functions = []string{"cnaupd", "cneupd"}
		} else {
			functions = []string{"znaupd", "zneupd"}
		}
	}

	var libsets [][]string
	if env.Petsc.MPIUni {
		libsets = [][]string{
			{"-larpack"},
			{"-larpack_LINUX"},
			{"-larpack_SUN4"},
		}
	} else {
		for i := range functions {
			functions[i] = "p" + functions[i]
		}
		libsets = [][]string{
			{"-lparpack", "-larpack"},
			{"-lparpack_MPI", "-larpack"},
			{"-lparpack_MPI-LINUX", "-larpack_LINUX"},
			{"-lparpack_MPI-SUN4", "-larpack_SUN4"},
		}
	}

	return a.resolve(ctx, env, &probe.Descriptor{
		Name:        a.name,
		LibrarySets: libsets,
		Functions:   functions,
	})
}
