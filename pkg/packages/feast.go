// pkg/packages/feast.go
package packages

import (
	"context"
	"fmt"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Feast detects the FEAST contour-integral eigensolver. The reverse
// communication driver name encodes the scalar kind, so the probe
// picks the one matching the PETSc build.
type Feast struct {
	external
}

func NewFeast() *Feast {
	return &Feast{external{name: "feast", guessName: "Feast"}}
}

func (f *Feast) Process(ctx context.Context, env *Env) (*probe.Outcome, error) {
	if !f.Requested() {
		return nil, nil
	}
	f.beginCheck(env.Log)

	if env.Petsc.Precision == "__float128" {
		return nil, fmt.Errorf("FEAST does not support __float128 precision")
	}
	var driver string
	if env.Petsc.Scalar == "real" {
		driver = "dfeast_srci"
		if env.Petsc.Precision == "single" {
			driver = "sfeast_srci"
		}
	} else {
		driver = "zfeast_hrci"
		if env.Petsc.Precision == "single" {
			driver = "cfeast_hrci"
		}
	}

	return f.resolve(ctx, env, &probe.Descriptor{
		Name: f.name,
		LibrarySets: [][]string{
			{"-lfeast"},
			{"-lfeast_dense", "-lfeast_banded", "-lfeast_sparse", "-lfeast"},
		},
		Functions: []string{"feastinit", driver},
	})
}
