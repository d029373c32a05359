// pkg/packages/trlan.go
package packages

import (
	"context"
	"fmt"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Trlan detects the TRLAN thick-restart Lanczos eigensolver, which
// exists only for real scalars.
type Trlan struct {
	external
}

func NewTrlan() *Trlan {
	return &Trlan{external{name: "trlan", guessName: "Trlan"}}
}

func (t *Trlan) Process(ctx context.Context, env *Env) (*probe.Outcome, error) {
	if !t.Requested() {
		return nil, nil
	}
	t.beginCheck(env.Log)

	if env.Petsc.Scalar != "real" {
		return nil, fmt.Errorf("TRLAN is not available for %s scalars", env.Petsc.Scalar)
	}

	libsets := [][]string{{"-ltrlan_mpi"}}
	if env.Petsc.MPIUni {
		libsets = [][]string{{"-ltrlan"}}
	}

	return t.resolve(ctx, env, &probe.Descriptor{
		Name:        t.name,
		LibrarySets: libsets,
		Functions:   []string{"trlan77"},
	})
}
