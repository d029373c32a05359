// pkg/packages/blzpack.go
package packages

import (
	"context"
	"fmt"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Blzpack detects the BLZPACK block Lanczos eigensolver. The library
// only ships real single and double precision drivers.
type Blzpack struct {
	external
}

func NewBlzpack() *Blzpack {
	return &Blzpack{external{name: "blzpack", guessName: "Blzpack"}}
}

func (b *Blzpack) Process(ctx context.Context, env *Env) (*probe.Outcome, error) {
	if !b.Requested() {
		return nil, nil
	}
	b.beginCheck(env.Log)

	if env.Petsc.Scalar == "complex" {
		return nil, fmt.Errorf("BLZPACK is not available for complex scalars")
	}
	var driver string
	switch env.Petsc.Precision {
	case "single":
		driver = "blzdrs"
	case "double":
		driver = "blzdrd"
	default:
		return nil, fmt.Errorf("BLZPACK does not support %s precision", env.Petsc.Precision)
	}

	return b.resolve(ctx, env, &probe.Descriptor{
		Name:        b.name,
		LibrarySets: [][]string{{"-lblzpack"}},
		Functions:   []string{driver},
	})
}
