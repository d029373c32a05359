// pkg/packages/primme.go
package packages

import (
	"context"
	"path/filepath"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Primme detects the PRIMME preconditioned eigensolver. PRIMME is a C
// library, so its symbols are probed without Fortran mangling, and a
// working install also needs its headers on the include path.
type Primme struct {
	external
}

func NewPrimme() *Primme {
	return &Primme{external{name: "primme", guessName: "Primme"}}
}

func (p *Primme) Process(ctx context.Context, env *Env) (*probe.Outcome, error) {
	if !p.Requested() {
		return nil, nil
	}
	p.beginCheck(env.Log)

	// libprimme reaches LAPACK through Fortran names fixed at its own
	// build time. Stub the routines its dense kernels pull in so the
	// trial does not hinge on the host LAPACK sharing that mangling.
	driver := "dprimme"
	callbacks := []string{"dlarnv_", "dpotrf_", "dsyev_"}
	if env.Petsc.Scalar == "complex" {
		driver = "zprimme"
		callbacks = []string{"zlarnv_", "zpotrf_", "zheev_"}
	}
	desc := &probe.Descriptor{
		Name:        p.name,
		LibrarySets: [][]string{{"-lprimme"}},
		Functions:   []string{"primme_set_method", "primme_initialize", "primme_Free", driver},
		Callbacks:   callbacks,
	}

	dirs, libsets := p.searchSpace(env.Prober, desc.LibrarySets)
	out, err := env.Prober.Search(ctx, desc, dirs, libsets)
	if err != nil {
		return nil, err
	}
	env.Log.Write(out.Transcript)
	if out.Dir != "" {
		out.IncludeDir = primmeInclude(out.Dir)
	}
	p.outcome = out
	return out, nil
}

// primmeInclude maps the winning library directory to the header
// directory of a conventional install layout.
func primmeInclude(dir string) string {
	if filepath.Base(dir) == "lib" {
		return filepath.Join(filepath.Dir(dir), "include")
	}
	return dir
}
