// pkg/packages/lapack.go
package packages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/probe"
)

// lapackRoutines are the optional LAPACK entry points beyond the core
// set PETSc guarantees. Vendor libraries ship subsets, so each one is
// probed individually and absences become SLEPC_MISSING_LAPACK defines.
var lapackRoutines = []string{
	"gehrd", "lanhs", "lange", "getri", "hseqr", "trexc", "trevc", "tgexc",
	"geevx", "ggevx", "gelqf", "geqp3", "orghr", "orgqr", "stevr", "bdsdc",
}

// Lapack checks the LAPACK already linked into PETSc. It is not
// optional: the mangling it detects drives every Fortran library probe
// and SLEPc itself calls the routines checked here.
type Lapack struct {
	outcome *probe.Outcome
}

func NewLapack() *Lapack {
	return &Lapack{}
}

func (l *Lapack) Name() string { return "lapack" }

func (l *Lapack) RegisterFlags(fs *pflag.FlagSet) {}

func (l *Lapack) Requested() bool { return true }

func (l *Lapack) ShowHelp(w io.Writer) {}

// lapackPrefix returns the single-letter routine prefix matching the
// host scalar and precision configuration.
func lapackPrefix(scalar, precision string) string {
	if scalar == "complex" {
		switch precision {
		case "single":
			return "c"
		case "__float128":
			return "w"
		}
		return "z"
	}
	switch precision {
	case "single":
		return "s"
	case "__float128":
		return "q"
	}
	return "d"
}

func (l *Lapack) Process(ctx context.Context, env *Env) (*probe.Outcome, error) {
	env.Log.Write(strings.Repeat("=", 80))
	env.Log.Println("Checking LAPACK library...")

	prefix := lapackPrefix(env.Petsc.Scalar, env.Petsc.Precision)

	mangling, out, err := env.Prober.FortranLink(ctx, []string{prefix + "laev2"}, nil, nil)
	if err != nil {
		return nil, err
	}
	var transcript strings.Builder
	transcript.WriteString(out)
	if mangling == probe.None {
		env.Log.Write(transcript.String())
		return nil, fmt.Errorf("unable to link with the LAPACK library used by the host toolchain")
	}

	var missing []string
	for _, routine := range lapackRoutines {
		name := routine
		if env.Petsc.Scalar == "complex" && strings.HasPrefix(name, "or") {
			name = "un" + name[2:]
		}
		res, err := env.Prober.TryLink(ctx, []string{mangling.Apply(prefix + name)}, nil, nil)
		if err != nil {
			return nil, err
		}
		transcript.WriteString(res.Output)
		if !res.OK {
			missing = append(missing, routine)
		}
	}
	env.Log.Write(transcript.String())

	if len(missing) > 0 {
		env.Log.Warn("Missing LAPACK functions: " + strings.Join(missing, " ") +
			". Some SLEPc functionality will not be available." +
			" Please reconfigure and recompile PETSc with a full LAPACK implementation")
	}

	l.outcome = &probe.Outcome{
		Package:    l.Name(),
		Found:      true,
		Mangling:   mangling,
		Missing:    missing,
		Transcript: transcript.String(),
	}
	return l.outcome, nil
}

func (l *Lapack) ShowInfo(lg *logging.Log) {
	if l.outcome == nil || len(l.outcome.Missing) == 0 {
		return
	}
	lg.Println("LAPACK missing functions:")
	lg.Println("  " + strings.Join(l.outcome.Missing, " "))
}
