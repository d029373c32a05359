// pkg/petsc/petsc.go
// Package petsc loads the configuration of an existing PETSc
// installation: make variables, compile-time defines, version and
// repository metadata.
package petsc

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Conf is the PETSc configuration a SLEPc build runs against.
type Conf struct {
	Dir  string
	Arch string

	Make          string
	MakeIsGNUMake bool
	CC            string
	CCFlags       string
	FC            string
	SLFlag        string
	Precision     string
	Scalar        string
	DestDir       string
	Bfort         string
	TestRuns      string
	ARLibSuffix   string

	// IsInstall reports a prefix installation, recognized by an empty
	// PETSC_ARCH environment variable.
	IsInstall bool

	MPIUni          bool
	SingleLib       bool
	BuildUsingCMake bool

	Version Version
	Repo    Repo

	envArch string
}

// Load reads the PETSc configuration rooted at dir. The arch comes
// from the PETSC_ARCH environment variable; prefix installations leave
// it empty and record their arch name in petscvariables instead.
func Load(ctx context.Context, dir string) (*Conf, error) {
	c := &Conf{Dir: dir, envArch: os.Getenv("PETSC_ARCH")}
	c.Arch = c.envArch
	c.IsInstall = c.envArch == ""

	if err := c.loadVariables(); err != nil {
		return nil, err
	}
	if err := c.loadDefines(); err != nil {
		return nil, err
	}
	v, err := ReadVersionHeader(filepath.Join(dir, "include", "petscversion.h"), "PETSC")
	if err != nil {
		return nil, err
	}
	c.Version = v
	c.Repo = LoadRepo(ctx, dir)
	return c, nil
}

// Check verifies that a program links against the installation by
// running an empty trial: no extra symbols, no extra flags.
func (c *Conf) Check(ctx context.Context, p *probe.Prober) (probe.LinkResult, error) {
	return p.TryLink(ctx, nil, nil, nil)
}

// MakeCommand builds an invocation of the host make tool in dir. The
// MAKE variable may carry embedded arguments.
func (c *Conf) MakeCommand(ctx context.Context, dir string, args ...string) *exec.Cmd {
	fields := strings.Fields(c.Make)
	if len(fields) == 0 {
		fields = []string{"make"}
	}
	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], args...)...)
	cmd.Dir = dir
	return cmd
}

// VariablesInclude returns the static variables fragment that trial
// makefiles include; it pulls the generated petscvariables itself.
func (c *Conf) VariablesInclude() string {
	return c.confFile("variables")
}

// RulesInclude returns the static rules fragment with the pattern
// rules for compiling trial sources.
func (c *Conf) RulesInclude() string {
	return c.confFile("rules")
}

// confFile resolves a static conf fragment, preferring the modern
// lib/petsc/conf layout over the legacy conf directory.
func (c *Conf) confFile(name string) string {
	candidates := []string{
		filepath.Join(c.Dir, "lib", "petsc", "conf", name),
		filepath.Join(c.Dir, "conf", name),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return candidates[0]
}
