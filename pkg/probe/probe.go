// pkg/probe/probe.go
// Package probe implements external-library detection: trial
// compile+link runs against candidate directories, library sets and
// Fortran name-mangling schemes, stopping at the first combination
// that links.
package probe

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a single link trial.
const DefaultTimeout = 60 * time.Second

// Config controls a Prober.
type Config struct {
	// Make is the host build tool invocation, usually the PETSc MAKE
	// variable. Extra arguments may be embedded ("gmake -s").
	Make string

	// SLFlag is the shared-linker path flag syntax (CC_LINKER_SLFLAG).
	SLFlag string

	// Dir is the trial directory holding the checklink makefile.
	Dir string

	// Prefixes are the installation roots scanned by Guesses.
	// Defaults to $HOME, /usr/local and /opt.
	Prefixes []string

	// Timeout bounds one link trial. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Trace receives debug lines.
	Trace *log.Logger
}

// Prober runs link trials for a configure pass.
type Prober struct {
	make     []string
	slflag   string
	dir      string
	prefixes []string
	timeout  time.Duration
	trace    *log.Logger
}

// New returns a Prober for cfg, filling defaults for unset fields.
func New(cfg *Config) *Prober {
	if cfg == nil {
		cfg = &Config{}
	}
	p := &Prober{
		slflag:   cfg.SLFlag,
		dir:      cfg.Dir,
		prefixes: cfg.Prefixes,
		timeout:  cfg.Timeout,
		trace:    cfg.Trace,
	}
	mk := cfg.Make
	if mk == "" {
		mk = "make"
	}
	p.make = strings.Fields(mk)
	if p.prefixes == nil {
		if home := os.Getenv("HOME"); home != "" {
			p.prefixes = append(p.prefixes, home)
		}
		p.prefixes = append(p.prefixes, "/usr/local", "/opt")
	}
	if p.timeout == 0 {
		p.timeout = DefaultTimeout
	}
	if p.trace == nil {
		p.trace = log.New(io.Discard, "", 0)
	}
	return p
}

// Setup prepares the trial directory with the makefile driving the
// checklink target. variables and rules are the host toolchain conf
// fragments to include. The recipe cleans up the trial binaries on
// both outcomes while still propagating the linker's exit status,
// which is the only signal TryLink has.
func (p *Prober) Setup(variables, rules string) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("creating trial directory: %w", err)
	}
	mk := "include " + variables + "\n" +
		"include " + rules + "\n\n" +
		"checklink: checklink.o\n" +
		"\t@${CLINKER} -o checklink checklink.o ${TESTFLAGS} ${PETSC_KSP_LIB}; st=$$?; ${RM} -f checklink checklink.o; exit $$st\n"
	if err := os.WriteFile(filepath.Join(p.dir, "makefile"), []byte(mk), 0o644); err != nil {
		return fmt.Errorf("writing trial makefile: %w", err)
	}
	return nil
}
