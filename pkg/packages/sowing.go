// pkg/packages/sowing.go
package packages

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/neonkingfr/slepc/pkg/probe"
)

// Sowing downloads and builds the sowing tools. Its bfort binary
// generates Fortran stubs for repository checkouts; it contributes no
// library, so it sits outside the probe loop.
type Sowing struct {
	download
}

func NewSowing() *Sowing {
	return &Sowing{download{name: "sowing"}}
}

// Process is a no-op. The driver calls Install when stub generation
// needs a bfort that PETSc did not provide.
func (s *Sowing) Process(ctx context.Context, env *Env) (*probe.Outcome, error) {
	return nil, nil
}

// Install builds sowing under the arch directory and returns the path
// of the resulting bfort binary.
func (s *Sowing) Install(ctx context.Context, env *Env) (string, error) {
	env.Log.Write(strings.Repeat("=", 80))
	env.Log.Println("Installing SOWING...")

	root, err := s.fetchSource(ctx, env)
	if err != nil {
		return "", err
	}

	conf := exec.CommandContext(ctx, "./configure", "--prefix="+env.ArchDir)
	conf.Dir = root
	out, err := conf.CombinedOutput()
	env.Log.Write(string(out))
	if err != nil {
		return "", fmt.Errorf("configuring sowing: %w", err)
	}

	build := env.Petsc.MakeCommand(ctx, root)
	out, err = build.CombinedOutput()
	env.Log.Write(string(out))
	if err != nil {
		return "", fmt.Errorf("building sowing: %w", err)
	}

	install := env.Petsc.MakeCommand(ctx, root, "install")
	out, err = install.CombinedOutput()
	env.Log.Write(string(out))
	if err != nil {
		return "", fmt.Errorf("installing sowing: %w", err)
	}

	bfort := filepath.Join(env.ArchDir, "bin", "bfort")
	if _, err := os.Stat(bfort); err != nil {
		return "", fmt.Errorf("sowing install did not produce %s", bfort)
	}
	return bfort, nil
}
