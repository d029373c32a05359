// pkg/petsc/git.go
package petsc

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo describes the git checkout a source tree came from; zero when
// the tree is not a repository or git is unavailable.
type Repo struct {
	IsRepo bool
	Rev    string
	Date   string
	Branch string
}

// LoadRepo collects the revision metadata of the checkout at dir.
func LoadRepo(ctx context.Context, dir string) Repo {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return Repo{}
	}
	return Repo{
		IsRepo: true,
		Rev:    gitOutput(ctx, dir, "log", "-1", "--pretty=format:%H"),
		Date:   gitOutput(ctx, dir, "log", "-1", "--pretty=format:%ci"),
		Branch: gitOutput(ctx, dir, "describe", "--contains", "--all", "HEAD"),
	}
}

func gitOutput(ctx context.Context, dir string, args ...string) string {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
