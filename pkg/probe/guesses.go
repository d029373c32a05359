// pkg/probe/guesses.go
package probe

import (
	"os"
	"path/filepath"
	"strings"
)

// Guesses returns the candidate directories for a package, derived
// from the configured installation prefixes and the name's case
// variants. Only directories that exist survive, and the empty string
// heads the list so the bare system search path is tried first.
func (p *Prober) Guesses(name string) []string {
	var candidates []string
	for _, prefix := range p.prefixes {
		candidates = append(candidates, filepath.Join(prefix, "lib"))
		for _, d := range []string{name, strings.ToUpper(name), strings.ToLower(name)} {
			candidates = append(candidates,
				filepath.Join(prefix, d),
				filepath.Join(prefix, d, "lib"),
				filepath.Join(prefix, "lib", d))
		}
	}
	dirs := []string{""}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			dirs = append(dirs, c)
		}
	}
	return dirs
}
