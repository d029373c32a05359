// pkg/registry/registry.go
// Package registry pins the downloadable external packages to their
// upstream releases.
package registry

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed manifest.toml
var manifest []byte

// Pin is one downloadable package release. Mirrors are alternative
// locations tried in order when the primary URL is unreachable.
type Pin struct {
	Version string   `toml:"version"`
	Dirname string   `toml:"dirname"`
	URL     string   `toml:"url"`
	Mirrors []string `toml:"mirrors"`
	SHA256  string   `toml:"sha256"`
}

// Registry resolves package names to their pinned releases.
type Registry struct {
	pins map[string]Pin
}

// Load parses the embedded manifest.
func Load() (*Registry, error) {
	pins := make(map[string]Pin)
	if err := toml.Unmarshal(manifest, &pins); err != nil {
		return nil, fmt.Errorf("registry: parsing manifest: %w", err)
	}
	return &Registry{pins: pins}, nil
}

// Lookup returns the pin for name.
func (r *Registry) Lookup(name string) (Pin, error) {
	pin, ok := r.pins[strings.ToLower(name)]
	if !ok {
		return Pin{}, fmt.Errorf("registry: package %q not pinned", name)
	}
	return pin, nil
}

// Names lists the pinned packages in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pins))
	for name := range r.pins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
