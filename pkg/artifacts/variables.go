// pkg/artifacts/variables.go
// Package artifacts writes the build outputs a configure run leaves
// behind: make fragments, the configuration header, CMake glue, the
// environment module, the pkg-config entry and the run report.
package artifacts

import (
	"fmt"
	"os"
)

// Variables writes a make variable fragment, one assignment per line
// in the order the assignments arrive.
type Variables struct {
	f *os.File
}

// CreateVariables opens a variables fragment at path.
func CreateVariables(path string) (*Variables, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &Variables{f: f}, nil
}

// Set writes one assignment.
func (v *Variables) Set(key, value string) error {
	if _, err := fmt.Fprintf(v.f, "%s = %s\n", key, value); err != nil {
		return fmt.Errorf("writing %s: %w", v.f.Name(), err)
	}
	return nil
}

// Close releases the underlying file.
func (v *Variables) Close() error {
	return v.f.Close()
}
