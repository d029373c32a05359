// pkg/artifacts/report.go
package artifacts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Report is the machine-readable record of one configure run.
type Report struct {
	Timestamp    string          `yaml:"timestamp"`
	SlepcDir     string          `yaml:"slepc_dir"`
	SlepcVersion string          `yaml:"slepc_version"`
	PetscDir     string          `yaml:"petsc_dir"`
	PetscVersion string          `yaml:"petsc_version"`
	Arch         string          `yaml:"arch"`
	Prefix       string          `yaml:"prefix"`
	Precision    string          `yaml:"precision"`
	Scalar       string          `yaml:"scalar"`
	Packages     []PackageReport `yaml:"packages,omitempty"`
}

// PackageReport records how one package was resolved.
type PackageReport struct {
	Name     string   `yaml:"name"`
	Found    bool     `yaml:"found"`
	Dir      string   `yaml:"dir,omitempty"`
	Flags    []string `yaml:"flags,omitempty"`
	Mangling string   `yaml:"mangling,omitempty"`
	Missing  []string `yaml:"missing,omitempty"`
}

// WriteReport saves the run report as YAML.
func WriteReport(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by a previous run.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}
