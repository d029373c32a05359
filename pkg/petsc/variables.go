// pkg/petsc/variables.go
package petsc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// variablesPath locates the generated petscvariables file for the
// installation, preferring the modern lib/petsc/conf layout.
func (c *Conf) variablesPath() (string, error) {
	base := c.Dir
	if c.envArch != "" {
		base = filepath.Join(c.Dir, c.envArch)
	}
	candidates := []string{
		filepath.Join(base, "lib", "petsc", "conf", "petscvariables"),
		filepath.Join(base, "conf", "petscvariables"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("petscvariables not found under %s", base)
}

// loadVariables parses the petscvariables make fragment. The file is
// a flat list of assignments, which the ini reader handles once '='
// is the only delimiter.
func (c *Conf) loadVariables() error {
	path, err := c.variablesPath()
	if err != nil {
		return err
	}
	f, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:  "=",
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	sec := f.Section("")
	get := func(key string) string {
		return strings.TrimSpace(sec.Key(key).String())
	}

	c.Make = get("MAKE")
	if c.Make == "" {
		c.Make = "make"
	}
	c.MakeIsGNUMake = get("MAKE_IS_GNUMAKE") == "1"
	c.CC = get("CC")
	c.CCFlags = get("CC_FLAGS")
	c.FC = get("FC")
	c.SLFlag = get("CC_LINKER_SLFLAG")
	c.Precision = get("PETSC_PRECISION")
	c.Scalar = get("PETSC_SCALAR")
	c.Bfort = get("BFORT")
	c.TestRuns = get("TEST_RUNS")
	c.ARLibSuffix = get("AR_LIB_SUFFIX")
	if c.ARLibSuffix == "" {
		c.ARLibSuffix = "a"
	}
	c.DestDir = get("DESTDIR")
	if c.DestDir == "" {
		c.DestDir = c.Dir
	}
	if c.Arch == "" {
		c.Arch = get("PETSC_ARCH")
	}
	if c.Arch == "" {
		c.Arch = "petsc"
	}
	return nil
}

// definesPath locates the generated petscconf.h header.
func (c *Conf) definesPath() (string, error) {
	base := c.Dir
	if c.envArch != "" {
		base = filepath.Join(c.Dir, c.envArch)
	}
	p := filepath.Join(base, "include", "petscconf.h")
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("petscconf.h not found under %s", base)
	}
	return p, nil
}

// loadDefines scans petscconf.h for the feature macros that change how
// SLEPc is configured.
func (c *Conf) loadDefines() error {
	path, err := c.definesPath()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	defines := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "#define" {
			continue
		}
		value := "1"
		if len(fields) > 2 {
			value = strings.Join(fields[2:], " ")
		}
		defines[fields[1]] = value
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	has := func(name string) bool {
		_, ok := defines[name]
		return ok
	}
	c.MPIUni = has("PETSC_HAVE_MPIUNI")
	c.SingleLib = has("PETSC_USE_SINGLE_LIBRARY")
	c.BuildUsingCMake = has("PETSC_BUILD_USING_CMAKE")
	if has("PETSC_MAKE_IS_GNUMAKE") {
		c.MakeIsGNUMake = true
	}

	// petscvariables wins when both sources name the scalar type.
	if c.Precision == "" {
		switch {
		case has("PETSC_USE_REAL_SINGLE"):
			c.Precision = "single"
		case has("PETSC_USE_REAL___FLOAT128"):
			c.Precision = "__float128"
		default:
			c.Precision = "double"
		}
	}
	if c.Scalar == "" {
		if has("PETSC_USE_COMPLEX") {
			c.Scalar = "complex"
		} else {
			c.Scalar = "real"
		}
	}
	return nil
}
