// pkg/artifacts/cmake.go
package artifacts

import (
	"fmt"
	"os"
	"strings"
)

// CMake writes the SLEPcConfig.cmake fragment consumed by CMake
// builds.
type CMake struct {
	f *os.File
}

// CreateCMake opens the fragment at path.
func CreateCMake(path string) (*CMake, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &CMake{f: f}, nil
}

func (c *CMake) raw(s string) error {
	if _, err := c.f.WriteString(s); err != nil {
		return fmt.Errorf("writing %s: %w", c.f.Name(), err)
	}
	return nil
}

// Have marks a package as available.
func (c *CMake) Have(name string) error {
	return c.raw("set (SLEPC_HAVE_" + name + " YES)\n")
}

// FindPackage emits the find_library loop resolving each base library
// name against the directory the probe succeeded in.
func (c *CMake) FindPackage(name, dir string, libs []string) error {
	return c.raw("set (" + name + "_LIB \"\")\n" +
		"foreach (libname " + strings.Join(libs, " ") + ")\n" +
		"  string (TOUPPER ${libname} LIBNAME)\n" +
		"  find_library (${LIBNAME}LIB ${libname} HINTS " + dir + ")\n" +
		"  list (APPEND " + name + "_LIB \"${${LIBNAME}LIB}\")\n" +
		"endforeach()\n")
}

// Include records a package's header directory.
func (c *CMake) Include(name, dir string) error {
	return c.raw("set (" + name + "_INCLUDE \"" + dir + "\")\n")
}

// Summary emits the aggregate package lists and the PETSc library
// lookup with its split-library fallback.
func (c *CMake) Summary() error {
	return c.raw("set (SLEPC_PACKAGE_LIBS \"${ARPACK_LIB}\" \"${BLZPACK_LIB}\" \"${TRLAN_LIB}\" \"${PRIMME_LIB}\" \"${FEAST_LIB}\" \"${BLOPEX_LIB}\" )\n" +
		"set (SLEPC_PACKAGE_INCLUDES \"${PRIMME_INCLUDE}\")\n" +
		"find_library (PETSC_LIB petsc HINTS ${PETSc_BINARY_DIR}/lib )\n" +
		"\n" +
		"if (NOT PETSC_LIB) # Interpret missing libpetsc to mean that PETSc was built --with-single-library=0\n" +
		"  set (PETSC_LIB \"\")\n" +
		"  foreach (pkg sys vec mat dm ksp snes ts tao)\n" +
		"    string (TOUPPER ${pkg} PKG)\n" +
		"    find_library (PETSC${PKG}_LIB \"petsc${pkg}\" HINTS ${PETSc_BINARY_DIR}/lib)\n" +
		"    list (APPEND PETSC_LIB \"${PETSC${PKG}_LIB}\")\n" +
		"  endforeach ()\n" +
		"endif ()\n")
}

// Close releases the underlying file.
func (c *CMake) Close() error {
	return c.f.Close()
}
