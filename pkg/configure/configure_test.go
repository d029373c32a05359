// pkg/configure/configure_test.go
package configure

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonkingfr/slepc/pkg/artifacts"
	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/petsc"
	"github.com/neonkingfr/slepc/pkg/probe"
)

func testLog() *logging.Log {
	return logging.New(&logging.Config{Console: &bytes.Buffer{}})
}

// writeSlepcTree lays out the minimum of a SLEPc source tree: the
// version header the loader reads.
func writeSlepcTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	header := `#define SLEPC_VERSION_RELEASE 1
#define SLEPC_VERSION_MAJOR 3
#define SLEPC_VERSION_MINOR 5
#define SLEPC_VERSION_SUBMINOR 3
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "include"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "include", "slepcversion.h"), []byte(header), 0o644))
	return dir
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestRunRejectsInvalidSlepcDir(t *testing.T) {
	t.Setenv("SLEPC_DIR", t.TempDir())

	err := Run(context.Background(), testLog(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnvironment)
	assert.Contains(t, err.Error(), "SLEPC_DIR")
}

func TestRunRequiresPetscDir(t *testing.T) {
	dir := writeSlepcTree(t)
	t.Setenv("SLEPC_DIR", dir)
	t.Setenv("PETSC_DIR", "")
	chdir(t, dir)

	err := Run(context.Background(), testLog(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnvironment)
	assert.Contains(t, err.Error(), "PETSC_DIR")
}

func TestCreateDirsReportsExisting(t *testing.T) {
	base := t.TempDir()

	d, err := createDirs(base, "arch-test")
	require.NoError(t, err)
	assert.False(t, d.Existed)
	for _, p := range []string{d.Conf, d.Include, d.Modules, d.PkgConfig} {
		fi, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, fi.IsDir())
	}

	d, err = createDirs(base, "arch-test")
	require.NoError(t, err)
	assert.True(t, d.Existed)

	require.NoError(t, d.remove())
	_, err = os.Stat(d.Arch)
	assert.True(t, os.IsNotExist(err))
}

func TestHadExternalPackages(t *testing.T) {
	confdir := t.TempDir()
	assert.False(t, hadExternalPackages(confdir))

	path := filepath.Join(confdir, "slepcvariables")
	require.NoError(t, os.WriteFile(path, []byte("SLEPC_DESTDIR = /opt/slepc\n"), 0o644))
	assert.False(t, hadExternalPackages(confdir))

	require.NoError(t, os.WriteFile(path, []byte("ARPACK_LIB = -L/opt/arpack/lib -lparpack -larpack\n"), 0o644))
	assert.True(t, hadExternalPackages(confdir))
}

func TestTestRunsFilteredAndSorted(t *testing.T) {
	conf := &petsc.Conf{Precision: "double", TestRuns: "Fortran C C Bogus F90"}

	runs := testRuns(conf, "")
	assert.Equal(t, []string{"C", "C_NoF128", "F90", "Fortran"}, runs)

	runs = testRuns(conf, "/data")
	assert.Contains(t, runs, "DATAFILESPATH")
	assert.True(t, sortedStrings(runs))
}

func TestTestRunsFloat128(t *testing.T) {
	conf := &petsc.Conf{Precision: "__float128", TestRuns: "C"}
	assert.NotContains(t, testRuns(conf, ""), "C_NoF128")
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestBaseNames(t *testing.T) {
	assert.Equal(t, []string{"parpack", "arpack"}, baseNames([]string{"-lparpack", "-larpack"}))
}

// emitConfigurer builds a configurer with open artifact writers in a
// temporary directory.
func emitConfigurer(t *testing.T) (*configurer, string) {
	t.Helper()
	dir := t.TempDir()
	vars, err := artifacts.CreateVariables(filepath.Join(dir, "slepcvariables"))
	require.NoError(t, err)
	header, err := artifacts.CreateHeader(filepath.Join(dir, "slepcconf.h"))
	require.NoError(t, err)
	cmake, err := artifacts.CreateCMake(filepath.Join(dir, "SLEPcConfig.cmake"))
	require.NoError(t, err)
	c := &configurer{lg: testLog(), vars: vars, header: header, cmake: cmake}
	t.Cleanup(func() {
		vars.Close()
		header.Close()
		cmake.Close()
	})
	return c, dir
}

func TestEmitExternalPackage(t *testing.T) {
	c, dir := emitConfigurer(t)

	require.NoError(t, c.emit(&probe.Outcome{
		Package:  "foo",
		Found:    true,
		Dir:      "/opt/foo/lib",
		Libs:     []string{"-lfoo"},
		Flags:    []string{"-L/opt/foo/lib", "-lfoo"},
		Mangling: probe.Underscore,
	}))
	require.NoError(t, c.vars.Close())
	require.NoError(t, c.header.Close())
	require.NoError(t, c.cmake.Close())

	vars, err := os.ReadFile(filepath.Join(dir, "slepcvariables"))
	require.NoError(t, err)
	assert.Contains(t, string(vars), "FOO_LIB = -L/opt/foo/lib -lfoo\n")

	header, err := os.ReadFile(filepath.Join(dir, "slepcconf.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "#define SLEPC_HAVE_FOO 1")
	assert.Contains(t, string(header), "#define SLEPC_FOO_HAVE_UNDERSCORE 1")

	cmake, err := os.ReadFile(filepath.Join(dir, "SLEPcConfig.cmake"))
	require.NoError(t, err)
	assert.Contains(t, string(cmake), "set (SLEPC_HAVE_FOO YES)")
	assert.Contains(t, string(cmake), "find_library (${LIBNAME}LIB ${libname} HINTS /opt/foo/lib)")
}

func TestEmitLapackMissingRoutines(t *testing.T) {
	c, dir := emitConfigurer(t)

	require.NoError(t, c.emit(&probe.Outcome{
		Package:  "lapack",
		Found:    true,
		Mangling: probe.Caps,
		Missing:  []string{"stevr", "bdsdc"},
	}))
	require.NoError(t, c.header.Close())

	header, err := os.ReadFile(filepath.Join(dir, "slepcconf.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "#define SLEPC_MISSING_LAPACK_STEVR 1")
	assert.Contains(t, string(header), "#define SLEPC_MISSING_LAPACK_BDSDC 1")
	assert.NotContains(t, string(header), "SLEPC_HAVE_LAPACK")

	vars, err := os.ReadFile(filepath.Join(dir, "slepcvariables"))
	require.NoError(t, err)
	assert.Empty(t, string(vars))
}
