// pkg/packages/solvers_test.go
package packages

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonkingfr/slepc/pkg/petsc"
	"github.com/neonkingfr/slepc/pkg/probe"
)

func TestBlzpackRejectsComplexScalars(t *testing.T) {
	env, _ := testEnv(t, "exit 1", &petsc.Conf{Scalar: "complex", Precision: "double"})

	b := NewBlzpack()
	b.with = true
	_, err := b.Process(context.Background(), env)
	require.EqualError(t, err, "BLZPACK is not available for complex scalars")
}

func TestBlzpackRejectsQuadPrecision(t *testing.T) {
	env, _ := testEnv(t, "exit 1", &petsc.Conf{Scalar: "real", Precision: "__float128"})

	b := NewBlzpack()
	b.with = true
	_, err := b.Process(context.Background(), env)
	require.EqualError(t, err, "BLZPACK does not support __float128 precision")
}

func TestBlzpackDriverMatchesPrecision(t *testing.T) {
	script := `grep -q 'blzdrs_();' checklink.c && [ "$2" = "TESTFLAGS=-lblzpack" ]`
	env, _ := testEnv(t, script, &petsc.Conf{Scalar: "real", Precision: "single"})

	b := NewBlzpack()
	b.with = true
	out, err := b.Process(context.Background(), env)
	require.NoError(t, err)

	require.True(t, out.Found)
	assert.Equal(t, []string{"-lblzpack"}, out.Libs)
}

func TestTrlanRequiresRealScalars(t *testing.T) {
	env, _ := testEnv(t, "exit 1", &petsc.Conf{Scalar: "complex", Precision: "double"})

	tr := NewTrlan()
	tr.with = true
	_, err := tr.Process(context.Background(), env)
	require.EqualError(t, err, "TRLAN is not available for complex scalars")
}

func TestTrlanLibraryMatchesMPI(t *testing.T) {
	script := `grep -q 'trlan77_();' checklink.c && [ "$2" = "TESTFLAGS=-ltrlan_mpi" ]`
	env, _ := testEnv(t, script, &petsc.Conf{Scalar: "real", Precision: "double"})

	tr := NewTrlan()
	tr.with = true
	out, err := tr.Process(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, []string{"-ltrlan_mpi"}, out.Libs)

	script = `grep -q 'trlan77_();' checklink.c && [ "$2" = "TESTFLAGS=-ltrlan" ]`
	env, _ = testEnv(t, script, &petsc.Conf{Scalar: "real", Precision: "double", MPIUni: true})

	tr = NewTrlan()
	tr.with = true
	out, err = tr.Process(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, []string{"-ltrlan"}, out.Libs)
}

func TestFeastRejectsQuadPrecision(t *testing.T) {
	env, _ := testEnv(t, "exit 1", &petsc.Conf{Scalar: "real", Precision: "__float128"})

	f := NewFeast()
	f.with = true
	_, err := f.Process(context.Background(), env)
	require.EqualError(t, err, "FEAST does not support __float128 precision")
}

func TestFeastDriverMatchesScalar(t *testing.T) {
	script := `grep -q 'feastinit_();' checklink.c && grep -q 'zfeast_hrci_();' checklink.c`
	env, _ := testEnv(t, script, &petsc.Conf{Scalar: "complex", Precision: "double"})

	f := NewFeast()
	f.with = true
	out, err := f.Process(context.Background(), env)
	require.NoError(t, err)

	require.True(t, out.Found)
	assert.Equal(t, []string{"-lfeast"}, out.Libs)
}

func TestPrimmeSearchSetsIncludeDir(t *testing.T) {
	libdir := filepath.Join(t.TempDir(), "primme", "lib")
	require.NoError(t, os.MkdirAll(libdir, 0o755))

	script := `grep -q 'primme_set_method();' checklink.c && grep -q 'dprimme();' checklink.c &&
grep -q 'int dsyev_() { return 0; }' checklink.c`
	env, _ := testEnv(t, script, &petsc.Conf{Scalar: "real", Precision: "double"})

	p := NewPrimme()
	p.dir = libdir
	out, err := p.Process(context.Background(), env)
	require.NoError(t, err)

	require.True(t, out.Found)
	assert.Equal(t, probe.None, out.Mangling)
	assert.Equal(t, libdir, out.Dir)
	assert.Equal(t, filepath.Join(filepath.Dir(libdir), "include"), out.IncludeDir)
	assert.Equal(t, []string{"-L" + libdir, "-lprimme"}, out.Flags)
}

func TestPrimmeComplexUsesZprimme(t *testing.T) {
	script := `grep -q 'zprimme();' checklink.c && grep -q 'int zheev_() { return 0; }' checklink.c &&
! grep -q dsyev_ checklink.c`
	env, _ := testEnv(t, script, &petsc.Conf{Scalar: "complex", Precision: "double"})

	p := NewPrimme()
	p.with = true
	out, err := p.Process(context.Background(), env)
	require.NoError(t, err)

	require.True(t, out.Found)
	assert.Equal(t, []string{"-lprimme"}, out.Libs)
	assert.Empty(t, out.IncludeDir)
}

func TestPrimmeIncludeLayout(t *testing.T) {
	assert.Equal(t, "/opt/primme/include", primmeInclude("/opt/primme/lib"))
	assert.Equal(t, "/opt/primme", primmeInclude("/opt/primme"))
}
