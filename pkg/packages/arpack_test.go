// pkg/packages/arpack_test.go
package packages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonkingfr/slepc/pkg/petsc"
	"github.com/neonkingfr/slepc/pkg/probe"
)

func TestArpackParallelRealDouble(t *testing.T) {
	script := `grep -q 'pdnaupd_();' checklink.c && grep -q 'pdseupd_();' checklink.c && [ "$2" = "TESTFLAGS=-lparpack -larpack" ]`
	env, console := testEnv(t, script, &petsc.Conf{Scalar: "real", Precision: "double"})

	a := NewArpack()
	a.with = true
	out, err := a.Process(context.Background(), env)
	require.NoError(t, err)

	require.True(t, out.Found)
	assert.Equal(t, probe.Underscore, out.Mangling)
	assert.Equal(t, []string{"-lparpack", "-larpack"}, out.Libs)
	assert.Equal(t, []string{"-lparpack", "-larpack"}, out.Flags)
	assert.Contains(t, console.String(), "Checking ARPACK library...")
}

func TestArpackSerialComplexSingle(t *testing.T) {
	script := `grep -q 'cnaupd_();' checklink.c && ! grep -q 'pcnaupd' checklink.c && [ "$2" = "TESTFLAGS=-larpack" ]`
	env, _ := testEnv(t, script, &petsc.Conf{Scalar: "complex", Precision: "single", MPIUni: true})

	a := NewArpack()
	a.with = true
	out, err := a.Process(context.Background(), env)
	require.NoError(t, err)

	require.True(t, out.Found)
	assert.Equal(t, []string{"-larpack"}, out.Libs)
}

func TestArpackExhaustedSearch(t *testing.T) {
	env, _ := testEnv(t, "exit 1", &petsc.Conf{Scalar: "real", Precision: "double"})

	a := NewArpack()
	a.with = true
	_, err := a.Process(context.Background(), env)

	var se *probe.SearchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ARPACK", se.Package)
	assert.Equal(t, []string{""}, se.Dirs)
}
