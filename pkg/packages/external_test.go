// pkg/packages/external_test.go
package packages

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/probe"
)

func parseFlags(t *testing.T, p Package, args ...string) {
	t.Helper()
	fs := pflag.NewFlagSet("configure", pflag.ContinueOnError)
	p.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
}

func TestExternalNotRequestedByDefault(t *testing.T) {
	a := NewArpack()
	parseFlags(t, a)
	assert.False(t, a.Requested())

	out, err := a.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExternalRequestedFromAnyFlag(t *testing.T) {
	cases := [][]string{
		{"--with-arpack"},
		{"--with-arpack-dir=/opt/arpack"},
		{"--with-arpack-flags=-lparpack,-larpack"},
	}
	for _, args := range cases {
		a := NewArpack()
		parseFlags(t, a, args...)
		assert.True(t, a.Requested(), "args %v", args)
	}
}

func TestSearchSpaceUserDirWins(t *testing.T) {
	p := probe.New(&probe.Config{Prefixes: []string{t.TempDir()}})
	e := &external{name: "arpack", guessName: "Arpack", dir: "/opt/arpack/lib"}

	dirs, libsets := e.searchSpace(p, [][]string{{"-larpack"}})
	assert.Equal(t, []string{"/opt/arpack/lib"}, dirs)
	assert.Equal(t, [][]string{{"-larpack"}}, libsets)
}

func TestSearchSpaceUserFlagsWin(t *testing.T) {
	p := probe.New(&probe.Config{Prefixes: []string{t.TempDir()}})
	e := &external{name: "arpack", guessName: "Arpack", flagcsv: "-lparpack,-larpack"}

	dirs, libsets := e.searchSpace(p, [][]string{{"-larpack"}, {"-larpack_LINUX"}})
	assert.Equal(t, []string{""}, dirs)
	assert.Equal(t, [][]string{{"-lparpack", "-larpack"}}, libsets)
}

func TestExternalShowHelp(t *testing.T) {
	var buf bytes.Buffer
	NewArpack().ShowHelp(&buf)

	want := "ARPACK:\n" +
		"  --with-arpack                    : Indicate if you wish to test for ARPACK\n" +
		"  --with-arpack-dir=<dir>          : Indicate the directory for ARPACK libraries\n" +
		"  --with-arpack-flags=<flags>      : Indicate comma-separated flags for linking ARPACK\n"
	assert.Equal(t, want, buf.String())
}

func TestExternalShowInfo(t *testing.T) {
	var console bytes.Buffer
	lg := logging.New(&logging.Config{Console: &console})

	e := &external{name: "arpack"}
	e.ShowInfo(lg)
	assert.Empty(t, console.String())

	e.outcome = &probe.Outcome{Found: true, Flags: []string{"-L/opt/arpack/lib", "-lparpack", "-larpack"}}
	e.ShowInfo(lg)
	assert.Equal(t, "ARPACK library flags:\n -L/opt/arpack/lib -lparpack -larpack\n", console.String())
}
