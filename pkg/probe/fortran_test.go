// pkg/probe/fortran_test.go
package probe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFortranLinkUnderscore(t *testing.T) {
	p := testProber(t, "grep -q 'dnaupd_();' checklink.c", nil)

	m, out, err := p.FortranLink(context.Background(), []string{"dnaupd"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, Underscore, m)
	assert.Contains(t, out, "====== With underscore Fortran names")
	assert.NotContains(t, out, "=== With linker flags:")
}

func TestFortranLinkCapsAfterTwoTrials(t *testing.T) {
	script := `echo trial >> trials.txt
grep -q 'DNAUPD();' checklink.c`
	p := testProber(t, script, nil)

	m, out, err := p.FortranLink(context.Background(), []string{"dnaupd"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, Caps, m)
	assert.Contains(t, out, "====== With capital Fortran names")

	trials, readErr := os.ReadFile(filepath.Join(p.dir, "trials.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, 2, strings.Count(string(trials), "trial"))
}

func TestFortranLinkStdcall(t *testing.T) {
	p := testProber(t, "grep -q 'dnaupd();' checklink.c", nil)

	m, out, err := p.FortranLink(context.Background(), []string{"dnaupd"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, Stdcall, m)
	assert.Contains(t, out, "====== With unmodified Fortran names")
}

func TestFortranLinkExhausted(t *testing.T) {
	p := testProber(t, "exit 1", nil)

	m, out, err := p.FortranLink(context.Background(), []string{"dnaupd"}, nil, []string{"-L/x", "-larpack"})
	require.NoError(t, err)

	assert.Equal(t, None, m)
	assert.Contains(t, out, "=== With linker flags: -L/x -larpack")
	assert.Equal(t, 1, strings.Count(out, "====== With underscore Fortran names"))
	assert.Equal(t, 1, strings.Count(out, "====== With capital Fortran names"))
	assert.Equal(t, 1, strings.Count(out, "====== With unmodified Fortran names"))
}

func TestFortranLinkManglesCallbacks(t *testing.T) {
	script := `grep -q 'int STUB() { return 0; }' checklink.c && grep -q 'DSAUPD();' checklink.c`
	p := testProber(t, script, nil)

	m, _, err := p.FortranLink(context.Background(), []string{"dsaupd"}, []string{"stub"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Caps, m)
}

func TestFortranLibFirstSuccessWins(t *testing.T) {
	libdir := t.TempDir()
	script := `[ "$2" = "TESTFLAGS=-L` + libdir + ` -lbar" ] && grep -q 'dsaupd_();' checklink.c`
	p := testProber(t, script, nil)

	desc := &Descriptor{Name: "foo", Functions: []string{"dsaupd"}}
	out, err := p.FortranLib(context.Background(), desc, []string{"", libdir}, [][]string{{"-lfoo"}, {"-lbar"}})
	require.NoError(t, err)

	assert.True(t, out.Found)
	assert.Equal(t, libdir, out.Dir)
	assert.Equal(t, []string{"-lbar"}, out.Libs)
	assert.Equal(t, []string{"-L" + libdir, "-lbar"}, out.Flags)
	assert.Equal(t, Underscore, out.Mangling)
	// Only the winning trial's transcript is kept.
	assert.Equal(t, 1, strings.Count(out.Transcript, "======"))
}

func TestFortranLibRPathFlags(t *testing.T) {
	libdir := t.TempDir()
	p := testProber(t, "exit 0", &Config{SLFlag: "-Wl,-rpath,"})

	desc := &Descriptor{Name: "foo", Functions: []string{"dsaupd"}}
	out, err := p.FortranLib(context.Background(), desc, []string{libdir}, [][]string{{"-lfoo"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"-Wl,-rpath," + libdir, "-L" + libdir, "-lfoo"}, out.Flags)
}

func TestFortranLibExhaustedSearch(t *testing.T) {
	d1, d2 := t.TempDir(), t.TempDir()
	p := testProber(t, "exit 1", nil)

	desc := &Descriptor{Name: "foo", Functions: []string{"dsaupd"}}
	out, err := p.FortranLib(context.Background(), desc, []string{d1, d2}, [][]string{{"-lfoo"}, {"-lfoo_LINUX"}})

	require.Nil(t, out)
	var se *SearchError
	require.ErrorAs(t, err, &se)

	assert.Equal(t, "FOO", se.Package)
	assert.Equal(t, []string{d1, d2}, se.Dirs)
	assert.Equal(t, []string{"-L" + d2, "-lfoo_LINUX"}, se.Flags)
	// Every combination appears in the transcript exactly once.
	for _, header := range []string{
		"=== With linker flags: -L" + d1 + " -lfoo\n",
		"=== With linker flags: -L" + d1 + " -lfoo_LINUX\n",
		"=== With linker flags: -L" + d2 + " -lfoo\n",
		"=== With linker flags: -L" + d2 + " -lfoo_LINUX\n",
	} {
		assert.Equal(t, 1, strings.Count(se.Transcript, header), header)
	}
}

func TestFortranLibIdempotent(t *testing.T) {
	script := `[ "$2" = "TESTFLAGS=-lbar" ] && grep -q 'dsaupd_();' checklink.c`
	p := testProber(t, script, nil)

	desc := &Descriptor{Name: "foo", Functions: []string{"dsaupd"}}
	first, err := p.FortranLib(context.Background(), desc, []string{""}, [][]string{{"-lfoo"}, {"-lbar"}})
	require.NoError(t, err)
	second, err := p.FortranLib(context.Background(), desc, []string{""}, [][]string{{"-lfoo"}, {"-lbar"}})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSearchPlainCNames(t *testing.T) {
	script := `echo trial >> trials.txt
grep -q 'zprimme();' checklink.c && grep -q 'int stub() { return 0; }' checklink.c`
	p := testProber(t, script, nil)

	desc := &Descriptor{Name: "primme", Functions: []string{"zprimme"}, Callbacks: []string{"stub"}}
	out, err := p.Search(context.Background(), desc, []string{""}, [][]string{{"-lprimme"}})
	require.NoError(t, err)

	assert.True(t, out.Found)
	assert.Equal(t, []string{"-lprimme"}, out.Flags)
	assert.Equal(t, None, out.Mangling)

	// A single trial: symbol names are not mangled for C libraries.
	trials, readErr := os.ReadFile(filepath.Join(p.dir, "trials.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, 1, strings.Count(string(trials), "trial"))
}

func TestSearchExhausted(t *testing.T) {
	p := testProber(t, "exit 1", nil)

	desc := &Descriptor{Name: "primme", Functions: []string{"zprimme"}}
	_, err := p.Search(context.Background(), desc, []string{""}, [][]string{{"-lprimme"}})

	var se *SearchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "PRIMME", se.Package)
	assert.EqualError(t, se, "unable to link with library PRIMME")
}
