// internal/cli/root_test.go
package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandFlags(t *testing.T) {
	fs := rootCmd.Flags()
	for _, name := range []string{
		"with-clean", "prefix", "DATAFILESPATH", "link-timeout",
		"with-arpack", "with-arpack-dir", "with-arpack-flags",
		"with-primme", "with-trlan", "with-blzpack", "with-feast",
		"download-blopex", "download-sowing",
	} {
		assert.NotNil(t, fs.Lookup(name), "flag %s not registered", name)
	}
}

func TestRootCommandHelpListsPackages(t *testing.T) {
	help := packageHelp()
	for _, line := range []string{
		"--with-arpack", "--with-primme-dir=<dir>", "--download-blopex", "--download-sowing",
	} {
		assert.Contains(t, help, line)
	}
}

func TestVersionCommandRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "version", cmd.Name())
}
