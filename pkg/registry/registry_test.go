// pkg/registry/registry_test.go
package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedManifest(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"blopex", "sowing"}, r.Names())
}

func TestLookup(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	pin, err := r.Lookup("BLOPEX")
	require.NoError(t, err)
	assert.Equal(t, "1.1.2", pin.Version)
	assert.Equal(t, "blopex-1.1.2", pin.Dirname)
	assert.Contains(t, pin.URL, "blopex-1.1.2.tar.gz")
	require.NotEmpty(t, pin.Mirrors)
	assert.Contains(t, pin.Mirrors[0], "blopex-1.1.2.tar.gz")
}

func TestLookupUnknown(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	_, err = r.Lookup("arpack")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not pinned")
}
