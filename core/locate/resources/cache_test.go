package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/testconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheDirPath(t *testing.T) {
	teardown := testconfig.QuickConfig(t, map[string]string{
		"app-key": "nbtypst-test",
	})
	defer teardown()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("LocalAppData", filepath.Join(home, "AppData"))
	//
	cachedir, err := CacheDirPath("media")
	require.NoError(t, err)
	assert.Equal(t, "media", filepath.Base(cachedir))
	assert.Equal(t, "nbtypst-test", filepath.Base(filepath.Dir(cachedir)))
	info, err := os.Stat(cachedir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
