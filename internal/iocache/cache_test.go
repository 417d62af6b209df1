package iocache_test

import (
	"testing"

	"github.com/gnames/gndesc/internal/iocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	cm, err := iocache.NewCacheManager(t.TempDir())
	require.NoError(t, err)
	defer cm.Close()

	_, ok, err := cm.Genus("Quercus robur")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cm.SetGenus("Quercus robur", "Quercus"))

	genus, ok, err := cm.Genus("Quercus robur")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Quercus", genus)
}

func TestCacheStoresFailedParses(t *testing.T) {
	cm, err := iocache.NewCacheManager(t.TempDir())
	require.NoError(t, err)
	defer cm.Close()

	require.NoError(t, cm.SetGenus("gibberish ×%", ""))

	genus, ok, err := cm.Genus("gibberish ×%")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, genus)
}

func TestCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	cm, err := iocache.NewCacheManager(dir)
	require.NoError(t, err)
	require.NoError(t, cm.SetGenus("Betula pendula", "Betula"))
	require.NoError(t, cm.Close())

	cm, err = iocache.NewCacheManager(dir)
	require.NoError(t, err)
	defer cm.Close()

	genus, ok, err := cm.Genus("Betula pendula")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Betula", genus)
}
