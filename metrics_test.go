package assetcache

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	fsys := newTestFs(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	})
	cache, err := New([]FileLoader{NewDirLoaderFS(fsys, "assets")}, WithMetricsRegistry(reg))
	require.NoError(t, err)

	key := NewKey("a.txt")

	guard, err := Access[TextResource](cache, key)
	require.NoError(t, err)
	guard.Release()

	guard, err = Access[TextResource](cache, key)
	require.NoError(t, err)
	guard.Release()

	assert.Equal(t, float64(1), testutil.ToFloat64(cache.metrics.loads))
	assert.Equal(t, float64(1), testutil.ToFloat64(cache.metrics.misses))
	assert.Equal(t, float64(1), testutil.ToFloat64(cache.metrics.hits))
	assert.Equal(t, float64(1), testutil.ToFloat64(cache.metrics.loadedEntries))

	assert.True(t, cache.UnloadUnused(false))
	assert.Equal(t, float64(1), testutil.ToFloat64(cache.metrics.evictions))
	assert.Equal(t, float64(0), testutil.ToFloat64(cache.metrics.loadedEntries))

	// The initial refresh during New plus one explicit call.
	require.NoError(t, cache.Refresh())
	assert.Equal(t, float64(2), testutil.ToFloat64(cache.metrics.refreshes))
}

func TestCacheMetricsLoadError(t *testing.T) {
	reg := prometheus.NewRegistry()
	fsys := newTestFs(t, map[string]string{
		"broken.bin": "junk",
	})
	cache, err := New([]FileLoader{NewDirLoaderFS(fsys, "assets")}, WithMetricsRegistry(reg))
	require.NoError(t, err)

	_, err = Access[headerResource](cache, NewKey("broken.bin"))
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(cache.metrics.loadErrors))
	assert.Equal(t, float64(0), testutil.ToFloat64(cache.metrics.loads))
}
