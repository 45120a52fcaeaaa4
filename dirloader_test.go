package assetcache

import (
	"sort"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirLoaderAvailableFiles(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"a.txt":            "a",
		"sub/b.txt":        "bb",
		"sub/deep/c.mesh":  "ccc",
		"sub/deep/d.shady": "dddd",
	})
	loader := NewDirLoaderFS(fsys, "assets")

	records, err := loader.AvailableFiles()
	require.NoError(t, err)
	require.Len(t, records, 4)

	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Key.String()
		assert.Equal(t, testEpoch, rec.TimeStamp)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a.txt", "sub/b.txt", "sub/deep/c.mesh", "sub/deep/d.shady"}, names)
}

func TestDirLoaderFileOperations(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"sub/b.txt": "hello",
	})
	loader := NewDirLoaderFS(fsys, "assets")
	key := NewKey("sub/b.txt")

	assert.True(t, loader.FileExists(key))
	assert.False(t, loader.FileExists(NewKey("nope.txt")))

	size, err := loader.FileSize(key)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	ts, err := loader.FileTimeStamp(key)
	require.NoError(t, err)
	assert.Equal(t, testEpoch, ts)

	data, err := loader.LoadFile(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	assert.Equal(t, "assets", loader.Name())
}

func TestDirLoaderMissingFile(t *testing.T) {
	loader := NewDirLoaderFS(afero.NewMemMapFs(), "assets")
	key := NewKey("ghost.txt")

	_, err := loader.LoadFile(key)
	assert.Error(t, err)
	_, err = loader.FileSize(key)
	assert.Error(t, err)
	_, err = loader.FileTimeStamp(key)
	assert.Error(t, err)
}

func TestDirLoaderOnOsFilesystem(t *testing.T) {
	dir := t.TempDir()
	fsys := afero.NewOsFs()
	mtime := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, afero.WriteFile(fsys, dir+"/real.txt", []byte("real bytes"), 0o644))
	require.NoError(t, fsys.Chtimes(dir+"/real.txt", mtime, mtime))

	loader := NewDirLoader(dir)
	records, err := loader.AvailableFiles()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "real.txt", records[0].Key.String())
	assert.True(t, records[0].TimeStamp.Equal(mtime))

	data, err := loader.LoadFile(NewKey("real.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("real bytes"), data)
}
