package assetcache

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// fileInfo is one row of the file index: the freshest known version of a key
// across all configured loaders.
type fileInfo struct {
	key       Key
	timeStamp time.Time
	loader    FileLoader
}

// fileIndex is the cache's merged view of every file available through its
// loaders. The list is sorted by key hash for binary-search lookups and is
// replaced atomically by rebuild, so readers never observe a partial merge.
type fileIndex struct {
	mu    sync.RWMutex
	files []fileInfo
}

// rebuild re-enumerates every loader and swaps in a freshly merged file
// list. When several loaders provide the same key, the record with the
// strictly greater timestamp wins; on a tie the earlier loader is kept.
func (ix *fileIndex) rebuild(loaders []FileLoader) error {
	var files []fileInfo

	insert := func(rec FileRecord, loader FileLoader) {
		i := sort.Search(len(files), func(i int) bool {
			return !keyLess(files[i].key, rec.Key)
		})
		if i < len(files) && files[i].key == rec.Key {
			if rec.TimeStamp.After(files[i].timeStamp) {
				files[i].timeStamp = rec.TimeStamp
				files[i].loader = loader
			}
			return
		}
		files = append(files, fileInfo{})
		copy(files[i+1:], files[i:])
		files[i] = fileInfo{key: rec.Key, timeStamp: rec.TimeStamp, loader: loader}
	}

	for _, loader := range loaders {
		records, err := loader.AvailableFiles()
		if err != nil {
			return fmt.Errorf("refreshing file list for %s: %w", loader.Name(), err)
		}
		for _, rec := range records {
			insert(rec, loader)
		}
	}

	ix.mu.Lock()
	ix.files = files
	ix.mu.Unlock()
	return nil
}

// lookup returns the index row for the given key, reflecting the state as of
// the most recent rebuild.
func (ix *fileIndex) lookup(key Key) (fileInfo, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	i := sort.Search(len(ix.files), func(i int) bool {
		return !keyLess(ix.files[i].key, key)
	})
	if i < len(ix.files) && ix.files[i].key == key {
		return ix.files[i], true
	}
	return fileInfo{}, false
}

// len returns the number of indexed files.
func (ix *fileIndex) len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.files)
}
