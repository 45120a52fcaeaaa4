package assetcache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// dependency records another resource that a loaded resource was built from,
// together with the timestamp of the dependency's file at the time of the
// load. Dependencies are tracked by key only, never by strong reference.
type dependency struct {
	key       Key
	timeStamp time.Time
}

// entry is the internal per-key storage node for one resource. An entry is
// created the first time its key is requested and lives for the rest of the
// cache's lifetime: eviction and hot-reload replace the payload in place, so
// handles and guards referencing the entry never dangle.
//
// mu guards the payload and its metadata. Guards hold the read side for
// their whole lifetime; loading, unloading and reloading take the write
// side. borrows and lastAccess are atomics because guards update them while
// holding only the read lock.
type entry struct {
	key   Key
	cache *Cache

	borrows    atomic.Int32
	lastAccess atomic.Int64 // unix nanoseconds

	mu           sync.RWMutex
	resource     Resource // nil while unloaded
	typeTag      TypeTag
	hasLoaded    bool // typeTag is valid only after the first successful load
	timeStamp    time.Time
	dependencies []dependency
}

// loaded reports whether the entry currently holds a payload.
// Callers must hold mu.
func (e *entry) loaded() bool { return e.resource != nil }

// load reads the entry's file through the loader currently recorded in the
// file index and initializes res from it. Callers must hold mu exclusively
// and the entry must be unloaded. On failure the entry is left unloaded.
func (e *entry) load(res Resource) error {
	fi, ok := e.cache.index.lookup(e.key)
	if !ok {
		// The file disappeared from every loader since the entry was
		// created; surface the same error as a fresh lookup would.
		return e.cache.notFound(e.key)
	}

	data, err := fi.loader.LoadFile(e.key)
	if err != nil {
		e.cache.metrics.loadErrors.Inc()
		return fmt.Errorf("loading resource %q from %s: %w", e.key, fi.loader.Name(), err)
	}

	// Dependencies are rebuilt from scratch on every load.
	e.dependencies = nil

	input := &LoadContext{data: data, cache: e.cache, entry: e}
	if err := res.Load(input); err != nil {
		e.dependencies = nil
		e.cache.metrics.loadErrors.Inc()
		return &DataError{Key: e.key, Err: err}
	}

	e.resource = res
	e.typeTag = res.TypeID()
	e.hasLoaded = true
	e.timeStamp = fi.timeStamp
	e.lastAccess.Store(time.Now().UnixNano())

	e.cache.metrics.loads.Inc()
	e.cache.metrics.loadedEntries.Inc()
	e.cache.logger.Debug("resource loaded",
		"resource", e.key.String(), "loader", fi.loader.Name(), "type", string(e.typeTag))
	return nil
}

// unload discards the payload, returning the entry to the unloaded state.
// The entry's identity, type tag and last-load timestamp are retained.
// Callers must hold mu exclusively and ensure no borrows are outstanding.
func (e *entry) unload() {
	e.resource = nil
	e.dependencies = nil
	e.cache.metrics.loadedEntries.Dec()
}

// verifyType panics if the entry has loaded as a type other than want.
// Requesting one key as two different resource types is a programming error,
// not a runtime condition. Callers must hold mu.
func (e *entry) verifyType(want TypeTag) {
	if e.hasLoaded && e.typeTag != want {
		panic(fmt.Sprintf(
			"assetcache: resource %q requested as type %q but loaded as type %q",
			e.key, want, e.typeTag))
	}
}
