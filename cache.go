package assetcache

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache maps asset keys, provided by one or more file loaders, to lazily
// constructed in-memory resource objects. Resources are borrowed through
// guards (see Handle.Acquire); an unborrowed resource can be evicted with
// UnloadUnused and is reloaded transparently on the next access.
//
// The cache keeps a merged index of the files available through its loaders.
// The index reflects the state as of the most recent Refresh; call Refresh
// after directory or archive contents have changed, for example on
// window-regained-focus events.
//
// All methods are safe for concurrent use by multiple goroutines.
type Cache struct {
	loaders []FileLoader
	index   fileIndex

	// entryMu guards first-time entry creation only. It is never held across
	// a resource load: loading a resource may recursively request another
	// resource through the same cache, and a coarse lock held across Load
	// would deadlock on that re-entry.
	entryMu sync.RWMutex
	entries map[Key]*entry

	callbackMu sync.RWMutex
	callbacks  map[TypeTag]ReloadCallback

	logger  *Logger
	metrics *metrics
}

// ReloadCallback is invoked during Refresh when the backing file of an
// already-loaded resource (of the type the callback was registered for) has
// changed. The previous payload has been discarded by the time the callback
// runs; re-access the key to load the new version.
type ReloadCallback func(event FileChangedEvent)

// FileChangedEvent describes a changed resource file detected by Refresh.
type FileChangedEvent struct {
	// Key of the changed resource.
	Key Key
	// TypeTag of the resource type that had loaded the file.
	TypeTag TypeTag
	// TimeStamp is the new timestamp of the file.
	TimeStamp time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger directs the cache's diagnostic logging to the given slog
// logger. Without it the cache is silent.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = NewLogger(l) }
}

// WithMetricsRegistry registers the cache's prometheus collectors with the
// given registerer. Without it metrics are still tracked but not exported.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(c *Cache) { c.metrics = newMetrics(reg) }
}

// New creates a Cache reading from the given file loaders and performs the
// initial Refresh. At least one loader is required.
func New(loaders []FileLoader, opts ...Option) (*Cache, error) {
	if len(loaders) == 0 {
		return nil, fmt.Errorf("assetcache: at least one file loader is required")
	}
	for i, l := range loaders {
		if l == nil {
			return nil, fmt.Errorf("assetcache: file loader %d is nil", i)
		}
	}

	c := &Cache{
		loaders:   append([]FileLoader(nil), loaders...),
		entries:   make(map[Key]*entry),
		callbacks: make(map[TypeTag]ReloadCallback),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = NewNopLogger()
	}
	if c.metrics == nil {
		c.metrics = newMetrics(nil)
	}

	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewHandle returns a handle to the resource for the given key, creating the
// entry if this is the key's first request. With loadImmediately the
// resource is loaded before the handle is returned; otherwise loading is
// deferred until the first Acquire.
func NewHandle[T any, P ResourcePtr[T]](c *Cache, key Key, loadImmediately bool) (Handle[T, P], error) {
	e, err := c.entryFor(key)
	if err != nil {
		return Handle[T, P]{}, err
	}

	h := Handle[T, P]{key: key, entry: e}
	if loadImmediately {
		guard, err := h.Acquire()
		if err != nil {
			return Handle[T, P]{}, err
		}
		guard.Release()
	}
	return h, nil
}

// Access loads (if needed) and borrows the resource for the given key.
// It is shorthand for NewHandle followed by Acquire.
func Access[T any, P ResourcePtr[T]](c *Cache, key Key) (*Guard[T, P], error) {
	h, err := NewHandle[T, P](c, key, false)
	if err != nil {
		return nil, err
	}
	return h.Acquire()
}

// entryFor finds or creates the entry for the given key. Creation uses a
// double-checked pattern: the read-locked lookup is cheap and concurrent,
// and the check is repeated under the write lock so racing first-requests
// for one key create exactly one entry.
func (c *Cache) entryFor(key Key) (*entry, error) {
	if _, ok := c.index.lookup(key); !ok {
		return nil, c.notFound(key)
	}

	c.entryMu.RLock()
	e := c.entries[key]
	c.entryMu.RUnlock()
	if e != nil {
		return e, nil
	}

	c.entryMu.Lock()
	defer c.entryMu.Unlock()
	if e := c.entries[key]; e != nil {
		return e, nil
	}
	e = &entry{key: key, cache: c}
	c.entries[key] = e
	return e, nil
}

// FileExists reports whether a file with the given key exists in the file
// index as of the most recent Refresh.
func (c *Cache) FileExists(key Key) bool {
	_, ok := c.index.lookup(key)
	return ok
}

// FileTimeStamp returns the timestamp of the given file as of the most
// recent Refresh. It returns ErrResourceNotFound if the key is not indexed.
func (c *Cache) FileTimeStamp(key Key) (time.Time, error) {
	fi, ok := c.index.lookup(key)
	if !ok {
		return time.Time{}, c.notFound(key)
	}
	return fi.timeStamp, nil
}

// IsCached reports whether the resource for the given key is currently
// loaded in memory.
func (c *Cache) IsCached(key Key) bool {
	c.entryMu.RLock()
	e := c.entries[key]
	c.entryMu.RUnlock()
	if e == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded()
}

// FileLoaders returns the loaders the cache was constructed with, in
// configuration order. Intended for diagnostics.
func (c *Cache) FileLoaders() []FileLoader {
	return append([]FileLoader(nil), c.loaders...)
}

// UnloadUnused evicts the least recently accessed resource that is loaded
// and currently unborrowed, or every such resource when unloadAll is set.
// Entries sharing a last-access time are evicted in key order. It returns
// whether at least one resource was unloaded.
//
// This is the cache's only eviction mechanism; there is no background
// eviction. The intended use is an allocation-retry loop: attempt the
// operation, and on an out-of-space failure call UnloadUnused and retry
// until it returns false.
func (c *Cache) UnloadUnused(unloadAll bool) bool {
	entries := c.snapshotEntries()

	tryUnload := func(e *entry) bool {
		// A contended entry is busy by definition; skip it rather than wait.
		if !e.mu.TryLock() {
			return false
		}
		defer e.mu.Unlock()
		if !e.loaded() || e.borrows.Load() != 0 {
			return false
		}
		e.unload()
		c.metrics.evictions.Inc()
		c.logger.Debug("unloaded unused resource", "resource", e.key.String())
		return true
	}

	if unloadAll {
		unloaded := false
		for _, e := range entries {
			if tryUnload(e) {
				unloaded = true
			}
		}
		return unloaded
	}

	sort.Slice(entries, func(i, j int) bool {
		ai, aj := entries[i].lastAccess.Load(), entries[j].lastAccess.Load()
		if ai != aj {
			return ai < aj
		}
		return entries[i].key.String() < entries[j].key.String()
	})
	for _, e := range entries {
		if tryUnload(e) {
			return true
		}
	}
	return false
}

// Refresh re-enumerates every file loader and atomically replaces the file
// index with the merged result. Loaded resources whose file (or whose
// dependencies' files) changed, and whose type opted in via
// ShouldReloadOnFileChange, are unloaded and their registered reload
// callback, if any, is invoked. Existing handles stay valid; the next access
// loads the new file version.
func (c *Cache) Refresh() error {
	if err := c.index.rebuild(c.loaders); err != nil {
		return err
	}
	c.metrics.refreshes.Inc()
	c.logger.Debug("file index rebuilt", "files", c.index.len())

	var events []FileChangedEvent
	for _, e := range c.snapshotEntries() {
		if event, changed := c.reloadIfChanged(e); changed {
			events = append(events, event)
		}
	}

	// Callbacks run outside all locks: they are expected to re-enter the
	// cache to reload the resource.
	for _, event := range events {
		c.callbackMu.RLock()
		cb := c.callbacks[event.TypeTag]
		c.callbackMu.RUnlock()
		if cb != nil {
			c.invokeReloadCallback(cb, event)
		}
	}
	return nil
}

// reloadIfChanged unloads the entry if its backing file or any dependency
// file has a newer timestamp than was seen at load time. It reports the
// change event to fire for the entry, if any.
func (c *Cache) reloadIfChanged(e *entry) (FileChangedEvent, bool) {
	fi, indexed := c.index.lookup(e.key)
	if !indexed {
		// The file vanished from every loader. The entry is retained so
		// existing handles and guards stay valid; lookups against the new
		// index will report the key as not found.
		return FileChangedEvent{}, false
	}

	e.mu.RLock()
	changed := e.loaded() && e.resource.ShouldReloadOnFileChange() &&
		(fi.timeStamp.After(e.timeStamp) || c.dependenciesUpdated(e))
	e.mu.RUnlock()
	if !changed {
		return FileChangedEvent{}, false
	}

	// A borrowed entry cannot be reloaded now; its guards hold the read
	// lock. Skip it rather than stall the whole refresh — the file stays
	// newer than the payload, so the next Refresh picks it up again.
	if !e.mu.TryLock() {
		return FileChangedEvent{}, false
	}
	defer e.mu.Unlock()
	if !e.loaded() || e.borrows.Load() != 0 {
		return FileChangedEvent{}, false
	}
	if !fi.timeStamp.After(e.timeStamp) && !c.dependenciesUpdated(e) {
		return FileChangedEvent{}, false
	}

	tag := e.typeTag
	e.unload()
	c.metrics.reloads.Inc()
	c.logger.Info("resource file changed, unloaded for reload",
		"resource", e.key.String(), "type", string(tag))

	return FileChangedEvent{Key: e.key, TypeTag: tag, TimeStamp: fi.timeStamp}, true
}

// dependenciesUpdated reports whether any of the entry's recorded
// dependencies has a newer file version in the current index than it had
// when the entry was loaded. Callers must hold e.mu.
func (c *Cache) dependenciesUpdated(e *entry) bool {
	for _, dep := range e.dependencies {
		if fi, ok := c.index.lookup(dep.key); ok && fi.timeStamp.After(dep.timeStamp) {
			return true
		}
	}
	return false
}

// invokeReloadCallback runs the callback, recovering a panic so one broken
// hot-reload hook cannot crash the process.
func (c *Cache) invokeReloadCallback(cb ReloadCallback, event FileChangedEvent) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("reload callback panicked",
				"resource", event.Key.String(), "type", string(event.TypeTag), "panic", r)
		}
	}()
	cb(event)
}

// SetReloadCallback registers a hook invoked by Refresh when the backing
// file of an already-loaded resource with the given type tag has changed.
// It replaces any callback previously registered for the tag.
func (c *Cache) SetReloadCallback(tag TypeTag, cb ReloadCallback) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	c.callbacks[tag] = cb
}

// RemoveReloadCallback removes the reload callback for the given type tag.
func (c *Cache) RemoveReloadCallback(tag TypeTag) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	delete(c.callbacks, tag)
}

// snapshotEntries returns the current entries in key order.
func (c *Cache) snapshotEntries() []*entry {
	c.entryMu.RLock()
	entries := make([]*entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.entryMu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key.String() < entries[j].key.String()
	})
	return entries
}

// notFound builds the ErrResourceNotFound error for a key, naming the
// loaders that were searched.
func (c *Cache) notFound(key Key) error {
	names := make([]string, len(c.loaders))
	for i, l := range c.loaders {
		names[i] = l.Name()
	}
	return fmt.Errorf("%w: %q (searched in %s)", ErrResourceNotFound, key, strings.Join(names, ", "))
}
