package assetcache

import "time"

// Handle is a lightweight, copyable reference to a resource in a Cache.
// A handle carries no lock and holds no load state, so it is safe to store
// for as long as the cache lives. Obtain the resource's data by calling
// Acquire when access is needed.
type Handle[T any, P ResourcePtr[T]] struct {
	key   Key
	entry *entry
}

// Key returns the key the handle refers to.
func (h Handle[T, P]) Key() Key { return h.key }

// Valid reports whether the handle was obtained from a cache, as opposed to
// being the zero value.
func (h Handle[T, P]) Valid() bool { return h.entry != nil }

// Acquire borrows the resource, loading it first if it is not currently in
// memory. While the returned guard is alive the resource cannot be unloaded
// or reloaded. Guards are intended to live on the stack:
//
//	guard, err := handle.Acquire()
//	if err != nil {
//		return err
//	}
//	defer guard.Release()
//	use(guard.Get())
//
// Acquire panics if the entry has already loaded as a different resource
// type; that means two types share one key, which is a programming error.
func (h Handle[T, P]) Acquire() (*Guard[T, P], error) {
	e := h.entry
	if e == nil {
		panic("assetcache: Acquire on zero Handle")
	}
	want := P(new(T)).TypeID()

	e.mu.RLock()
	if e.loaded() {
		e.verifyType(want)
		e.borrows.Add(1)
		e.lastAccess.Store(time.Now().UnixNano())
		e.cache.metrics.hits.Inc()
		// The guard keeps holding the read lock until Release.
		return &Guard[T, P]{entry: e, resource: e.resource.(P)}, nil
	}
	e.mu.RUnlock()

	e.cache.metrics.misses.Inc()

	e.mu.Lock()
	// Re-check: another goroutine may have loaded the entry between the two
	// lock acquisitions.
	if !e.loaded() {
		if err := e.load(P(new(T))); err != nil {
			e.mu.Unlock()
			return nil, err
		}
	}
	e.verifyType(want)
	res := e.resource.(P)
	// Take the borrow before giving up the write lock so the entry cannot be
	// unloaded in the gap before the read lock below is acquired.
	e.borrows.Add(1)
	e.lastAccess.Store(time.Now().UnixNano())
	e.mu.Unlock()

	e.mu.RLock()
	return &Guard[T, P]{entry: e, resource: res}, nil
}

// Guard is a scoped borrow of a loaded resource. It holds the entry's read
// lock and a borrow count for its whole lifetime, so concurrent guards to
// the same resource are fine but the resource cannot be evicted or reloaded
// while any guard is alive.
//
// A guard must not be copied and must be released exactly once, on every
// path including errors; use defer. Do not store guards: store the Handle
// and acquire a guard where access is needed.
type Guard[T any, P ResourcePtr[T]] struct {
	entry    *entry
	resource P
	released bool
}

// Get returns the loaded resource. It must not be called after Release, and
// the returned pointer must not be retained beyond the guard's lifetime.
func (g *Guard[T, P]) Get() P {
	if g.released {
		panic("assetcache: Get on released guard")
	}
	return g.resource
}

// FileTimeStamp returns the timestamp of the file version the resource was
// loaded from.
func (g *Guard[T, P]) FileTimeStamp() time.Time {
	if g.released {
		panic("assetcache: FileTimeStamp on released guard")
	}
	return g.entry.timeStamp
}

// Release ends the borrow, dropping the borrow count and the entry's read
// lock. Releasing a guard twice panics.
func (g *Guard[T, P]) Release() {
	if g.released {
		panic("assetcache: guard released twice")
	}
	g.released = true
	g.entry.borrows.Add(-1)
	g.entry.mu.RUnlock()
}
