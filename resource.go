package assetcache

// TypeTag identifies a concrete resource type at runtime. Every resource
// type reports a tag unique to it; the cache records the tag of an entry's
// first successful load and uses it to reject accesses through a handle of
// the wrong type.
type TypeTag string

// Resource is the contract every loadable resource type implements. Resource
// instances are constructed by the cache (see ResourcePtr) and initialized by
// Load, which receives the raw file bytes through a LoadContext.
type Resource interface {
	// Load initializes the resource from raw file data. A non-nil error marks
	// the data as invalid; the cache surfaces it as a *DataError and the
	// entry remains unloaded.
	Load(input *LoadContext) error

	// ShouldReloadOnFileChange reports whether the cache should reload this
	// resource when Refresh detects that its backing file (or one of its
	// dependencies) has changed.
	ShouldReloadOnFileChange() bool

	// TypeID returns the tag identifying the concrete resource type. By
	// convention it matches the type name, e.g. "MeshResource".
	TypeID() TypeTag
}

// ResourcePtr constrains a resource implementation to its pointer type. The
// cache creates instances lazily via new(T), so resource types must implement
// Resource on their pointer receiver.
type ResourcePtr[T any] interface {
	*T
	Resource
}

// LoadContext is the input to a resource's Load. It carries the raw file
// bytes and provides access to the owning cache so composite resources can
// load the resources they depend on.
type LoadContext struct {
	data  []byte
	cache *Cache
	entry *entry
}

// Bytes returns the raw contents of the resource's file.
func (in *LoadContext) Bytes() []byte { return in.data }

// Text returns the raw contents of the resource's file as a string.
func (in *LoadContext) Text() string { return string(in.data) }

// Key returns the key of the resource being loaded.
func (in *LoadContext) Key() Key { return in.entry.key }

// LoadDependency resolves another resource through the owning cache and
// marks the resource currently being loaded as dependent on it. The
// dependency is recorded with the timestamp of its current file version, so
// a later Refresh can detect that the dependent needs reloading when the
// dependency's file changes.
//
// The returned guard is for use during the remainder of Load; release it
// before returning.
func LoadDependency[T any, P ResourcePtr[T]](in *LoadContext, key Key) (*Guard[T, P], error) {
	// Look up the timestamp first: it fails cleanly if the dependency is
	// unknown, before anything is recorded.
	ts, err := in.cache.FileTimeStamp(key)
	if err != nil {
		return nil, err
	}

	guard, err := Access[T, P](in.cache, key)
	if err != nil {
		return nil, err
	}

	// The loading goroutine holds the entry's write lock, so appending here
	// is safe.
	in.entry.dependencies = append(in.entry.dependencies, dependency{key: key, timeStamp: ts})
	return guard, nil
}
