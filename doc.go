// Package assetcache is an in-process cache mapping named asset files to
// lazily constructed, strongly typed in-memory resources.
//
// Asset bytes come from pluggable file loaders — directory trees (DirLoader)
// and zip archives (ZipLoader) — whose listings the cache merges into a
// single file index. When the same key is visible through several loaders,
// the freshest version wins.
//
// # Resources, handles and guards
//
// A resource type implements the Resource interface on its pointer receiver.
// Clients obtain a Handle for a key and borrow the resource through a Guard:
//
//	cache, err := assetcache.New([]assetcache.FileLoader{
//		assetcache.NewDirLoader("data"),
//	})
//	...
//	guard, err := assetcache.Access[MeshResource](cache, assetcache.NewKey("crates/crate.mesh"))
//	if err != nil {
//		return err
//	}
//	defer guard.Release()
//	draw(guard.Get())
//
// Handles are cheap, copyable and safe to store; guards are scoped borrows
// that pin the resource in memory for their lifetime. The first guard
// acquired for a key loads the resource; concurrent guards to a loaded
// resource proceed in parallel. A resource's Load may itself borrow other
// resources through LoadDependency, which records the dependency so file
// changes propagate to dependents on Refresh.
//
// # Eviction and hot-reload
//
// UnloadUnused discards the least recently accessed resource that no guard
// currently borrows (or all such resources); entries themselves are
// permanent, so existing handles survive eviction and simply reload on next
// access. Refresh re-scans the loaders, atomically replaces the file index,
// and unloads opted-in resources whose backing files changed, firing any
// reload callback registered for their type.
//
// # Errors
//
// A missing key yields ErrResourceNotFound; invalid file contents yield a
// *DataError and leave the entry unloaded. Requesting one key as two
// different resource types panics: that is a programming error, not a
// runtime condition.
package assetcache
