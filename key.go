package assetcache

import (
	"github.com/cespare/xxhash/v2"
)

// Key identifies an asset by its path-like name, e.g. "meshes/crate.mesh".
// A Key carries a 64-bit hash of the name alongside the name itself: lookups
// compare by hash first, and the retained name makes equality collision-safe.
// Keys are cheap to copy and usable as map keys.
type Key struct {
	hash uint64
	name string
}

// NewKey returns the Key for the given asset name. Names are compared
// verbatim; callers are expected to use forward slashes as path separators.
func NewKey(name string) Key {
	return Key{hash: xxhash.Sum64String(name), name: name}
}

// Hash returns the precomputed hash of the key's name.
func (k Key) Hash() uint64 { return k.hash }

// String returns the asset name the key was created from.
func (k Key) String() string { return k.name }

// IsZero reports whether the key is the zero value, i.e. was not created
// through NewKey.
func (k Key) IsZero() bool { return k == Key{} }

// keyLess orders keys by hash, falling back to the name so that keys with
// colliding hashes still have a total order. The file index relies on this
// ordering for binary search.
func keyLess(a, b Key) bool {
	if a.hash != b.hash {
		return a.hash < b.hash
	}
	return a.name < b.name
}
