package assetcache

import "time"

// FileRecord describes a single file available through a FileLoader.
type FileRecord struct {
	// Key is the asset name of the file, relative to the loader's root.
	Key Key
	// TimeStamp is the file's last-modified time as reported by the loader.
	TimeStamp time.Time
}

// FileLoader is a source of raw asset bytes, typically a directory tree or an
// archive file. The cache merges the listings of all its loaders into a
// single file index; when the same key is available through several loaders,
// the one reporting the greatest timestamp wins.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type FileLoader interface {
	// AvailableFiles enumerates every file the loader currently provides.
	AvailableFiles() ([]FileRecord, error)

	// FileExists reports whether the loader can provide the given key.
	FileExists(key Key) bool

	// FileSize returns the size in bytes of the given file.
	FileSize(key Key) (int64, error)

	// FileTimeStamp returns the last-modified time of the given file.
	FileTimeStamp(key Key) (time.Time, error)

	// LoadFile reads the full contents of the given file.
	// It fails if the key is not available through this loader.
	LoadFile(key Key) ([]byte, error)

	// Name returns a human-readable label for the loader, e.g. the directory
	// path or archive filename. Used for diagnostics only.
	Name() string
}
