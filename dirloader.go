package assetcache

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// DirLoader loads asset files directly from a directory tree. Keys are
// slash-separated paths relative to the root directory, so the file
// <root>/meshes/crate.mesh is available under the key "meshes/crate.mesh".
//
// Directories are convenient while assets are being edited; finished assets
// are better served from an archive (see ZipLoader).
type DirLoader struct {
	fs   afero.Fs
	root string
}

// NewDirLoader returns a DirLoader reading from the given directory on the
// OS filesystem.
func NewDirLoader(root string) *DirLoader {
	return NewDirLoaderFS(afero.NewOsFs(), root)
}

// NewDirLoaderFS returns a DirLoader reading from the given directory on an
// arbitrary filesystem. Tests typically pass an afero.NewMemMapFs.
func NewDirLoaderFS(fsys afero.Fs, root string) *DirLoader {
	return &DirLoader{fs: fsys, root: root}
}

// AvailableFiles walks the directory tree and returns a record for every
// regular file found.
func (d *DirLoader) AvailableFiles() ([]FileRecord, error) {
	var records []FileRecord

	walkFn := func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		records = append(records, FileRecord{
			Key:       NewKey(filepath.ToSlash(rel)),
			TimeStamp: info.ModTime(),
		})
		return nil
	}

	if err := afero.Walk(d.fs, d.root, walkFn); err != nil {
		return nil, fmt.Errorf("listing directory %q: %w", d.root, err)
	}
	return records, nil
}

// FileExists reports whether the key resolves to an existing file.
func (d *DirLoader) FileExists(key Key) bool {
	ok, err := afero.Exists(d.fs, d.path(key))
	return err == nil && ok
}

// FileSize returns the size in bytes of the file for the given key.
func (d *DirLoader) FileSize(key Key) (int64, error) {
	info, err := d.fs.Stat(d.path(key))
	if err != nil {
		return 0, fmt.Errorf("stat %q in %q: %w", key, d.root, err)
	}
	return info.Size(), nil
}

// FileTimeStamp returns the last-modified time of the file for the given key.
func (d *DirLoader) FileTimeStamp(key Key) (time.Time, error) {
	info, err := d.fs.Stat(d.path(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %q in %q: %w", key, d.root, err)
	}
	return info.ModTime(), nil
}

// LoadFile reads the full contents of the file for the given key.
func (d *DirLoader) LoadFile(key Key) ([]byte, error) {
	data, err := afero.ReadFile(d.fs, d.path(key))
	if err != nil {
		return nil, fmt.Errorf("reading %q in %q: %w", key, d.root, err)
	}
	return data, nil
}

// Name returns the root directory path.
func (d *DirLoader) Name() string { return d.root }

func (d *DirLoader) path(key Key) string {
	return filepath.Join(d.root, filepath.FromSlash(key.String()))
}
