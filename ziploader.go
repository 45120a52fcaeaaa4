package assetcache

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// ZipLoader loads asset files from a zip archive. Keys correspond to the
// entry names inside the archive. The archive is opened once at construction
// and kept open until Close is called.
type ZipLoader struct {
	name   string
	rc     *zip.ReadCloser
	byName map[string]*zip.File
}

// OpenZipLoader opens the zip archive at the given path.
func OpenZipLoader(path string) (*ZipLoader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %q: %w", path, err)
	}

	byName := make(map[string]*zip.File, len(rc.File))
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		byName[f.Name] = f
	}

	return &ZipLoader{name: path, rc: rc, byName: byName}, nil
}

// Close releases the underlying archive file.
func (z *ZipLoader) Close() error {
	return z.rc.Close()
}

// AvailableFiles returns a record for every file entry in the archive.
func (z *ZipLoader) AvailableFiles() ([]FileRecord, error) {
	records := make([]FileRecord, 0, len(z.byName))
	for name, f := range z.byName {
		records = append(records, FileRecord{
			Key:       NewKey(name),
			TimeStamp: f.Modified,
		})
	}
	return records, nil
}

// FileExists reports whether the archive contains an entry for the key.
func (z *ZipLoader) FileExists(key Key) bool {
	_, ok := z.byName[key.String()]
	return ok
}

// FileSize returns the uncompressed size of the archive entry.
func (z *ZipLoader) FileSize(key Key) (int64, error) {
	f, ok := z.byName[key.String()]
	if !ok {
		return 0, fmt.Errorf("no entry %q in archive %q", key, z.name)
	}
	return int64(f.UncompressedSize64), nil
}

// FileTimeStamp returns the modification time of the archive entry.
func (z *ZipLoader) FileTimeStamp(key Key) (time.Time, error) {
	f, ok := z.byName[key.String()]
	if !ok {
		return time.Time{}, fmt.Errorf("no entry %q in archive %q", key, z.name)
	}
	return f.Modified, nil
}

// LoadFile decompresses and returns the full contents of the archive entry.
func (z *ZipLoader) LoadFile(key Key) ([]byte, error) {
	f, ok := z.byName[key.String()]
	if !ok {
		return nil, fmt.Errorf("no entry %q in archive %q", key, z.name)
	}

	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %q in archive %q: %w", key, z.name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading entry %q in archive %q: %w", key, z.name, err)
	}
	return data, nil
}

// Name returns the archive path.
func (z *ZipLoader) Name() string { return z.name }
