package assetcache

import (
	"errors"
	"fmt"
)

// ErrResourceNotFound is returned when a requested key is absent from the
// file index as of the most recent Refresh.
var ErrResourceNotFound = errors.New("resource file not found")

// DataError is returned when a resource's Load reports that the file's
// contents are invalid. The entry remains unloaded; a later access after the
// backing file is corrected will retry the load.
type DataError struct {
	// Key is the resource the load was attempted for.
	Key Key
	// Err is the failure reported by the resource's Load.
	Err error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("resource %q: invalid data: %v", e.Key, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }
