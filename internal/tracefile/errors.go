package tracefile

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrNoInputs is returned by Merge when no fragment is left to merge.
var ErrNoInputs = errors.New("no trace fragments to merge")

// MalformedTraceError reports a fragment that is still not a valid trace
// after repair.
type MalformedTraceError struct {
	Path string
	Err  error
}

func (e *MalformedTraceError) Error() string {
	return fmt.Sprintf("%s: malformed trace: %v", e.Path, e.Err)
}

func (e *MalformedTraceError) Unwrap() error { return e.Err }

// MissingFileError reports an input path that does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: trace file not found", e.Path)
}

// Unwrap lets errors.Is(err, fs.ErrNotExist) match.
func (e *MissingFileError) Unwrap() error { return fs.ErrNotExist }
