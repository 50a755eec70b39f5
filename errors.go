package disruptdb

import (
	"errors"
	"fmt"
)

var (
	// ErrEquivalence is returned when a compacted record fails verification
	// against its source document. It indicates a compaction bug, never bad
	// input, and always aborts the run.
	ErrEquivalence = errors.New("compacted record does not match its source")

	// ErrRoundTrip is returned when a serialized database decodes into
	// something other than the database that was written.
	ErrRoundTrip = errors.New("decoded database does not match the original")
)

// FileError attaches the offending file path to an ingestion failure.
//
// The original underlying error can be accessed via errors.Unwrap.
type FileError struct {
	Path  string
	cause error
}

// NewFileError wraps cause with the path of the file being processed.
func NewFileError(path string, cause error) *FileError {
	return &FileError{Path: path, cause: cause}
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.cause)
}

func (e *FileError) Unwrap() error { return e.cause }
