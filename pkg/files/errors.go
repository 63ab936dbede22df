package files

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrNotFound indicates the requested file or folder does not exist.
	ErrNotFound = errors.New("path not found")

	// ErrAlreadyExists indicates the destination is already taken.
	ErrAlreadyExists = errors.New("path already exists")

	// ErrInvalidPath indicates a path that escapes the store root or is
	// otherwise unusable.
	ErrInvalidPath = errors.New("invalid path")

	// ErrIsDirectory indicates a file operation was attempted on a folder.
	ErrIsDirectory = errors.New("path is a directory")
)

// PathError wraps one of the sentinel errors with the offending path.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func pathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
