package probe

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrNotFound classifies probes of files that do not exist.
var ErrNotFound = errors.New("media file not found")

// NotFoundError names the missing file. It matches both ErrNotFound and
// fs.ErrNotExist under errors.Is.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the file '%s' does not exist", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == fs.ErrNotExist
}
