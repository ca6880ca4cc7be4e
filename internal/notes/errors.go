package notes

import "errors"

var (
	ErrNoteNotFound      = errors.New("notes: note not found")
	ErrLimitExceeded     = errors.New("notes: note limit exceeded")
	ErrUnsupportedFormat = errors.New("notes: unsupported export format")
)
