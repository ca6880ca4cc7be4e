package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrInvalidJSON          = errors.New("binder: invalid JSON")
	ErrInvalidQuery         = errors.New("binder: invalid query parameter")
	ErrInvalidPath          = errors.New("binder: invalid path parameter")
	ErrInvalidTarget        = errors.New("binder: target must be a non-nil pointer to struct")
)
