package users

import "errors"

var (
	ErrUserNotFound = errors.New("users: user not found")
	ErrEmailTaken   = errors.New("users: email already registered")
	ErrNoOp         = errors.New("users: no valid updates provided")
)
