package jwt

import "errors"

var (
	ErrMissingSigningKey       = errors.New("jwt: missing signing key")
	ErrMissingToken            = errors.New("jwt: missing token")
	ErrInvalidToken            = errors.New("jwt: invalid token")
	ErrExpiredToken            = errors.New("jwt: token is expired")
	ErrInvalidClaims           = errors.New("jwt: invalid claims")
	ErrUnexpectedSigningMethod = errors.New("jwt: unexpected signing method")
)
