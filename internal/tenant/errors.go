package tenant

import "errors"

var (
	ErrProfileNotFound       = errors.New("tenant: profile not found")
	ErrSlugTaken             = errors.New("tenant: slug already taken")
	ErrProfileExists         = errors.New("tenant: profile already exists")
	ErrTenantCreationFailed  = errors.New("tenant: failed to create tenant")
	ErrProfileCreationFailed = errors.New("tenant: failed to create profile")
	ErrNoIdentity            = errors.New("tenant: no authenticated identity")
	ErrNoProfileInContext    = errors.New("tenant: no profile in context")
)
