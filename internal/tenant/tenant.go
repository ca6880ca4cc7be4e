// Package tenant resolves the authenticated identity to its Profile and
// bootstraps a tenant for identities seen for the first time.
//
// Resolution order: profile cache, stored profile, pending invitation for the
// identity's email, and finally bootstrap of a new tenant whose first profile
// is the owner on the free plan.
package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/pkg/rbac"
)

// Tenant is an organization, the unit of data isolation.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is a user's membership in exactly one tenant. Its ID equals the
// identity id issued by the identity provider. Pending profiles were created
// by an invitation and have not signed in yet.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Role      rbac.Role `json:"role"`
	Plan      plan.Plan `json:"subscription_plan"`
	Pending   bool      `json:"pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOwner reports whether the profile has the owner role.
func (p Profile) IsOwner() bool { return p.Role == rbac.RoleOwner }

// Identity is the authenticated caller as reported by the identity provider.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// BootstrapParams describes the tenant and owner profile created on first
// sign in.
type BootstrapParams struct {
	TenantID   uuid.UUID
	TenantName string
	TenantSlug string
	ProfileID  uuid.UUID
	Email      string
	Now        time.Time
}

// Store persists tenants and profiles.
type Store interface {
	// GetProfile returns ErrProfileNotFound when no profile has id.
	GetProfile(ctx context.Context, id uuid.UUID) (Profile, error)
	// ClaimInvitation binds the pending profile for email to identity id and
	// clears its pending flag. Returns ErrProfileNotFound when there is none.
	ClaimInvitation(ctx context.Context, email string, id uuid.UUID) (Profile, error)
	// Bootstrap creates the tenant and its owner profile atomically.
	// Returns ErrSlugTaken, ErrProfileExists, ErrTenantCreationFailed or
	// ErrProfileCreationFailed.
	Bootstrap(ctx context.Context, params BootstrapParams) (Profile, error)
}
