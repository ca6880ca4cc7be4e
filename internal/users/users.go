// Package users manages the members of a tenant: listing, invitations, role
// and plan changes, and account deletion. Every mutation is checked by the
// policy engine against the acting profile.
package users

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/pkg/rbac"
)

// ProfileUpdate lists the fields to change; nil fields are untouched.
type ProfileUpdate struct {
	Role      *rbac.Role
	Plan      *plan.Plan
	UpdatedAt time.Time
}

// Store persists profiles. Lookups are tenant scoped and return
// tenant.ErrProfileNotFound for profiles of other tenants.
type Store interface {
	ListProfiles(ctx context.Context, tenantID uuid.UUID) ([]tenant.Profile, error)
	GetTenantProfile(ctx context.Context, tenantID, id uuid.UUID) (tenant.Profile, error)
	CountProfiles(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// CountOwners counts owners that are not pending invitations.
	CountOwners(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// OwnerPlan returns the plan of the tenant's earliest active owner.
	OwnerPlan(ctx context.Context, tenantID uuid.UUID) (plan.Plan, error)
	// CreateProfile returns ErrEmailTaken when the email is already used.
	CreateProfile(ctx context.Context, p tenant.Profile) (tenant.Profile, error)
	UpdateProfile(ctx context.Context, tenantID, id uuid.UUID, upd ProfileUpdate) (tenant.Profile, error)
	DeleteProfile(ctx context.Context, tenantID, id uuid.UUID) error
}

// ProfileInvalidator drops cached profiles after a change.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}
