// Package subscription reports plan limits with current usage and changes
// the caller's own plan. No payment is involved: an upgrade only rewrites
// the plan field.
package subscription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/policy"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/internal/users"
	"github.com/dmitrymomot/notekit/pkg/logger"
	"github.com/dmitrymomot/notekit/pkg/validator"
)

// Store is the subset of persistence the subscription service reads and
// writes.
type Store interface {
	CountNotesByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountProfiles(ctx context.Context, tenantID uuid.UUID) (int64, error)
	OwnerPlan(ctx context.Context, tenantID uuid.UUID) (plan.Plan, error)
	UpdateProfile(ctx context.Context, tenantID, id uuid.UUID, upd users.ProfileUpdate) (tenant.Profile, error)
}

// NotesUsage is the actor's note usage.
type NotesUsage struct {
	CanCreate bool       `json:"canCreate"`
	Current   int64      `json:"current"`
	Limit     plan.Limit `json:"limit"`
}

// UsersUsage is the tenant's member usage against the owner's plan.
type UsersUsage struct {
	CanAdd  bool       `json:"canAdd"`
	Current int64      `json:"current"`
	Limit   plan.Limit `json:"limit"`
}

// Usage groups resource usage.
type Usage struct {
	Notes NotesUsage `json:"notes"`
	Users UsersUsage `json:"users"`
}

// Overview is the limits endpoint payload.
type Overview struct {
	Limits plan.Limits `json:"limits"`
	Usage  Usage       `json:"usage"`
}

// Service reads and changes subscription state.
type Service struct {
	store Store
	cache users.ProfileInvalidator
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates a Service. cache may be nil.
func NewService(store Store, cache users.ProfileInvalidator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store: store,
		cache: cache,
		log:   log.With(logger.Component("subscription")),
		now:   time.Now,
	}
}

// Limits returns the actor's plan limits and current usage.
func (s *Service) Limits(ctx context.Context, actor tenant.Profile) (Overview, error) {
	notes, err := s.store.CountNotesByUser(ctx, actor.ID)
	if err != nil {
		return Overview{}, err
	}
	members, err := s.store.CountProfiles(ctx, actor.TenantID)
	if err != nil {
		return Overview{}, err
	}
	ownerPlan, err := s.store.OwnerPlan(ctx, actor.TenantID)
	if err != nil {
		return Overview{}, err
	}

	noteDecision := policy.CanCreateNote(notes, actor.Plan)
	userDecision := policy.CanAddUser(members, ownerPlan)
	return Overview{
		Limits: plan.LimitsFor(actor.Plan),
		Usage: Usage{
			Notes: NotesUsage{CanCreate: noteDecision.Allowed, Current: notes, Limit: noteDecision.Limit},
			Users: UsersUsage{CanAdd: userDecision.Allowed, Current: members, Limit: userDecision.Limit},
		},
	}, nil
}

// UpgradeInput is the upgrade request body.
type UpgradeInput struct {
	Plan string `json:"plan"`
}

// Upgrade sets the actor's own plan.
func (s *Service) Upgrade(ctx context.Context, actor tenant.Profile, in UpgradeInput) (tenant.Profile, error) {
	p, err := plan.Parse(in.Plan)
	if err != nil {
		return tenant.Profile{}, errors.Join(err, validator.ValidationErrors{
			{Field: "plan", Message: "Invalid subscription plan"},
		})
	}
	if !policy.CanChangePlan(actor.Role, true) {
		return tenant.Profile{}, policy.ErrInsufficientPermissions
	}

	updated, err := s.store.UpdateProfile(ctx, actor.TenantID, actor.ID, users.ProfileUpdate{
		Plan:      &p,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return tenant.Profile{}, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, actor.ID)
	}

	s.log.InfoContext(ctx, "plan changed",
		logger.Plan(p.String()),
		slog.String("previous_plan", actor.Plan.String()),
	)
	return updated, nil
}
