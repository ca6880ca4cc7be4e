package users

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/policy"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/pkg/logger"
	"github.com/dmitrymomot/notekit/pkg/rbac"
	"github.com/dmitrymomot/notekit/pkg/validator"
)

// Service runs user management operations on behalf of an actor.
type Service struct {
	store   Store
	cache   ProfileInvalidator
	invites Inviter
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithInvalidator sets the profile cache invalidator.
func WithInvalidator(c ProfileInvalidator) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithInviter sets the invitation sender.
func WithInviter(i Inviter) Option {
	return func(s *Service) {
		if i != nil {
			s.invites = i
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, ...uuid.UUID) {}

type nopInviter struct{}

func (nopInviter) SendInvitation(context.Context, Invitation) error { return nil }

// NewService creates a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		cache:   nopInvalidator{},
		invites: nopInviter{},
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("users"))
	return s
}

// List returns the profiles of the actor's tenant, newest first.
func (s *Service) List(ctx context.Context, actor tenant.Profile) ([]tenant.Profile, error) {
	items, err := s.store.ListProfiles(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []tenant.Profile{}
	}
	return items, nil
}

// Invite creates a pending profile in the actor's tenant and sends the
// invitation email. Delivery failures are logged and do not fail the call.
func (s *Service) Invite(ctx context.Context, actor tenant.Profile, in InviteInput) (tenant.Profile, error) {
	if !policy.CanManageUsers(actor.Role) {
		return tenant.Profile{}, policy.ErrInsufficientPermissions
	}

	email, role, err := in.parse()
	if err != nil {
		return tenant.Profile{}, err
	}
	if role != rbac.RoleMember && !policy.CanChangeRole(actor.Role) {
		return tenant.Profile{}, policy.ErrInsufficientPermissions
	}

	count, err := s.store.CountProfiles(ctx, actor.TenantID)
	if err != nil {
		return tenant.Profile{}, err
	}
	ownerPlan, err := s.store.OwnerPlan(ctx, actor.TenantID)
	if err != nil {
		return tenant.Profile{}, err
	}
	if err := policy.CanAddUser(count, ownerPlan).Err(); err != nil {
		return tenant.Profile{}, err
	}

	now := s.now().UTC()
	p, err := s.store.CreateProfile(ctx, tenant.Profile{
		ID:        uuid.New(),
		Email:     tenant.NormalizeEmail(email),
		TenantID:  actor.TenantID,
		Role:      role,
		Plan:      plan.Free,
		Pending:   true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, ErrEmailTaken) {
		return tenant.Profile{}, errors.Join(err, validator.ValidationErrors{
			{Field: "email", Message: "User already exists"},
		})
	}
	if err != nil {
		return tenant.Profile{}, err
	}

	s.log.InfoContext(ctx, "user invited", logger.UserID(p.ID), logger.Role(role.String()))

	if err := s.invites.SendInvitation(ctx, Invitation{Profile: p, InvitedBy: actor}); err != nil {
		s.log.ErrorContext(ctx, "invitation email not sent", logger.UserID(p.ID), logger.Error(err))
	}
	return p, nil
}

// Update changes the target's role and/or plan. Role changes need the
// owner role, plan changes need a manager role or the actor's own profile.
// Unauthorized fields are dropped; if nothing is left the call fails with
// ErrNoOp.
func (s *Service) Update(ctx context.Context, actor tenant.Profile, targetID uuid.UUID, in UpdateInput) (tenant.Profile, error) {
	target, err := s.targetProfile(ctx, actor, targetID)
	if err != nil {
		return tenant.Profile{}, err
	}

	isSelf := actor.ID == targetID
	if !isSelf && !policy.CanManageUsers(actor.Role) {
		return tenant.Profile{}, policy.ErrInsufficientPermissions
	}

	role, p, err := in.parse()
	if err != nil {
		return tenant.Profile{}, err
	}

	upd := ProfileUpdate{UpdatedAt: s.now().UTC()}
	if role != nil && policy.CanChangeRole(actor.Role) {
		upd.Role = role
	}
	if p != nil && policy.CanChangePlan(actor.Role, isSelf) {
		upd.Plan = p
	}
	if upd.Role == nil && upd.Plan == nil {
		return tenant.Profile{}, ErrNoOp
	}

	if upd.Role != nil && target.IsOwner() && !target.Pending {
		owners, err := s.store.CountOwners(ctx, actor.TenantID)
		if err != nil {
			return tenant.Profile{}, err
		}
		if err := policy.CanRemoveOwner(owners, target.Role, upd.Role).Err(); err != nil {
			return tenant.Profile{}, err
		}
	}

	updated, err := s.store.UpdateProfile(ctx, actor.TenantID, targetID, upd)
	if err != nil {
		return tenant.Profile{}, s.mapNotFound(err)
	}
	s.cache.Invalidate(ctx, targetID)

	s.log.InfoContext(ctx, "user updated",
		logger.UserID(targetID),
		logger.Role(updated.Role.String()),
		logger.Plan(updated.Plan.String()),
	)
	return updated, nil
}

// Delete removes the target profile and, through the store, its notes.
func (s *Service) Delete(ctx context.Context, actor tenant.Profile, targetID uuid.UUID) error {
	if err := policy.CanDeleteUser(actor.Role, actor.ID == targetID).Err(); err != nil {
		return err
	}

	target, err := s.targetProfile(ctx, actor, targetID)
	if err != nil {
		return err
	}
	if target.IsOwner() && !target.Pending {
		owners, err := s.store.CountOwners(ctx, actor.TenantID)
		if err != nil {
			return err
		}
		if err := policy.CanRemoveOwner(owners, target.Role, nil).Err(); err != nil {
			return err
		}
	}

	if err := s.store.DeleteProfile(ctx, actor.TenantID, targetID); err != nil {
		return s.mapNotFound(err)
	}
	s.cache.Invalidate(ctx, targetID)

	s.log.InfoContext(ctx, "user deleted", logger.UserID(targetID))
	return nil
}

func (s *Service) targetProfile(ctx context.Context, actor tenant.Profile, id uuid.UUID) (tenant.Profile, error) {
	p, err := s.store.GetTenantProfile(ctx, actor.TenantID, id)
	if err != nil {
		return tenant.Profile{}, s.mapNotFound(err)
	}
	return p, nil
}

func (s *Service) mapNotFound(err error) error {
	if errors.Is(err, tenant.ErrProfileNotFound) {
		return errors.Join(ErrUserNotFound, err)
	}
	return err
}
