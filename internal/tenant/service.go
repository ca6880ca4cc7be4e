package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/pkg/logger"
	"github.com/dmitrymomot/notekit/pkg/slug"
)

const (
	slugMaxLength  = 48
	slugFallback   = "user"
	defaultOrgName = "User's Organization"
)

// Service resolves identities to profiles.
type Service struct {
	store Store
	cache ProfileCache
	log   *slog.Logger
	now   func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCache sets the profile cache. Nil keeps the no-op cache.
func WithCache(c ProfileCache) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		cache: NopCache(),
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("tenant"))
	return s
}

// Resolve returns the profile for id, creating it on first sign in.
func (s *Service) Resolve(ctx context.Context, id Identity) (Profile, error) {
	if p, ok, err := s.cache.Get(ctx, id.UserID); err != nil {
		s.log.WarnContext(ctx, "profile cache read failed", logger.UserID(id.UserID), logger.Error(err))
	} else if ok {
		return p, nil
	}

	p, err := s.store.GetProfile(ctx, id.UserID)
	switch {
	case err == nil:
	case errors.Is(err, ErrProfileNotFound):
		if p, err = s.firstSignIn(ctx, id); err != nil {
			return Profile{}, err
		}
	default:
		return Profile{}, err
	}

	s.remember(ctx, p)
	return p, nil
}

// Invalidate drops cached profiles. Failures are logged only.
func (s *Service) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, ids...); err != nil {
		s.log.WarnContext(ctx, "profile cache invalidation failed", logger.Error(err))
	}
}

func (s *Service) remember(ctx context.Context, p Profile) {
	if err := s.cache.Set(ctx, p); err != nil {
		s.log.WarnContext(ctx, "profile cache write failed", logger.UserID(p.ID), logger.Error(err))
	}
}

func (s *Service) firstSignIn(ctx context.Context, id Identity) (Profile, error) {
	email := NormalizeEmail(id.Email)

	if email != "" {
		p, err := s.store.ClaimInvitation(ctx, email, id.UserID)
		if err == nil {
			s.log.InfoContext(ctx, "invitation claimed", logger.UserID(p.ID), logger.TenantID(p.TenantID))
			return p, nil
		}
		if errors.Is(err, ErrProfileExists) {
			return s.store.GetProfile(ctx, id.UserID)
		}
		if !errors.Is(err, ErrProfileNotFound) {
			return Profile{}, err
		}
	}

	return s.bootstrap(ctx, id.UserID, email)
}

func (s *Service) bootstrap(ctx context.Context, userID uuid.UUID, email string) (Profile, error) {
	local, _, _ := strings.Cut(email, "@")
	now := s.now().UTC()

	params := BootstrapParams{
		TenantID:   uuid.New(),
		TenantName: OrganizationName(email),
		TenantSlug: slug.Make(local,
			slug.MaxLength(slugMaxLength),
			slug.Fallback(slugFallback),
			slug.WithSuffix(strconv.FormatInt(now.UnixMilli(), 10)),
		),
		ProfileID: userID,
		Email:     email,
		Now:       now,
	}

	p, err := s.store.Bootstrap(ctx, params)
	if errors.Is(err, ErrSlugTaken) {
		s.log.WarnContext(ctx, "tenant slug taken, retrying", slog.String("slug", params.TenantSlug), logger.RetryCount(1))
		params.TenantID = uuid.New()
		params.TenantSlug = slug.Make(local,
			slug.MaxLength(slugMaxLength),
			slug.Fallback(slugFallback),
			slug.WithSuffix(fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])),
		)
		p, err = s.store.Bootstrap(ctx, params)
		if errors.Is(err, ErrSlugTaken) {
			return Profile{}, errors.Join(ErrTenantCreationFailed, err)
		}
	}
	if errors.Is(err, ErrProfileExists) {
		// A concurrent request for the same identity won the race.
		return s.store.GetProfile(ctx, userID)
	}
	if err != nil {
		return Profile{}, err
	}

	s.log.InfoContext(ctx, "tenant bootstrapped",
		logger.UserID(p.ID),
		logger.TenantID(p.TenantID),
		slog.String("slug", params.TenantSlug),
	)
	return p, nil
}

// OrganizationName is the default name of a bootstrapped tenant.
func OrganizationName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if strings.TrimSpace(local) == "" {
		return defaultOrgName
	}
	return local + "'s Organization"
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
