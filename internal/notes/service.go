package notes

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
)

// Service runs note operations on behalf of an actor.
type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

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

// NewService creates a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("notes"))
	return s
}

// Create validates the input, checks the note limit and plan features and
// stores a new note owned by actor.
func (s *Service) Create(ctx context.Context, actor tenant.Profile, in CreateInput) (Note, error) {
	if err := in.validate(); err != nil {
		return Note{}, err
	}

	count, err := s.store.CountNotesByUser(ctx, actor.ID)
	if err != nil {
		return Note{}, err
	}
	if err := policy.CanCreateNote(count, actor.Plan).Err(); err != nil {
		return Note{}, err
	}
	if in.IsPrivate {
		if err := policy.RequireFeature(actor.Plan, plan.FeaturePrivateNotes); err != nil {
			return Note{}, err
		}
	}
	tags := NormalizeTags(in.Tags)
	if len(tags) > 0 {
		if err := policy.RequireFeature(actor.Plan, plan.FeatureTags); err != nil {
			return Note{}, err
		}
	}

	now := s.now().UTC()
	maxNotes := plan.LimitsFor(actor.Plan).MaxNotes
	n, err := s.store.CreateNote(ctx, Note{
		ID:        uuid.New(),
		TenantID:  actor.TenantID,
		UserID:    actor.ID,
		Title:     in.Title,
		Content:   in.Content,
		Tags:      tags,
		IsPrivate: in.IsPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}, maxNotes)
	if errors.Is(err, ErrLimitExceeded) {
		// Lost the race against a concurrent create.
		return Note{}, policy.CanCreateNote(int64(maxNotes), actor.Plan).Err()
	}
	if err != nil {
		return Note{}, err
	}

	s.log.DebugContext(ctx, "note created", logger.NoteID(n.ID))
	return n, nil
}

// Get returns a note of the actor's tenant. Private notes of other users are
// reported as not found.
func (s *Service) Get(ctx context.Context, actor tenant.Profile, id uuid.UUID) (Note, error) {
	n, err := s.store.GetNote(ctx, actor.TenantID, id)
	if err != nil {
		return Note{}, err
	}
	if !n.VisibleTo(actor.ID) {
		return Note{}, ErrNoteNotFound
	}
	return n, nil
}

// Update applies the supplied fields. Making a note private requires the
// privateNotes feature and setting non-empty tags requires the tags feature.
func (s *Service) Update(ctx context.Context, actor tenant.Profile, id uuid.UUID, in UpdateInput) (Note, error) {
	n, err := s.Get(ctx, actor, id)
	if err != nil {
		return Note{}, err
	}

	if in.IsPrivate != nil && *in.IsPrivate {
		if err := policy.RequireFeature(actor.Plan, plan.FeaturePrivateNotes); err != nil {
			return Note{}, err
		}
	}
	var tags []string
	if in.Tags != nil {
		tags = NormalizeTags(*in.Tags)
		if len(tags) > 0 {
			if err := policy.RequireFeature(actor.Plan, plan.FeatureTags); err != nil {
				return Note{}, err
			}
		}
	}
	if err := in.validate(); err != nil {
		return Note{}, err
	}

	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.Tags != nil {
		n.Tags = tags
	}
	if in.IsPrivate != nil {
		n.IsPrivate = *in.IsPrivate
	}
	n.UpdatedAt = s.now().UTC()
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}

	return s.store.UpdateNote(ctx, n)
}

// Delete removes a note of the actor's tenant. Private notes of other users
// are reported as not found.
func (s *Service) Delete(ctx context.Context, actor tenant.Profile, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteNote(ctx, actor.TenantID, id); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "note deleted", logger.NoteID(id))
	return nil
}

// List returns a page of notes visible to the actor, newest first.
func (s *Service) List(ctx context.Context, actor tenant.Profile, q ListQuery) (Page, error) {
	q = q.normalize()

	items, total, err := s.store.ListNotes(ctx, Filter{
		TenantID: actor.TenantID,
		ViewerID: actor.ID,
		Search:   q.Search,
		Tags:     q.Tags,
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	})
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []Note{}
	}

	return Page{
		Notes: items,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: (total + int64(q.Limit) - 1) / int64(q.Limit),
		},
	}, nil
}

// Tags returns the distinct tags of notes visible to the actor.
func (s *Service) Tags(ctx context.Context, actor tenant.Profile) ([]string, error) {
	tags, err := s.store.NoteTags(ctx, actor.TenantID, actor.ID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// Export returns every note visible to the actor, newest first, for the
// given format. Requires the export feature.
func (s *Service) Export(ctx context.Context, actor tenant.Profile, format string) (Export, error) {
	if err := policy.RequireFeature(actor.Plan, plan.FeatureExport); err != nil {
		return Export{}, err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return Export{}, err
	}

	items, _, err := s.store.ListNotes(ctx, Filter{TenantID: actor.TenantID, ViewerID: actor.ID})
	if err != nil {
		return Export{}, err
	}
	if items == nil {
		items = []Note{}
	}

	s.log.InfoContext(ctx, "notes exported", slog.String("format", string(f)), slog.Int("count", len(items)))
	return Export{Format: f, Notes: items}, nil
}
