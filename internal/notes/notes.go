// Package notes implements the note lifecycle: every mutation consults the
// policy engine with the actor's plan before touching the store, and every
// read is scoped to the actor's tenant with other users' private notes
// hidden.
package notes

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/internal/plan"
)

// Note is a text note owned by a user within a tenant.
type Note struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisibleTo reports whether viewer may read the note: public notes are
// visible to the whole tenant, private notes only to their author.
func (n Note) VisibleTo(viewer uuid.UUID) bool {
	return !n.IsPrivate || n.UserID == viewer
}

// Filter selects notes of one tenant as seen by ViewerID. Limit 0 returns
// every match.
type Filter struct {
	TenantID uuid.UUID
	ViewerID uuid.UUID
	Search   string
	Tags     []string
	Offset   int
	Limit    int
}

// Store persists notes. Get, Update and Delete are tenant scoped and return
// ErrNoteNotFound for notes of other tenants.
type Store interface {
	CountNotesByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// CreateNote inserts n unless the author already has maxNotes notes, in
	// which case it returns ErrLimitExceeded. Check and insert are atomic.
	CreateNote(ctx context.Context, n Note, maxNotes plan.Limit) (Note, error)
	GetNote(ctx context.Context, tenantID, id uuid.UUID) (Note, error)
	UpdateNote(ctx context.Context, n Note) (Note, error)
	DeleteNote(ctx context.Context, tenantID, id uuid.UUID) error
	// ListNotes returns matching notes newest first and the total match count.
	ListNotes(ctx context.Context, f Filter) ([]Note, int64, error)
	// NoteTags returns the distinct tags of notes visible to viewerID, sorted.
	NoteTags(ctx context.Context, tenantID, viewerID uuid.UUID) ([]string, error)
}
