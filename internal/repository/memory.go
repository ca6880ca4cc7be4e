package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/internal/notes"
	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/subscription"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/internal/users"
	"github.com/dmitrymomot/notekit/pkg/rbac"
)

var (
	_ tenant.Store       = (*Memory)(nil)
	_ notes.Store        = (*Memory)(nil)
	_ users.Store        = (*Memory)(nil)
	_ subscription.Store = (*Memory)(nil)
)

type memNote struct {
	notes.Note
	seq int64
}

type memProfile struct {
	tenant.Profile
	seq int64
}

// Memory is an in-process store with the same constraints as the Postgres
// schema: unique slugs and emails, cascading deletes, atomic note limits.
type Memory struct {
	mu       sync.RWMutex
	seq      int64
	tenants  map[uuid.UUID]tenant.Tenant
	profiles map[uuid.UUID]memProfile
	notes    map[uuid.UUID]memNote
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		tenants:  make(map[uuid.UUID]tenant.Tenant),
		profiles: make(map[uuid.UUID]memProfile),
		notes:    make(map[uuid.UUID]memNote),
	}
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) next() int64 {
	m.seq++
	return m.seq
}

func cloneNote(n notes.Note) notes.Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}

// newestFirst orders by creation time descending, then insertion order.
func newestFirst[T any](items []T, created func(T) (int64, int64)) {
	slices.SortStableFunc(items, func(a, b T) int {
		at, as := created(a)
		bt, bs := created(b)
		if c := cmp.Compare(bt, at); c != 0 {
			return c
		}
		return cmp.Compare(bs, as)
	})
}

// Tenants and profiles.

func (m *Memory) GetProfile(_ context.Context, id uuid.UUID) (tenant.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return tenant.Profile{}, tenant.ErrProfileNotFound
	}
	return p.Profile, nil
}

func (m *Memory) ClaimInvitation(_ context.Context, email string, id uuid.UUID) (tenant.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[id]; exists {
		return tenant.Profile{}, tenant.ErrProfileExists
	}
	for oldID, p := range m.profiles {
		if !p.Pending || p.Email != email {
			continue
		}
		delete(m.profiles, oldID)
		p.ID = id
		p.Pending = false
		m.profiles[id] = p
		for nid, n := range m.notes {
			if n.UserID == oldID {
				n.UserID = id
				m.notes[nid] = n
			}
		}
		return p.Profile, nil
	}
	return tenant.Profile{}, tenant.ErrProfileNotFound
}

func (m *Memory) Bootstrap(_ context.Context, params tenant.BootstrapParams) (tenant.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tenants {
		if t.Slug == params.TenantSlug {
			return tenant.Profile{}, tenant.ErrSlugTaken
		}
	}
	if _, exists := m.profiles[params.ProfileID]; exists {
		return tenant.Profile{}, tenant.ErrProfileExists
	}
	if m.emailTaken(params.Email) {
		return tenant.Profile{}, tenant.ErrProfileCreationFailed
	}

	m.tenants[params.TenantID] = tenant.Tenant{
		ID:        params.TenantID,
		Name:      params.TenantName,
		Slug:      params.TenantSlug,
		CreatedAt: params.Now,
		UpdatedAt: params.Now,
	}
	p := tenant.Profile{
		ID:        params.ProfileID,
		Email:     params.Email,
		TenantID:  params.TenantID,
		Role:      rbac.RoleOwner,
		Plan:      plan.Free,
		CreatedAt: params.Now,
		UpdatedAt: params.Now,
	}
	m.profiles[p.ID] = memProfile{Profile: p, seq: m.next()}
	return p, nil
}

// Tenant returns a stored tenant.
func (m *Memory) Tenant(id uuid.UUID) (tenant.Tenant, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tenants[id]
	return t, ok
}

func (m *Memory) emailTaken(email string) bool {
	for _, p := range m.profiles {
		if p.Email == email {
			return true
		}
	}
	return false
}

func (m *Memory) ListProfiles(_ context.Context, tenantID uuid.UUID) ([]tenant.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []memProfile
	for _, p := range m.profiles {
		if p.TenantID == tenantID {
			items = append(items, p)
		}
	}
	newestFirst(items, func(p memProfile) (int64, int64) { return p.CreatedAt.UnixNano(), p.seq })

	out := make([]tenant.Profile, len(items))
	for i, p := range items {
		out[i] = p.Profile
	}
	return out, nil
}

func (m *Memory) GetTenantProfile(_ context.Context, tenantID, id uuid.UUID) (tenant.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok || p.TenantID != tenantID {
		return tenant.Profile{}, tenant.ErrProfileNotFound
	}
	return p.Profile, nil
}

func (m *Memory) CountProfiles(_ context.Context, tenantID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, p := range m.profiles {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountOwners(_ context.Context, tenantID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, p := range m.profiles {
		if p.TenantID == tenantID && p.IsOwner() && !p.Pending {
			n++
		}
	}
	return n, nil
}

func (m *Memory) OwnerPlan(_ context.Context, tenantID uuid.UUID) (plan.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var owner *memProfile
	for _, p := range m.profiles {
		if p.TenantID != tenantID || !p.IsOwner() || p.Pending {
			continue
		}
		if owner == nil || p.CreatedAt.Before(owner.CreatedAt) ||
			(p.CreatedAt.Equal(owner.CreatedAt) && p.seq < owner.seq) {
			owner = &p
		}
	}
	if owner == nil {
		return plan.Free, nil
	}
	return owner.Plan, nil
}

func (m *Memory) CreateProfile(_ context.Context, p tenant.Profile) (tenant.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTaken(p.Email) {
		return tenant.Profile{}, users.ErrEmailTaken
	}
	if _, ok := m.tenants[p.TenantID]; !ok {
		return tenant.Profile{}, ErrStore
	}
	m.profiles[p.ID] = memProfile{Profile: p, seq: m.next()}
	return p, nil
}

func (m *Memory) UpdateProfile(_ context.Context, tenantID, id uuid.UUID, upd users.ProfileUpdate) (tenant.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok || p.TenantID != tenantID {
		return tenant.Profile{}, tenant.ErrProfileNotFound
	}
	if upd.Role != nil {
		p.Role = *upd.Role
	}
	if upd.Plan != nil {
		p.Plan = *upd.Plan
	}
	p.UpdatedAt = upd.UpdatedAt
	m.profiles[id] = p
	return p.Profile, nil
}

func (m *Memory) DeleteProfile(_ context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok || p.TenantID != tenantID {
		return tenant.ErrProfileNotFound
	}
	delete(m.profiles, id)
	for nid, n := range m.notes {
		if n.UserID == id {
			delete(m.notes, nid)
		}
	}
	return nil
}

// Notes.

func (m *Memory) countNotesByUser(userID uuid.UUID) int64 {
	var n int64
	for _, note := range m.notes {
		if note.UserID == userID {
			n++
		}
	}
	return n
}

func (m *Memory) CountNotesByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countNotesByUser(userID), nil
}

func (m *Memory) CreateNote(_ context.Context, n notes.Note, maxNotes plan.Limit) (notes.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !maxNotes.Allows(m.countNotesByUser(n.UserID)) {
		return notes.Note{}, notes.ErrLimitExceeded
	}
	if p, ok := m.profiles[n.UserID]; !ok || p.TenantID != n.TenantID {
		return notes.Note{}, ErrStore
	}
	n = cloneNote(n)
	m.notes[n.ID] = memNote{Note: n, seq: m.next()}
	return cloneNote(n), nil
}

func (m *Memory) GetNote(_ context.Context, tenantID, id uuid.UUID) (notes.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notes[id]
	if !ok || n.TenantID != tenantID {
		return notes.Note{}, notes.ErrNoteNotFound
	}
	return cloneNote(n.Note), nil
}

func (m *Memory) UpdateNote(_ context.Context, n notes.Note) (notes.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.notes[n.ID]
	if !ok || cur.TenantID != n.TenantID {
		return notes.Note{}, notes.ErrNoteNotFound
	}
	cur.Title = n.Title
	cur.Content = n.Content
	cur.Tags = slices.Clone(n.Tags)
	cur.IsPrivate = n.IsPrivate
	cur.UpdatedAt = n.UpdatedAt
	m.notes[n.ID] = cur
	return cloneNote(cur.Note), nil
}

func (m *Memory) DeleteNote(_ context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok || n.TenantID != tenantID {
		return notes.ErrNoteNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *Memory) visible(f notes.Filter) []memNote {
	search := strings.ToLower(f.Search)
	var out []memNote
	for _, n := range m.notes {
		if n.TenantID != f.TenantID || !n.VisibleTo(f.ViewerID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(n.Title), search) &&
			!strings.Contains(strings.ToLower(n.Content), search) {
			continue
		}
		if len(f.Tags) > 0 && !slices.ContainsFunc(n.Tags, func(t string) bool { return slices.Contains(f.Tags, t) }) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (m *Memory) ListNotes(_ context.Context, f notes.Filter) ([]notes.Note, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := m.visible(f)
	newestFirst(items, func(n memNote) (int64, int64) { return n.CreatedAt.UnixNano(), n.seq })
	total := int64(len(items))

	if f.Limit > 0 {
		start := min(max(f.Offset, 0), len(items))
		end := start + min(f.Limit, len(items)-start)
		items = items[start:end]
	}

	out := make([]notes.Note, len(items))
	for i, n := range items {
		out[i] = cloneNote(n.Note)
	}
	return out, total, nil
}

func (m *Memory) NoteTags(_ context.Context, tenantID, viewerID uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tags []string
	for _, n := range m.visible(notes.Filter{TenantID: tenantID, ViewerID: viewerID}) {
		for _, t := range n.Tags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
