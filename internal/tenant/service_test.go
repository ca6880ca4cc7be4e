package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/pkg/logger"
	"github.com/dmitrymomot/notekit/pkg/rbac"
)

var now = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newService(store tenant.Store, cache tenant.ProfileCache) *tenant.Service {
	return tenant.NewService(store,
		tenant.WithCache(cache),
		tenant.WithLogger(logger.Discard()),
		tenant.WithClock(func() time.Time { return now }),
	)
}

func ownerProfile(id uuid.UUID, email string) tenant.Profile {
	return tenant.Profile{
		ID:        id,
		Email:     email,
		TenantID:  uuid.New(),
		Role:      rbac.RoleOwner,
		Plan:      plan.Free,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestResolve_CacheHit(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	want := ownerProfile(id, "alice@example.com")

	store := &MockStore{}
	cache := &MockCache{}
	cache.On("Get", mock.Anything, id).Return(want, true, nil)

	got, err := newService(store, cache).Resolve(context.Background(), tenant.Identity{UserID: id, Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	store.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestResolve_ExistingProfile(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	want := ownerProfile(id, "alice@example.com")

	store := &MockStore{}
	store.On("GetProfile", mock.Anything, id).Return(want, nil)
	cache := &MockCache{}
	cache.On("Get", mock.Anything, id).Return(tenant.Profile{}, false, errors.New("redis down"))
	cache.On("Set", mock.Anything, want).Return(nil)

	got, err := newService(store, cache).Resolve(context.Background(), tenant.Identity{UserID: id})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	store.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestResolve_StoreError(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	boom := errors.New("connection refused")

	store := &MockStore{}
	store.On("GetProfile", mock.Anything, id).Return(tenant.Profile{}, boom)

	_, err := newService(store, tenant.NopCache()).Resolve(context.Background(), tenant.Identity{UserID: id})
	assert.ErrorIs(t, err, boom)
}

func TestResolve_ClaimsInvitation(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	invited := tenant.Profile{ID: id, Email: "bob@example.com", TenantID: uuid.New(), Role: rbac.RoleMember, Plan: plan.Free}

	store := &MockStore{}
	store.On("GetProfile", mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound)
	store.On("ClaimInvitation", mock.Anything, "bob@example.com", id).Return(invited, nil)

	got, err := newService(store, tenant.NopCache()).Resolve(context.Background(), tenant.Identity{UserID: id, Email: "  Bob@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, invited, got)

	store.AssertNotCalled(t, "Bootstrap", mock.Anything, mock.Anything)
}

func TestResolve_Bootstrap(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	store := &MockStore{}
	store.On("GetProfile", mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound)
	store.On("ClaimInvitation", mock.Anything, "alice@example.com", id).Return(tenant.Profile{}, tenant.ErrProfileNotFound)

	var params tenant.BootstrapParams
	store.On("Bootstrap", mock.Anything, mock.AnythingOfType("tenant.BootstrapParams")).
		Run(func(args mock.Arguments) { params = args.Get(1).(tenant.BootstrapParams) }).
		Return(ownerProfile(id, "alice@example.com"), nil)

	got, err := newService(store, tenant.NopCache()).Resolve(context.Background(), tenant.Identity{UserID: id, Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, rbac.RoleOwner, got.Role)

	assert.Equal(t, id, params.ProfileID)
	assert.Equal(t, "alice's Organization", params.TenantName)
	assert.Equal(t, "alice-1741944413000", params.TenantSlug)
	assert.Equal(t, now, params.Now)
	store.AssertNumberOfCalls(t, "Bootstrap", 1)
}

func TestResolve_SlugRetry(t *testing.T) {
	t.Parallel()

	t.Run("second attempt succeeds", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		store := &MockStore{}
		store.On("GetProfile", mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound)
		store.On("ClaimInvitation", mock.Anything, mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound)

		var slugs []string
		store.On("Bootstrap", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { slugs = append(slugs, args.Get(1).(tenant.BootstrapParams).TenantSlug) }).
			Return(tenant.Profile{}, tenant.ErrSlugTaken).Once()
		store.On("Bootstrap", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { slugs = append(slugs, args.Get(1).(tenant.BootstrapParams).TenantSlug) }).
			Return(ownerProfile(id, "alice@example.com"), nil).Once()

		_, err := newService(store, tenant.NopCache()).Resolve(context.Background(), tenant.Identity{UserID: id, Email: "alice@example.com"})
		require.NoError(t, err)
		require.Len(t, slugs, 2)
		assert.NotEqual(t, slugs[0], slugs[1])
		assert.True(t, strings.HasPrefix(slugs[1], "alice-1741944413000-"))
	})

	t.Run("second collision fails", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		store := &MockStore{}
		store.On("GetProfile", mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound)
		store.On("ClaimInvitation", mock.Anything, mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound)
		store.On("Bootstrap", mock.Anything, mock.Anything).Return(tenant.Profile{}, tenant.ErrSlugTaken)

		_, err := newService(store, tenant.NopCache()).Resolve(context.Background(), tenant.Identity{UserID: id, Email: "alice@example.com"})
		assert.ErrorIs(t, err, tenant.ErrTenantCreationFailed)
		store.AssertNumberOfCalls(t, "Bootstrap", 2)
	})
}

func TestResolve_ConcurrentFirstSignIn(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	winner := ownerProfile(id, "alice@example.com")

	store := &MockStore{}
	store.On("GetProfile", mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound).Once()
	store.On("ClaimInvitation", mock.Anything, mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound)
	store.On("Bootstrap", mock.Anything, mock.Anything).Return(tenant.Profile{}, tenant.ErrProfileExists)
	store.On("GetProfile", mock.Anything, id).Return(winner, nil).Once()

	got, err := newService(store, tenant.NopCache()).Resolve(context.Background(), tenant.Identity{UserID: id, Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, winner, got)
}

func TestResolve_ConcurrentInvitationClaim(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	claimed := tenant.Profile{ID: id, Email: "bob@example.com", TenantID: uuid.New(), Role: rbac.RoleMember, Plan: plan.Free}

	store := &MockStore{}
	store.On("GetProfile", mock.Anything, id).Return(tenant.Profile{}, tenant.ErrProfileNotFound).Once()
	store.On("ClaimInvitation", mock.Anything, "bob@example.com", id).Return(tenant.Profile{}, tenant.ErrProfileExists)
	store.On("GetProfile", mock.Anything, id).Return(claimed, nil).Once()

	got, err := newService(store, tenant.NopCache()).Resolve(context.Background(), tenant.Identity{UserID: id, Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, claimed, got)

	store.AssertNotCalled(t, "Bootstrap", mock.Anything, mock.Anything)
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	cache := &MockCache{}
	cache.On("Delete", mock.Anything, ids).Return(errors.New("redis down"))

	newService(&MockStore{}, cache).Invalidate(context.Background(), ids...)
	newService(&MockStore{}, cache).Invalidate(context.Background())

	cache.AssertNumberOfCalls(t, "Delete", 1)
}

func TestOrganizationName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice's Organization", tenant.OrganizationName("alice@example.com"))
	assert.Equal(t, "User's Organization", tenant.OrganizationName("@example.com"))
	assert.Equal(t, "User's Organization", tenant.OrganizationName(""))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	want := ownerProfile(id, "alice@example.com")
	store := &MockStore{}
	store.On("GetProfile", mock.Anything, id).Return(want, nil)
	svc := newService(store, tenant.NopCache())

	identify := func(r *http.Request) (tenant.Identity, bool) {
		if r.Header.Get("X-User") == "" {
			return tenant.Identity{}, false
		}
		return tenant.Identity{UserID: id}, true
	}
	var gotErr error
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusUnauthorized)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := tenant.ProfileFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, want, p)
		w.WriteHeader(http.StatusNoContent)
	})
	h := tenant.Middleware(svc, identify, onError)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.ErrorIs(t, gotErr, tenant.ErrNoIdentity)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User", "1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
