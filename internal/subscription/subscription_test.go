package subscription_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/internal/notes"
	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/repository"
	"github.com/dmitrymomot/notekit/internal/subscription"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/pkg/logger"
	"github.com/dmitrymomot/notekit/pkg/validator"
)

type recordingInvalidator struct {
	ids []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, ids ...uuid.UUID) {
	r.ids = append(r.ids, ids...)
}

func setup(t *testing.T) (*repository.Memory, tenant.Profile) {
	t.Helper()
	store := repository.NewMemory()
	owner, err := store.Bootstrap(context.Background(), tenant.BootstrapParams{
		TenantID:   uuid.New(),
		TenantName: "Org",
		TenantSlug: "org",
		ProfileID:  uuid.New(),
		Email:      "owner@example.com",
		Now:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return store, owner
}

func TestLimits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, owner := setup(t)

	for range 3 {
		_, err := store.CreateNote(ctx, notes.Note{
			ID: uuid.New(), TenantID: owner.TenantID, UserID: owner.ID, Title: "t", Content: "c",
		}, plan.Unlimited)
		require.NoError(t, err)
	}

	svc := subscription.NewService(store, nil, logger.Discard())
	got, err := svc.Limits(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, plan.LimitsFor(plan.Free), got.Limits)
	assert.Equal(t, subscription.NotesUsage{CanCreate: true, Current: 3, Limit: 5}, got.Usage.Notes)
	assert.Equal(t, subscription.UsersUsage{CanAdd: false, Current: 1, Limit: 1}, got.Usage.Users)
}

func TestLimits_EnterpriseJSON(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, owner := setup(t)

	svc := subscription.NewService(store, nil, logger.Discard())
	owner, err := svc.Upgrade(ctx, owner, subscription.UpgradeInput{Plan: "enterprise"})
	require.NoError(t, err)

	got, err := svc.Limits(ctx, owner)
	require.NoError(t, err)

	raw, err := json.Marshal(got.Usage)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"notes": {"canCreate": true, "current": 0, "limit": null},
		"users": {"canAdd": true, "current": 1, "limit": null}
	}`, string(raw))
}

func TestUpgrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("changes own plan", func(t *testing.T) {
		t.Parallel()
		store, owner := setup(t)
		cache := &recordingInvalidator{}
		svc := subscription.NewService(store, cache, logger.Discard())

		updated, err := svc.Upgrade(ctx, owner, subscription.UpgradeInput{Plan: " Pro "})
		require.NoError(t, err)
		assert.Equal(t, plan.Pro, updated.Plan)
		assert.Equal(t, []uuid.UUID{owner.ID}, cache.ids)

		stored, err := store.GetProfile(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, plan.Pro, stored.Plan)
	})

	t.Run("downgrade is allowed", func(t *testing.T) {
		t.Parallel()
		store, owner := setup(t)
		svc := subscription.NewService(store, nil, logger.Discard())

		owner, err := svc.Upgrade(ctx, owner, subscription.UpgradeInput{Plan: "enterprise"})
		require.NoError(t, err)
		owner, err = svc.Upgrade(ctx, owner, subscription.UpgradeInput{Plan: "free"})
		require.NoError(t, err)
		assert.Equal(t, plan.Free, owner.Plan)
	})

	t.Run("invalid plan", func(t *testing.T) {
		t.Parallel()
		store, owner := setup(t)
		svc := subscription.NewService(store, nil, logger.Discard())

		_, err := svc.Upgrade(ctx, owner, subscription.UpgradeInput{Plan: "platinum"})
		require.ErrorIs(t, err, plan.ErrInvalidPlan)
		assert.Equal(t, []string{"Invalid subscription plan"}, validator.Extract(err).Messages())
	})
}
