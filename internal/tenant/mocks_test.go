package tenant_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/notekit/internal/tenant"
)

// MockStore is a mock implementation of tenant.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetProfile(ctx context.Context, id uuid.UUID) (tenant.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(tenant.Profile), args.Error(1)
}

func (m *MockStore) ClaimInvitation(ctx context.Context, email string, id uuid.UUID) (tenant.Profile, error) {
	args := m.Called(ctx, email, id)
	return args.Get(0).(tenant.Profile), args.Error(1)
}

func (m *MockStore) Bootstrap(ctx context.Context, params tenant.BootstrapParams) (tenant.Profile, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(tenant.Profile), args.Error(1)
}

// MockCache is a mock implementation of tenant.ProfileCache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, id uuid.UUID) (tenant.Profile, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(tenant.Profile), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, p tenant.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, ids ...uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
