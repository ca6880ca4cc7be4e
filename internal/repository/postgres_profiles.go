package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/internal/users"
	"github.com/dmitrymomot/notekit/pkg/pg"
	"github.com/dmitrymomot/notekit/pkg/rbac"
)

// ListProfiles returns the tenant's profiles, newest first.
func (s *Postgres) ListProfiles(ctx context.Context, tenantID uuid.UUID) ([]tenant.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE tenant_id = $1 ORDER BY created_at DESC, id`
	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var out []tenant.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, wrap(err)
		}
		out = append(out, p)
	}
	return out, wrap(rows.Err())
}

// GetTenantProfile returns the profile only if it belongs to tenantID.
func (s *Postgres) GetTenantProfile(ctx context.Context, tenantID, id uuid.UUID) (tenant.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE tenant_id = $1 AND id = $2`
	p, err := scanProfile(s.pool.QueryRow(ctx, query, tenantID, id))
	if pg.IsNotFoundError(err) {
		return tenant.Profile{}, tenant.ErrProfileNotFound
	}
	return p, wrap(err)
}

// CountProfiles counts members of the tenant, pending invitations included.
func (s *Postgres) CountProfiles(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM profiles WHERE tenant_id = $1`, tenantID).Scan(&n)
	return n, wrap(err)
}

// CountOwners counts the tenant's active owners. Unclaimed invitations are
// not counted.
func (s *Postgres) CountOwners(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM profiles WHERE tenant_id = $1 AND role = $2 AND NOT pending`,
		tenantID, rbac.RoleOwner,
	).Scan(&n)
	return n, wrap(err)
}

// OwnerPlan returns the plan of the earliest active owner, free if there is
// none.
func (s *Postgres) OwnerPlan(ctx context.Context, tenantID uuid.UUID) (plan.Plan, error) {
	var p plan.Plan
	err := s.pool.QueryRow(ctx, `
		SELECT subscription_plan FROM profiles
		WHERE tenant_id = $1 AND role = $2 AND NOT pending
		ORDER BY created_at
		LIMIT 1`,
		tenantID, rbac.RoleOwner,
	).Scan(&p)
	if pg.IsNotFoundError(err) {
		return plan.Free, nil
	}
	return p, wrap(err)
}

// CreateProfile inserts an invited profile.
func (s *Postgres) CreateProfile(ctx context.Context, p tenant.Profile) (tenant.Profile, error) {
	query := `
		INSERT INTO profiles (id, email, tenant_id, role, subscription_plan, pending, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + profileColumns
	created, err := scanProfile(s.pool.QueryRow(ctx, query,
		p.ID,
		p.Email,
		p.TenantID,
		p.Role,
		p.Plan,
		p.Pending,
		p.CreatedAt,
		p.UpdatedAt,
	))
	if pg.IsDuplicateKeyError(err) && pg.ConstraintName(err) == "profiles_email_key" {
		return tenant.Profile{}, users.ErrEmailTaken
	}
	return created, wrap(err)
}

// UpdateProfile sets the non-nil fields of upd.
func (s *Postgres) UpdateProfile(ctx context.Context, tenantID, id uuid.UUID, upd users.ProfileUpdate) (tenant.Profile, error) {
	query := `
		UPDATE profiles
		SET role = COALESCE($3::text, role),
		    subscription_plan = COALESCE($4::text, subscription_plan),
		    updated_at = $5
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + profileColumns

	var role, planName *string
	if upd.Role != nil {
		r := upd.Role.String()
		role = &r
	}
	if upd.Plan != nil {
		p := upd.Plan.String()
		planName = &p
	}

	p, err := scanProfile(s.pool.QueryRow(ctx, query, tenantID, id, role, planName, upd.UpdatedAt))
	if pg.IsNotFoundError(err) {
		return tenant.Profile{}, tenant.ErrProfileNotFound
	}
	return p, wrap(err)
}

// DeleteProfile removes the profile; its notes go with it.
func (s *Postgres) DeleteProfile(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrProfileNotFound
	}
	return nil
}
