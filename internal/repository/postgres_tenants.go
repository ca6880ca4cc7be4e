package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/pkg/pg"
	"github.com/dmitrymomot/notekit/pkg/rbac"
)

const profileColumns = `id, email, tenant_id, role, subscription_plan, pending, created_at, updated_at`

func scanProfile(row pgx.Row) (tenant.Profile, error) {
	var p tenant.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.TenantID,
		&p.Role,
		&p.Plan,
		&p.Pending,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// GetProfile returns the profile with id.
func (s *Postgres) GetProfile(ctx context.Context, id uuid.UUID) (tenant.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(s.pool.QueryRow(ctx, query, id))
	if pg.IsNotFoundError(err) {
		return tenant.Profile{}, tenant.ErrProfileNotFound
	}
	return p, wrap(err)
}

// ClaimInvitation moves the pending profile for email to identity id.
func (s *Postgres) ClaimInvitation(ctx context.Context, email string, id uuid.UUID) (tenant.Profile, error) {
	query := `
		UPDATE profiles
		SET id = $2, pending = false, updated_at = now()
		WHERE email = $1 AND pending
		RETURNING ` + profileColumns
	p, err := scanProfile(s.pool.QueryRow(ctx, query, email, id))
	switch {
	case pg.IsNotFoundError(err):
		return tenant.Profile{}, tenant.ErrProfileNotFound
	case pg.IsDuplicateKeyError(err):
		return tenant.Profile{}, tenant.ErrProfileExists
	}
	return p, wrap(err)
}

// Bootstrap inserts the tenant and its owner profile in one transaction.
func (s *Postgres) Bootstrap(ctx context.Context, params tenant.BootstrapParams) (tenant.Profile, error) {
	var p tenant.Profile
	err := pg.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO tenants (id, name, slug, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)`,
			params.TenantID,
			params.TenantName,
			params.TenantSlug,
			params.Now,
		)
		if err != nil {
			if pg.IsDuplicateKeyError(err) && pg.ConstraintName(err) == "tenants_slug_key" {
				return tenant.ErrSlugTaken
			}
			return errors.Join(tenant.ErrTenantCreationFailed, err)
		}

		p, err = scanProfile(tx.QueryRow(ctx, `
			INSERT INTO profiles (id, email, tenant_id, role, subscription_plan, pending, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, false, $6, $6)
			RETURNING `+profileColumns,
			params.ProfileID,
			params.Email,
			params.TenantID,
			rbac.RoleOwner,
			plan.Free,
			params.Now,
		))
		if err != nil {
			if pg.IsDuplicateKeyError(err) && pg.ConstraintName(err) == "profiles_pkey" {
				return tenant.ErrProfileExists
			}
			return errors.Join(tenant.ErrProfileCreationFailed, err)
		}
		return nil
	})
	if err != nil {
		return tenant.Profile{}, err
	}
	return p, nil
}
