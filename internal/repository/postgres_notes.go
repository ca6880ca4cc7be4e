package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/notekit/internal/notes"
	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/pkg/pg"
)

const noteColumns = `id, tenant_id, user_id, title, content, tags, is_private, created_at, updated_at`

func scanNote(row pgx.Row) (notes.Note, error) {
	var n notes.Note
	err := row.Scan(
		&n.ID,
		&n.TenantID,
		&n.UserID,
		&n.Title,
		&n.Content,
		&n.Tags,
		&n.IsPrivate,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n, err
}

func countNotesByUser(ctx context.Context, q querier, userID uuid.UUID) (int64, error) {
	var n int64
	err := q.QueryRow(ctx, `SELECT count(*) FROM notes WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// CountNotesByUser counts the notes authored by userID.
func (s *Postgres) CountNotesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := countNotesByUser(ctx, s.pool, userID)
	return n, wrap(err)
}

// CreateNote inserts n. With a bounded maxNotes the author's count is checked
// under a per-user advisory lock held until commit, so concurrent creates
// cannot overshoot the limit.
func (s *Postgres) CreateNote(ctx context.Context, n notes.Note, maxNotes plan.Limit) (notes.Note, error) {
	var created notes.Note
	err := pg.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if !maxNotes.IsUnlimited() {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, n.UserID.String()); err != nil {
				return wrap(err)
			}
			count, err := countNotesByUser(ctx, tx, n.UserID)
			if err != nil {
				return wrap(err)
			}
			if !maxNotes.Allows(count) {
				return notes.ErrLimitExceeded
			}
		}

		var err error
		created, err = scanNote(tx.QueryRow(ctx, `
			INSERT INTO notes (id, tenant_id, user_id, title, content, tags, is_private, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+noteColumns,
			n.ID,
			n.TenantID,
			n.UserID,
			n.Title,
			n.Content,
			nonNilTags(n.Tags),
			n.IsPrivate,
			n.CreatedAt,
			n.UpdatedAt,
		))
		return wrap(err)
	})
	return created, err
}

// GetNote returns the note if it belongs to tenantID.
func (s *Postgres) GetNote(ctx context.Context, tenantID, id uuid.UUID) (notes.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE tenant_id = $1 AND id = $2`
	n, err := scanNote(s.pool.QueryRow(ctx, query, tenantID, id))
	if pg.IsNotFoundError(err) {
		return notes.Note{}, notes.ErrNoteNotFound
	}
	return n, wrap(err)
}

// UpdateNote overwrites the mutable fields of n.
func (s *Postgres) UpdateNote(ctx context.Context, n notes.Note) (notes.Note, error) {
	query := `
		UPDATE notes
		SET title = $3, content = $4, tags = $5, is_private = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + noteColumns
	updated, err := scanNote(s.pool.QueryRow(ctx, query,
		n.TenantID,
		n.ID,
		n.Title,
		n.Content,
		nonNilTags(n.Tags),
		n.IsPrivate,
		n.UpdatedAt,
	))
	if pg.IsNotFoundError(err) {
		return notes.Note{}, notes.ErrNoteNotFound
	}
	return updated, wrap(err)
}

// DeleteNote removes the note if it belongs to tenantID.
func (s *Postgres) DeleteNote(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return notes.ErrNoteNotFound
	}
	return nil
}

// ListNotes returns the page selected by f and the total match count.
func (s *Postgres) ListNotes(ctx context.Context, f notes.Filter) ([]notes.Note, int64, error) {
	where := "WHERE tenant_id = $1 AND (NOT is_private OR user_id = $2)"
	args := []any{f.TenantID, f.ViewerID}
	argIndex := 3

	if f.Search != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+escapeLike(f.Search)+"%")
		argIndex++
	}
	if len(f.Tags) > 0 {
		where += fmt.Sprintf(" AND tags && $%d", argIndex)
		args = append(args, f.Tags)
		argIndex++
	}

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM notes "+where, args...).Scan(&total); err != nil {
		return nil, 0, wrap(err)
	}

	query := "SELECT " + noteColumns + " FROM notes " + where + " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrap(err)
	}
	defer rows.Close()

	out := []notes.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, wrap(err)
		}
		out = append(out, n)
	}
	return out, total, wrap(rows.Err())
}

// NoteTags returns the distinct tags of notes visible to viewerID.
func (s *Postgres) NoteTags(ctx context.Context, tenantID, viewerID uuid.UUID) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT tag
		FROM notes, unnest(tags) AS tag
		WHERE tenant_id = $1 AND (NOT is_private OR user_id = $2)
		ORDER BY tag`,
		tenantID, viewerID,
	)
	if err != nil {
		return nil, wrap(err)
	}
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return tags, wrap(err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
