package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
)

var _ repository.TagRepository = (*TagRepo)(nil)

// TagRepo implementación del puerto TagRepository sobre PostgreSQL.
type TagRepo struct {
	q Querier
}

// NewTagRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTagRepository(q Querier) *TagRepo {
	return &TagRepo{q: q}
}

// Create persiste un tag.
func (r *TagRepo) Create(ctx context.Context, t *entity.Tag) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO tags (id, nombre, created_at) VALUES ($1, $2, $3)`,
		t.ID, t.Nombre, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// GetByID obtiene un tag por ID.
func (r *TagRepo) GetByID(ctx context.Context, id string) (*entity.Tag, error) {
	var t entity.Tag
	err := r.q.QueryRow(ctx,
		`SELECT id, nombre, created_at FROM tags WHERE id = $1`, id,
	).Scan(&t.ID, &t.Nombre, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

// List lista todos los tags.
func (r *TagRepo) List(ctx context.Context) ([]*entity.Tag, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, created_at FROM tags ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []*entity.Tag
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(&t.ID, &t.Nombre, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// Delete elimina un tag.
func (r *TagRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
