package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

var _ repository.UsageCategoryRepository = (*UsageCategoryRepo)(nil)

// UsageCategoryRepo implementación de UsageCategoryRepository sobre PostgreSQL.
type UsageCategoryRepo struct {
	q Querier
}

// NewUsageCategoryRepository construye el adaptador de categorías de uso.
func NewUsageCategoryRepository(q Querier) *UsageCategoryRepo {
	return &UsageCategoryRepo{q: q}
}

// Create inserta una categoría; el nombre es único.
func (r *UsageCategoryRepo) Create(ctx context.Context, c *entity.UsageCategory) error {
	query := `
		INSERT INTO usage_categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert usage category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría o nil si no existe.
func (r *UsageCategoryRepo) GetByID(ctx context.Context, id string) (*entity.UsageCategory, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.get(ctx, `SELECT id, name, description, created_at, updated_at FROM usage_categories WHERE id = $1`, id)
}

// GetByName obtiene una categoría por nombre o nil si no existe.
func (r *UsageCategoryRepo) GetByName(ctx context.Context, name string) (*entity.UsageCategory, error) {
	return r.get(ctx, `SELECT id, name, description, created_at, updated_at FROM usage_categories WHERE name = $1`, name)
}

func (r *UsageCategoryRepo) get(ctx context.Context, query string, arg string) (*entity.UsageCategory, error) {
	var c entity.UsageCategory
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usage category: %w", err)
	}
	return &c, nil
}

// UpdateDescription cambia la descripción; el nombre no se modifica.
func (r *UsageCategoryRepo) UpdateDescription(ctx context.Context, id, description string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE usage_categories SET description = $2, updated_at = NOW() WHERE id = $1`, id, description)
	if err != nil {
		return fmt.Errorf("update usage category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List todas las categorías por nombre.
func (r *UsageCategoryRepo) List(ctx context.Context) ([]*entity.UsageCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM usage_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list usage categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.UsageCategory
	for rows.Next() {
		var c entity.UsageCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan usage category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
