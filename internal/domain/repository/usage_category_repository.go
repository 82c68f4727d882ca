package repository

import (
	"context"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

// UsageCategoryRepository define el puerto de persistencia para UsageCategory (DIP).
type UsageCategoryRepository interface {
	Create(ctx context.Context, category *entity.UsageCategory) error
	GetByID(ctx context.Context, id string) (*entity.UsageCategory, error)
	GetByName(ctx context.Context, name string) (*entity.UsageCategory, error)
	UpdateDescription(ctx context.Context, id, description string) error
	List(ctx context.Context) ([]*entity.UsageCategory, error)
}
