package repository

import (
	"context"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

// EligibilityRuleRepository define el puerto de lectura/alta de reglas.
type EligibilityRuleRepository interface {
	Create(ctx context.Context, rule *entity.EligibilityRule) error
	// ListByCategory ordena por prioridad descendente y, a igual prioridad, por creación.
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.EligibilityRule, error)
	ListAll(ctx context.Context) ([]*entity.EligibilityRule, error)
}
