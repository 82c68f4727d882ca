package repository

import (
	"context"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

// SimHistoryRepository puerto append-only para los episodios de asignación.
type SimHistoryRepository interface {
	Create(ctx context.Context, entry *entity.SimHistory) error
	// ListByICCID ordena por fecha de inicio de contrato descendente (nulos al final).
	ListByICCID(ctx context.Context, iccid string) ([]*entity.SimHistory, error)
}
