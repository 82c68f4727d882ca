package repository

import (
	"context"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

// SyncLogRepository registro operativo de sincronizaciones e importaciones.
type SyncLogRepository interface {
	Create(ctx context.Context, log *entity.SyncLog) error
	List(ctx context.Context, limit, offset int) ([]*entity.SyncLog, error)
}
