package repository

import (
	"context"
	"time"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

// ServiceSourceRepository guarda el estado operativo de cada fuente externa.
type ServiceSourceRepository interface {
	// RecordSyncAttempt crea o actualiza la fila de la fuente con el último intento.
	RecordSyncAttempt(ctx context.Context, name, displayName string, at time.Time, status string, errMsg *string) error
	List(ctx context.Context) ([]*entity.ServiceSource, error)
}
