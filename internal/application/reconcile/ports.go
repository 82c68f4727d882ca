package reconcile

import (
	"context"

	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Cada registro externo se aplica en su propia transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		simRepo repository.SimRepository,
		historyRepo repository.SimHistoryRepository,
	) error) error
}
