package repository

import (
	"context"

	"github.com/jhoicas/simstock-api/internal/domain/eligibility"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Columnas por las que se puede ordenar el listado de SIMs.
const (
	SimSortICCID     = "iccid"
	SimSortUpdatedAt = "updated_at"
	SimSortSupplier  = "supplier"
)

// SimFilter filtros, paginación y orden para listar SIMs.
type SimFilter struct {
	Statuses    []entity.SimStatus
	Supplier    string
	ServiceName string
	MSISDN      string // contiene
	Search      string // ICCID o MSISDN contiene
	Limit       int
	Offset      int
	SortBy      string
	SortDesc    bool
}

// SimStats conteo de la flota por estado.
type SimStats struct {
	ByStatus       map[entity.SimStatus]int
	Total          int
	UtilizationPct decimal.Decimal // ACTIVE / total * 100, 2 decimales
}

// SimRepository define el puerto de persistencia del ledger de SIMs (DIP).
// Get* devuelven (nil, nil) si la SIM no existe.
type SimRepository interface {
	GetByICCID(ctx context.Context, iccid string) (*entity.Sim, error)
	// GetForUpdate bloquea la fila dentro de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, iccid string) (*entity.Sim, error)
	Create(ctx context.Context, sim *entity.Sim) error
	// UpdateProfile actualiza procedencia, ventana del proveedor y estado (alta/importación).
	UpdateProfile(ctx context.Context, sim *entity.Sim, expectedVersion int64) error
	// UpdateAssignment escribe la asignación actual y el estado si la versión coincide;
	// devuelve domain.ErrConflict si otra escritura ganó la carrera.
	UpdateAssignment(ctx context.Context, sim *entity.Sim, expectedVersion int64) error
	List(ctx context.Context, filter SimFilter) ([]*entity.Sim, int, error)
	// ListCandidates devuelve las SIMs que cumplen la consulta, ordenadas por ICCID.
	ListCandidates(ctx context.Context, q eligibility.CandidateQuery) ([]*entity.Sim, error)
	Stats(ctx context.Context) (*SimStats, error)
}
