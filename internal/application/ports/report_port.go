package ports

import (
	"context"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

// HistoryReportGenerator define el puerto de salida para el reporte PDF del historial de una SIM.
// El historial llega ya ordenado por fecha de inicio de contrato descendente.
type HistoryReportGenerator interface {
	GenerateHistoryReport(ctx context.Context, sim *entity.Sim, history []*entity.SimHistory) ([]byte, error)
}
