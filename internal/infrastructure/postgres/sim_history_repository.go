package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

var _ repository.SimHistoryRepository = (*SimHistoryRepo)(nil)

// SimHistoryRepo episodios de asignación, solo inserción.
type SimHistoryRepo struct {
	q Querier
}

// NewSimHistoryRepository construye el adaptador de historial. Pasar pool o tx.
func NewSimHistoryRepository(q Querier) *SimHistoryRepo {
	return &SimHistoryRepo{q: q}
}

// Create inserta un episodio.
func (r *SimHistoryRepo) Create(ctx context.Context, h *entity.SimHistory) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sim_history (id, iccid, service_name, customer_id, usage_category_id,
			contract_start_date, contract_end_date, shipped_date, arrived_date, returned_date,
			msisdn_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.ICCID, h.ServiceName, h.CustomerID, h.UsageCategoryID,
		h.ContractStartDate, h.ContractEndDate, h.ShippedDate, h.ArrivedDate, h.ReturnedDate,
		h.MSISDNSnapshot, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sim history: %w", err)
	}
	return nil
}

// ListByICCID historial con el nombre de la categoría, del contrato más reciente al más antiguo.
func (r *SimHistoryRepo) ListByICCID(ctx context.Context, iccid string) ([]*entity.SimHistory, error) {
	query := `
		SELECT h.id, h.iccid, h.service_name, h.customer_id, h.usage_category_id, COALESCE(c.name, ''),
			h.contract_start_date, h.contract_end_date, h.shipped_date, h.arrived_date, h.returned_date,
			h.msisdn_snapshot, h.created_at
		FROM sim_history h
		LEFT JOIN usage_categories c ON c.id = h.usage_category_id
		WHERE h.iccid = $1
		ORDER BY h.contract_start_date DESC NULLS LAST, h.created_at DESC`
	rows, err := r.q.Query(ctx, query, iccid)
	if err != nil {
		return nil, fmt.Errorf("list sim history: %w", err)
	}
	defer rows.Close()
	var list []*entity.SimHistory
	for rows.Next() {
		var h entity.SimHistory
		if err := rows.Scan(
			&h.ID, &h.ICCID, &h.ServiceName, &h.CustomerID, &h.UsageCategoryID, &h.UsageCategoryName,
			&h.ContractStartDate, &h.ContractEndDate, &h.ShippedDate, &h.ArrivedDate, &h.ReturnedDate,
			&h.MSISDNSnapshot, &h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sim history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
