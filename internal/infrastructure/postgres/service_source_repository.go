package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

var _ repository.ServiceSourceRepository = (*ServiceSourceRepo)(nil)

// ServiceSourceRepo estado de las fuentes externas.
type ServiceSourceRepo struct {
	q Querier
}

// NewServiceSourceRepository construye el adaptador de fuentes.
func NewServiceSourceRepository(q Querier) *ServiceSourceRepo {
	return &ServiceSourceRepo{q: q}
}

// RecordSyncAttempt upsert por nombre con el último intento.
func (r *ServiceSourceRepo) RecordSyncAttempt(ctx context.Context, name, displayName string, at time.Time, status string, errMsg *string) error {
	query := `
		INSERT INTO service_sources (name, display_name, last_sync_at, last_sync_status, last_sync_error, updated_at)
		VALUES ($1, $2, $3, $4, $5, $3)
		ON CONFLICT (name) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			last_sync_at = EXCLUDED.last_sync_at,
			last_sync_status = EXCLUDED.last_sync_status,
			last_sync_error = EXCLUDED.last_sync_error,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, name, displayName, at, status, errMsg); err != nil {
		return fmt.Errorf("upsert service source: %w", err)
	}
	return nil
}

// List fuentes registradas por nombre.
func (r *ServiceSourceRepo) List(ctx context.Context) ([]*entity.ServiceSource, error) {
	rows, err := r.q.Query(ctx, `
		SELECT name, display_name, last_sync_at, COALESCE(last_sync_status, ''), last_sync_error, updated_at
		FROM service_sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list service sources: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceSource
	for rows.Next() {
		var s entity.ServiceSource
		if err := rows.Scan(&s.Name, &s.DisplayName, &s.LastSyncAt, &s.LastSyncStatus, &s.LastSyncError, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service source: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
