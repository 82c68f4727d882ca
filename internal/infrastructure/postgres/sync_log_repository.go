package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

var _ repository.SyncLogRepository = (*SyncLogRepo)(nil)

// SyncLogRepo registro operativo sobre PostgreSQL; metadata va en JSONB.
type SyncLogRepo struct {
	q Querier
}

// NewSyncLogRepository construye el adaptador de sync_logs.
func NewSyncLogRepository(q Querier) *SyncLogRepo {
	return &SyncLogRepo{q: q}
}

// Create inserta una entrada.
func (r *SyncLogRepo) Create(ctx context.Context, l *entity.SyncLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	meta := l.Metadata
	if meta == nil {
		meta = map[string]int{}
	}
	query := `
		INSERT INTO sync_logs (id, service_name, operation, status, records_affected, error_message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ServiceName, l.Operation, l.Status, l.RecordsAffected, l.ErrorMessage, meta, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

// List entradas de la más reciente a la más antigua.
func (r *SyncLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.SyncLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, service_name, operation, status, records_affected, error_message, metadata, created_at
		FROM sync_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sync logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.SyncLog
	for rows.Next() {
		var l entity.SyncLog
		if err := rows.Scan(&l.ID, &l.ServiceName, &l.Operation, &l.Status, &l.RecordsAffected,
			&l.ErrorMessage, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
