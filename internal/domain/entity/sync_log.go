package entity

import "time"

// Operaciones registradas en sync_logs.
const (
	SyncOperationSync      = "sync"
	SyncOperationCSVImport = "csv_import"
)

// Estados de una entrada de sync_logs.
const (
	SyncLogCompleted      = "completed"
	SyncLogPartialFailure = "partial_failure"
	SyncLogFailed         = "failed"
)

// SyncLog entrada del registro operativo (sincronizaciones e importaciones).
type SyncLog struct {
	ID              string
	ServiceName     *string // nil para importaciones CSV
	Operation       string
	Status          string
	RecordsAffected int
	ErrorMessage    *string
	Metadata        map[string]int
	CreatedAt       time.Time
}
