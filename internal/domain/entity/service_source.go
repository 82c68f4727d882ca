package entity

import "time"

// Estados de la última sincronización de una fuente.
const (
	SyncStatusSuccess        = "success"
	SyncStatusPartialFailure = "partial_failure"
	SyncStatusFailed         = "failed"
)

// ServiceSource estado operativo de una fuente externa de asignaciones.
// La configuración (habilitada, categoría, columnas) es estática; aquí solo se guarda el último intento.
type ServiceSource struct {
	Name           string
	DisplayName    string
	LastSyncAt     *time.Time
	LastSyncStatus string
	LastSyncError  *string
	UpdatedAt      time.Time
}
