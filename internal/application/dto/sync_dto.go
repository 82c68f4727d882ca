package dto

import "time"

// SyncBatchRequest filas ya obtenidas de una fuente externa, con las columnas de esa fuente.
type SyncBatchRequest struct {
	ServiceName string           `json:"service_name"`
	Records     []map[string]any `json:"records"`
}

// SyncRequest body de POST /api/sync.
type SyncRequest struct {
	Batches []SyncBatchRequest `json:"batches"`
	// Only limita la ejecución a una fuente (query param service_name).
	Only string `json:"-"`
}

// SyncRecordError fallo de un registro individual.
type SyncRecordError struct {
	Index int    `json:"index"`
	ICCID string `json:"iccid"`
	Error string `json:"error"`
}

// SyncResultResponse resultado por fuente.
type SyncResultResponse struct {
	ServiceName    string            `json:"service_name"`
	Status         string            `json:"status"`
	RecordsChecked int               `json:"records_checked"`
	RecordsUpdated int               `json:"records_updated"`
	HistoryCreated int               `json:"history_created"`
	RecordsSkipped int               `json:"records_skipped"`
	Errors         []SyncRecordError `json:"errors,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// SyncResponse resultados de una ejecución multi-fuente.
type SyncResponse struct {
	Results []SyncResultResponse `json:"results"`
}

// SyncLogResponse entrada del registro operativo.
type SyncLogResponse struct {
	ID              string         `json:"id"`
	ServiceName     *string        `json:"service_name"`
	Operation       string         `json:"operation"`
	Status          string         `json:"status"`
	RecordsAffected int            `json:"records_affected"`
	ErrorMessage    *string        `json:"error_message"`
	Metadata        map[string]int `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// SyncSourceResponse fuente configurada con el estado de su último intento.
type SyncSourceResponse struct {
	Name              string     `json:"name"`
	DisplayName       string     `json:"display_name"`
	Enabled           bool       `json:"enabled"`
	UsageCategoryName string     `json:"usage_category_name,omitempty"`
	LastSyncAt        *time.Time `json:"last_sync_at"`
	LastSyncStatus    string     `json:"last_sync_status,omitempty"`
	LastSyncError     *string    `json:"last_sync_error,omitempty"`
}
