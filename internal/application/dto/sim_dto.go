package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertSimRequest body para POST /api/sims y fila validada del CSV.
// Los campos nil no se modifican en una SIM existente.
type UpsertSimRequest struct {
	ICCID             string  `json:"iccid"`
	MSISDN            *string `json:"msisdn,omitempty"`
	Supplier          string  `json:"supplier"`
	OwnerCompany      *string `json:"owner_company,omitempty"`
	Plan              *string `json:"plan,omitempty"`
	CustomerType      *string `json:"customer_type,omitempty"`
	SupplierStartDate *string `json:"supplier_start_date,omitempty"` // YYYY-MM-DD, YYYY/MM/DD o RFC3339
	SupplierEndDate   *string `json:"supplier_end_date,omitempty"`
	Status            *string `json:"status,omitempty"`
}

// SimListQuery filtros de GET /api/sims.
type SimListQuery struct {
	Statuses    []string
	Supplier    string
	ServiceName string
	MSISDN      string
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

// AssignmentResponse asignación actual de una SIM.
type AssignmentResponse struct {
	ServiceName       string     `json:"service_name"`
	CustomerID        *string    `json:"customer_id"`
	UsageCategoryID   *string    `json:"usage_category_id"`
	ContractStartDate *time.Time `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date"`
}

// SimResponse salida de una SIM.
type SimResponse struct {
	ICCID             string              `json:"iccid"`
	MSISDN            *string             `json:"msisdn"`
	Supplier          string              `json:"supplier"`
	OwnerCompany      *string             `json:"owner_company"`
	Plan              *string             `json:"plan"`
	CustomerType      *string             `json:"customer_type"`
	SupplierStartDate *time.Time          `json:"supplier_start_date"`
	SupplierEndDate   *time.Time          `json:"supplier_end_date"`
	Assignment        *AssignmentResponse `json:"current_assignment"`
	Status            string              `json:"status"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// UpsertSimResponse resultado del alta/actualización.
type UpsertSimResponse struct {
	Sim     SimResponse `json:"sim"`
	Created bool        `json:"created"`
}

// SimListResponse lista paginada de SIMs.
type SimListResponse struct {
	Data       []SimResponse `json:"data"`
	Pagination PageResponse  `json:"pagination"`
}

// SimHistoryResponse episodio de asignación.
type SimHistoryResponse struct {
	ID                string     `json:"id"`
	ServiceName       string     `json:"service_name"`
	CustomerID        *string    `json:"customer_id"`
	UsageCategoryID   *string    `json:"usage_category_id"`
	UsageCategoryName string     `json:"usage_category_name,omitempty"`
	ContractStartDate *time.Time `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date"`
	ShippedDate       *time.Time `json:"shipped_date"`
	ArrivedDate       *time.Time `json:"arrived_date"`
	ReturnedDate      *time.Time `json:"returned_date"`
	MSISDNSnapshot    *string    `json:"msisdn_snapshot"`
	CreatedAt         time.Time  `json:"created_at"`
}

// SimDetailResponse SIM con su historial.
type SimDetailResponse struct {
	Sim     SimResponse          `json:"sim"`
	History []SimHistoryResponse `json:"history"`
}

// PublicMSISDNResponse respuesta de la consulta pública ICCID -> MSISDN.
type PublicMSISDNResponse struct {
	ICCID  string  `json:"iccid"`
	MSISDN *string `json:"msisdn"`
}

// SimStatsResponse conteo de la flota por estado.
type SimStatsResponse struct {
	ByStatus       map[string]int  `json:"by_status"`
	Total          int             `json:"total"`
	UtilizationPct decimal.Decimal `json:"utilization_pct"` // % ACTIVE sobre el total
}
