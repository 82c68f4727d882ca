package dto

import (
	"encoding/json"
	"time"
)

// CreateUsageCategoryRequest entrada para crear una categoría de uso.
type CreateUsageCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateUsageCategoryRequest solo la descripción es editable.
type UpdateUsageCategoryRequest struct {
	Description string `json:"description"`
}

// UsageCategoryResponse salida de una categoría de uso.
type UsageCategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateEligibilityRuleRequest entrada para crear una regla.
type CreateEligibilityRuleRequest struct {
	UsageCategoryID string          `json:"usage_category_id"`
	SupplierFilter  *string         `json:"supplier_filter,omitempty"`
	PlanFilter      *string         `json:"plan_filter,omitempty"`
	MinContractDays int             `json:"min_contract_days"`
	Priority        int             `json:"priority"`
	Conditions      json.RawMessage `json:"conditions,omitempty"`
}

// EligibilityRuleResponse salida de una regla.
type EligibilityRuleResponse struct {
	ID                string          `json:"id"`
	UsageCategoryID   string          `json:"usage_category_id"`
	UsageCategoryName string          `json:"usage_category_name,omitempty"`
	SupplierFilter    *string         `json:"supplier_filter"`
	PlanFilter        *string         `json:"plan_filter"`
	MinContractDays   int             `json:"min_contract_days"`
	Priority          int             `json:"priority"`
	Conditions        json.RawMessage `json:"conditions"`
	CreatedAt         time.Time       `json:"created_at"`
}
