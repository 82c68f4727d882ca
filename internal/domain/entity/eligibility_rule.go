package entity

import (
	"encoding/json"
	"time"
)

// EligibilityRule regla de elegibilidad de SIMs para una categoría de uso.
// Se evalúan por Priority descendente; a igual prioridad, por orden de creación.
type EligibilityRule struct {
	ID              string
	UsageCategoryID string
	SupplierFilter  *string // coincidencia exacta, nil = cualquiera
	PlanFilter      *string // coincidencia exacta, nil = cualquiera
	MinContractDays int
	Priority        int
	Conditions      json.RawMessage // reservado, no interpretado por el evaluador
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
