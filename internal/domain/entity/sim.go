package entity

import "time"

// SimStatus estado del ciclo de vida de una SIM física.
type SimStatus string

// Estados válidos del ciclo de vida.
const (
	SimStatusInStock   SimStatus = "IN_STOCK"  // en bodega, vendible
	SimStatusActive    SimStatus = "ACTIVE"    // asignada a un cliente con contrato vigente
	SimStatusReturning SimStatus = "RETURNING" // en proceso de devolución
	SimStatusRetired   SimStatus = "RETIRED"   // dada de baja, sin más cambios
)

// SimStatuses lista cerrada de estados en orden de presentación.
var SimStatuses = []SimStatus{SimStatusInStock, SimStatusActive, SimStatusReturning, SimStatusRetired}

// Valid indica si el estado pertenece a la enumeración.
func (s SimStatus) Valid() bool {
	switch s {
	case SimStatusInStock, SimStatusActive, SimStatusReturning, SimStatusRetired:
		return true
	}
	return false
}

// RequiresAssignment indica si el estado exige una asignación vigente.
func (s SimStatus) RequiresAssignment() bool {
	return s == SimStatusActive || s == SimStatusReturning
}

// Sim representa una tarjeta SIM física, identificada por su ICCID.
// Los campos de Assignment solo los escribe el motor de reconciliación.
type Sim struct {
	ICCID             string
	MSISDN            *string // número telefónico, puede asignarse después
	Supplier          string
	OwnerCompany      *string
	Plan              *string
	CustomerType      *string
	SupplierStartDate *time.Time // ventana de contrato con el proveedor; nil = sin límite
	SupplierEndDate   *time.Time
	Assignment        *Assignment // nil si no tiene asignación actual
	Status            SimStatus
	Version           int64 // control de concurrencia optimista
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Assignment asignación actual de una SIM a un servicio externo.
type Assignment struct {
	ServiceName       string
	CustomerID        *string
	UsageCategoryID   *string
	ContractStartDate *time.Time
	ContractEndDate   *time.Time
}

// HasAssignment indica si la SIM tiene una asignación actual.
func (s *Sim) HasAssignment() bool {
	return s.Assignment != nil && s.Assignment.ServiceName != ""
}
