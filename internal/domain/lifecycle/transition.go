// Package lifecycle concentra las transiciones de estado de una SIM.
// Es el único punto que decide el estado resultante de una asignación reconciliada.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/pkg/dates"
)

// ParseStatus convierte un texto en SimStatus (sin distinguir mayúsculas).
func ParseStatus(s string) (entity.SimStatus, error) {
	st := entity.SimStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, s)
	}
	return st, nil
}

// AssignmentStatus calcula el estado de una SIM tras aplicar una asignación externa:
// ACTIVE si hay cliente y el contrato termina estrictamente después de now; IN_STOCK en otro caso.
// Una SIM RETIRED no admite nuevas asignaciones.
func AssignmentStatus(from entity.SimStatus, next entity.Assignment, now time.Time) (entity.SimStatus, error) {
	if from == entity.SimStatusRetired {
		return from, fmt.Errorf("%w: %s no admite nuevas asignaciones", domain.ErrInvalidTransition, from)
	}
	if !from.Valid() {
		return from, fmt.Errorf("%w: estado de origen %q", domain.ErrInvalidTransition, from)
	}
	hasCustomer := next.CustomerID != nil && strings.TrimSpace(*next.CustomerID) != ""
	if hasCustomer && next.ContractEndDate != nil && next.ContractEndDate.After(now) {
		return entity.SimStatusActive, nil
	}
	return entity.SimStatusInStock, nil
}

// AssignmentChanged compara servicio, cliente e inicio/fin de contrato.
// La categoría de uso no participa: se deriva de la fuente.
func AssignmentChanged(current *entity.Assignment, next entity.Assignment) bool {
	if current == nil {
		return true
	}
	if current.ServiceName != next.ServiceName {
		return true
	}
	if !equalString(current.CustomerID, next.CustomerID) {
		return true
	}
	return !dates.Equal(current.ContractStartDate, next.ContractStartDate) ||
		!dates.Equal(current.ContractEndDate, next.ContractEndDate)
}

// CheckInvariants valida las reglas del registro de una SIM.
func CheckInvariants(s *entity.Sim) error {
	if !s.Status.Valid() {
		return fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, s.Status)
	}
	if s.Status.RequiresAssignment() && !s.HasAssignment() {
		return fmt.Errorf("%w: el estado %s requiere una asignación actual", domain.ErrInvalidInput, s.Status)
	}
	if s.SupplierStartDate != nil && s.SupplierEndDate != nil && s.SupplierEndDate.Before(*s.SupplierStartDate) {
		return fmt.Errorf("%w: la fecha fin del proveedor es anterior a la fecha inicio", domain.ErrInvalidInput)
	}
	return nil
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
