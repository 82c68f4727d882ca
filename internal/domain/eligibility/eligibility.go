// Package eligibility define los predicados que decide si una SIM es vendible para una
// categoría de uso en un período. El repositorio traduce CandidateQuery a SQL; Matches es
// la definición de referencia de la misma selección.
package eligibility

import (
	"time"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

const day = 24 * time.Hour

// SellableStatuses estados que pueden ofrecerse en una consulta de disponibilidad.
var SellableStatuses = []entity.SimStatus{entity.SimStatusInStock, entity.SimStatusActive}

// DaysBetween días completos entre start y end (piso de la diferencia).
func DaysBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return -int((-d) / day)
	}
	return int(d / day)
}

// Window período solicitado [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Days longitud del período en días.
func (w Window) Days() int { return DaysBetween(w.Start, w.End) }

// CandidateQuery selección de SIMs para una regla (pasos 1 a 3 de la evaluación).
type CandidateQuery struct {
	Statuses        []entity.SimStatus
	Supplier        *string
	Plan            *string
	Window          Window
	ExcludeAssigned bool
}

// ForRule construye la consulta de candidatos de una regla.
func ForRule(rule *entity.EligibilityRule, w Window, excludeAssigned bool) CandidateQuery {
	return CandidateQuery{
		Statuses:        SellableStatuses,
		Supplier:        rule.SupplierFilter,
		Plan:            rule.PlanFilter,
		Window:          w,
		ExcludeAssigned: excludeAssigned,
	}
}

// Matches aplica la consulta a una SIM en memoria.
// postgres.SimRepo.ListCandidates evalúa los mismos predicados en SQL.
func (q CandidateQuery) Matches(s *entity.Sim) bool {
	if !statusIn(s.Status, q.Statuses) {
		return false
	}
	if q.Supplier != nil && s.Supplier != *q.Supplier {
		return false
	}
	if q.Plan != nil && (s.Plan == nil || *s.Plan != *q.Plan) {
		return false
	}
	if !CoversWindow(s, q.Window) {
		return false
	}
	if q.ExcludeAssigned && OverlapsAssignment(s, q.Window) {
		return false
	}
	return true
}

// CoversWindow la ventana del proveedor debe cubrir completamente el período solicitado.
func CoversWindow(s *entity.Sim, w Window) bool {
	if s.SupplierStartDate != nil && s.SupplierStartDate.After(w.Start) {
		return false
	}
	if s.SupplierEndDate != nil && s.SupplierEndDate.Before(w.End) {
		return false
	}
	return true
}

// OverlapsAssignment una asignación actual descalifica la SIM salvo que su contrato
// haya terminado antes del inicio solicitado. Una asignación sin fecha fin se considera abierta.
func OverlapsAssignment(s *entity.Sim, w Window) bool {
	if !s.HasAssignment() {
		return false
	}
	end := s.Assignment.ContractEndDate
	return end == nil || !end.Before(w.Start)
}

// SatisfiesContract post-filtro (paso 4): la duración del contrato con el proveedor debe
// alcanzar el mínimo de la regla y el largo del período solicitado. Solo aplica cuando
// ambos límites de la ventana del proveedor existen; una ventana abierta no tiene largo finito.
func SatisfiesContract(s *entity.Sim, minContractDays, requestedDays int) bool {
	if s.SupplierStartDate == nil || s.SupplierEndDate == nil {
		return true
	}
	contractDays := DaysBetween(*s.SupplierStartDate, *s.SupplierEndDate)
	return contractDays >= minContractDays && contractDays >= requestedDays
}

func statusIn(s entity.SimStatus, list []entity.SimStatus) bool {
	for _, st := range list {
		if st == s {
			return true
		}
	}
	return false
}
