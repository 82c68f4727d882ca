package eligibility_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/simstock-api/internal/domain/eligibility"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func window(start, end *time.Time) eligibility.Window {
	return eligibility.Window{Start: *start, End: *end}
}

func strp(s string) *string { return &s }

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 181, eligibility.DaysBetween(*date(2024, 1, 1), *date(2024, 6, 30)))
	assert.Equal(t, 0, eligibility.DaysBetween(*date(2024, 1, 1), date(2024, 1, 1).Add(23*time.Hour)))
	assert.Equal(t, -1, eligibility.DaysBetween(*date(2024, 1, 2), *date(2024, 1, 1)))
}

// Ventana del proveedor [2024-01-01, 2024-06-30].
func TestCoversWindow(t *testing.T) {
	s := &entity.Sim{SupplierStartDate: date(2024, 1, 1), SupplierEndDate: date(2024, 6, 30)}

	assert.False(t, eligibility.CoversWindow(s, window(date(2024, 5, 1), date(2024, 7, 15))),
		"no cubre el final del período")
	assert.True(t, eligibility.CoversWindow(s, window(date(2024, 2, 1), date(2024, 5, 1))))
	assert.False(t, eligibility.CoversWindow(s, window(date(2023, 12, 1), date(2024, 2, 1))),
		"no cubre el inicio del período")

	open := &entity.Sim{}
	assert.True(t, eligibility.CoversWindow(open, window(date(2000, 1, 1), date(2100, 1, 1))))
}

func TestOverlapsAssignment(t *testing.T) {
	w := window(date(2024, 3, 1), date(2024, 4, 1))

	assert.False(t, eligibility.OverlapsAssignment(&entity.Sim{}, w))

	ended := &entity.Sim{Assignment: &entity.Assignment{ServiceName: "buppan", ContractEndDate: date(2024, 2, 28)}}
	assert.False(t, eligibility.OverlapsAssignment(ended, w))

	endsOnStart := &entity.Sim{Assignment: &entity.Assignment{ServiceName: "buppan", ContractEndDate: date(2024, 3, 1)}}
	assert.True(t, eligibility.OverlapsAssignment(endsOnStart, w))

	open := &entity.Sim{Assignment: &entity.Assignment{ServiceName: "buppan"}}
	assert.True(t, eligibility.OverlapsAssignment(open, w))
}

func TestSatisfiesContract(t *testing.T) {
	s := &entity.Sim{SupplierStartDate: date(2024, 1, 1), SupplierEndDate: date(2024, 6, 30)} // 181 días

	assert.True(t, eligibility.SatisfiesContract(s, 180, 90))
	assert.False(t, eligibility.SatisfiesContract(s, 182, 90))
	assert.False(t, eligibility.SatisfiesContract(s, 0, 200))
	assert.True(t, eligibility.SatisfiesContract(&entity.Sim{SupplierEndDate: date(2024, 1, 2)}, 365, 365),
		"ventana abierta no se filtra por duración")
}

func TestCandidateQuery_Matches(t *testing.T) {
	rule := &entity.EligibilityRule{SupplierFilter: strp("A"), PlanFilter: strp("P1")}
	q := eligibility.ForRule(rule, window(date(2024, 2, 1), date(2024, 3, 1)), true)

	base := func() *entity.Sim {
		return &entity.Sim{Supplier: "A", Plan: strp("P1"), Status: entity.SimStatusInStock}
	}

	assert.True(t, q.Matches(base()))

	s := base()
	s.Supplier = "B"
	assert.False(t, q.Matches(s))

	s = base()
	s.Plan = nil
	assert.False(t, q.Matches(s))

	s = base()
	s.Status = entity.SimStatusRetired
	assert.False(t, q.Matches(s))

	s = base()
	s.Status = entity.SimStatusActive
	assert.True(t, q.Matches(s))

	s = base()
	s.Assignment = &entity.Assignment{ServiceName: "versus", ContractEndDate: date(2024, 2, 15)}
	assert.False(t, q.Matches(s), "asignación superpuesta con exclusión activa")

	q.ExcludeAssigned = false
	assert.True(t, q.Matches(s))
}
