package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/lifecycle"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestAssignmentStatus(t *testing.T) {
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	cases := []struct {
		name string
		next entity.Assignment
		want entity.SimStatus
	}{
		{"cliente y contrato vigente", entity.Assignment{CustomerID: ptr("c-1"), ContractEndDate: &future}, entity.SimStatusActive},
		{"contrato vencido", entity.Assignment{CustomerID: ptr("c-1"), ContractEndDate: &past}, entity.SimStatusInStock},
		{"termina exactamente ahora", entity.Assignment{CustomerID: ptr("c-1"), ContractEndDate: &now}, entity.SimStatusInStock},
		{"sin cliente", entity.Assignment{ContractEndDate: &future}, entity.SimStatusInStock},
		{"cliente en blanco", entity.Assignment{CustomerID: ptr(" "), ContractEndDate: &future}, entity.SimStatusInStock},
		{"sin fecha fin", entity.Assignment{CustomerID: ptr("c-1")}, entity.SimStatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := lifecycle.AssignmentStatus(entity.SimStatusInStock, tc.next, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAssignmentStatus_RetiredRechazada(t *testing.T) {
	_, err := lifecycle.AssignmentStatus(entity.SimStatusRetired, entity.Assignment{}, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestAssignmentChanged(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	current := &entity.Assignment{ServiceName: "buppan", CustomerID: ptr("c-1"), ContractStartDate: &start, ContractEndDate: &end}

	same := entity.Assignment{ServiceName: "buppan", CustomerID: ptr("c-1"), ContractStartDate: ptr(start), ContractEndDate: ptr(end), UsageCategoryID: ptr("cat")}
	assert.False(t, lifecycle.AssignmentChanged(current, same), "la categoría no cuenta como cambio")

	otherEnd := same
	otherEnd.ContractEndDate = ptr(end.AddDate(0, 1, 0))
	assert.True(t, lifecycle.AssignmentChanged(current, otherEnd))

	otherService := same
	otherService.ServiceName = "versus"
	assert.True(t, lifecycle.AssignmentChanged(current, otherService))

	noCustomer := same
	noCustomer.CustomerID = nil
	assert.True(t, lifecycle.AssignmentChanged(current, noCustomer))

	assert.True(t, lifecycle.AssignmentChanged(nil, same))
}

func TestCheckInvariants(t *testing.T) {
	s := &entity.Sim{ICCID: "8981100000000000001", Supplier: "A", Status: entity.SimStatusActive}
	assert.ErrorIs(t, lifecycle.CheckInvariants(s), domain.ErrInvalidInput)

	s.Assignment = &entity.Assignment{ServiceName: "buppan"}
	assert.NoError(t, lifecycle.CheckInvariants(s))

	s.SupplierStartDate = ptr(now)
	s.SupplierEndDate = ptr(now.Add(-time.Hour))
	assert.ErrorIs(t, lifecycle.CheckInvariants(s), domain.ErrInvalidInput)
}

func TestParseStatus(t *testing.T) {
	st, err := lifecycle.ParseStatus("in_stock")
	require.NoError(t, err)
	assert.Equal(t, entity.SimStatusInStock, st)

	_, err = lifecycle.ParseStatus("LOST")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssignmentChanged_FechaConNanosegundosGuardada(t *testing.T) {
	stored := time.Date(2024, 5, 1, 10, 0, 0, 123457000, time.UTC)
	current := &entity.Assignment{ServiceName: "buppan", CustomerID: ptr("c-1"), ContractStartDate: &stored}

	incoming := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)
	next := entity.Assignment{ServiceName: "buppan", CustomerID: ptr("c-1"), ContractStartDate: &incoming}
	assert.False(t, lifecycle.AssignmentChanged(current, next))
}
