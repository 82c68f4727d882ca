package availability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/application/availability"
	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/testutil"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strp(s string) *string { return &s }

func newUseCase(store *testutil.Store) *availability.UseCase {
	return availability.NewUseCase(store.Categories(), store.Rules(), store.Sims())
}

func request(categoryID string, start, end *time.Time) dto.AvailabilityRequest {
	return dto.AvailabilityRequest{UsageCategoryID: categoryID, StartDate: *start, EndDate: *end, ExcludeCurrentlyAssigned: true}
}

// retail-use: prioridad 10 (proveedor A, 90 días) y prioridad 5 (sin filtro).
func TestEvaluate_FallsThroughToLowerPriority(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID, SupplierFilter: strp("A"), MinContractDays: 90, Priority: 10})
	low := store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID, Priority: 5})
	store.AddSim(&entity.Sim{
		ICCID: "8981000000000000001", Supplier: "B", Status: entity.SimStatusInStock,
		SupplierStartDate: date(2024, 1, 1), SupplierEndDate: date(2024, 4, 30), // 120 días
	})

	res, err := newUseCase(store).Evaluate(context.Background(), request(cat.ID, date(2024, 2, 1), date(2024, 3, 2)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.AvailableCount)
	require.Len(t, res.Sims, 1)
	assert.Equal(t, "8981000000000000001", res.Sims[0].ICCID)
	require.NotNil(t, res.MatchedRuleID)
	assert.Equal(t, low.ID, *res.MatchedRuleID)
	assert.Equal(t, 5, *res.MatchedRulePriority)
	assert.Equal(t, 2, res.RulesEvaluated)
	assert.Empty(t, res.Reason)
}

func TestEvaluate_HigherPriorityWins(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	high := store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID, SupplierFilter: strp("A"), Priority: 10})
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID, Priority: 5})
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusInStock})
	store.AddSim(&entity.Sim{ICCID: "8981000000000000002", Supplier: "B", Status: entity.SimStatusInStock})

	res, err := newUseCase(store).Evaluate(context.Background(), request(cat.ID, date(2024, 2, 1), date(2024, 3, 1)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.AvailableCount)
	assert.Equal(t, "8981000000000000001", res.Sims[0].ICCID)
	assert.Equal(t, high.ID, *res.MatchedRuleID)
	assert.Equal(t, 1, res.RulesEvaluated, "las reglas de menor prioridad no se consultan")
}

func TestEvaluate_SamePriorityUsesCreationOrder(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	first := store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID, SupplierFilter: strp("A"), Priority: 1})
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID, SupplierFilter: strp("B"), Priority: 1})
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusInStock})
	store.AddSim(&entity.Sim{ICCID: "8981000000000000002", Supplier: "B", Status: entity.SimStatusInStock})

	res, err := newUseCase(store).Evaluate(context.Background(), request(cat.ID, date(2024, 2, 1), date(2024, 3, 1)))
	require.NoError(t, err)
	assert.Equal(t, first.ID, *res.MatchedRuleID)
}

func TestEvaluate_SupplierWindowCoverage(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID, MinContractDays: 180})
	store.AddSim(&entity.Sim{
		ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusInStock,
		SupplierStartDate: date(2024, 1, 1), SupplierEndDate: date(2024, 6, 30),
	})
	uc := newUseCase(store)

	res, err := uc.Evaluate(context.Background(), request(cat.ID, date(2024, 5, 1), date(2024, 7, 15)))
	require.NoError(t, err)
	assert.Zero(t, res.AvailableCount)
	assert.Empty(t, res.Sims)
	assert.Equal(t, availability.ReasonNothingAvailable, res.Reason)
	assert.Nil(t, res.MatchedRuleID)

	res, err = uc.Evaluate(context.Background(), request(cat.ID, date(2024, 2, 1), date(2024, 5, 1)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.AvailableCount)
}

func TestEvaluate_ContractLengthPostFilter(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID, MinContractDays: 200})
	store.AddSim(&entity.Sim{
		ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusInStock,
		SupplierStartDate: date(2024, 1, 1), SupplierEndDate: date(2024, 6, 30),
	})

	res, err := newUseCase(store).Evaluate(context.Background(), request(cat.ID, date(2024, 2, 1), date(2024, 3, 1)))
	require.NoError(t, err)
	assert.Zero(t, res.AvailableCount, "contrato de 181 días < mínimo de 200")
}

func TestEvaluate_ExcludeCurrentlyAssigned(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID})
	// IN_STOCK con asignación desactualizada que se solapa con el período
	store.AddSim(&entity.Sim{
		ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusInStock,
		Assignment: &entity.Assignment{ServiceName: "buppan", CustomerID: strp("C-1"), ContractEndDate: date(2024, 2, 15)},
	})
	uc := newUseCase(store)

	req := request(cat.ID, date(2024, 2, 1), date(2024, 3, 1))
	res, err := uc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, res.AvailableCount)

	req.ExcludeCurrentlyAssigned = false
	res, err = uc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.AvailableCount)
}

func TestEvaluate_IgnoresNonSellableStatuses(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID})
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusRetired})
	store.AddSim(&entity.Sim{
		ICCID: "8981000000000000002", Supplier: "A", Status: entity.SimStatusReturning,
		Assignment: &entity.Assignment{ServiceName: "versus"},
	})

	res, err := newUseCase(store).Evaluate(context.Background(), dto.AvailabilityRequest{
		UsageCategoryID: cat.ID, StartDate: *date(2024, 2, 1), EndDate: *date(2024, 3, 1),
	})
	require.NoError(t, err)
	assert.Zero(t, res.AvailableCount)
}

func TestEvaluate_Idempotent(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID})
	for _, iccid := range []string{"8981000000000000003", "8981000000000000001", "8981000000000000002"} {
		store.AddSim(&entity.Sim{ICCID: iccid, Supplier: "A", Status: entity.SimStatusInStock})
	}
	uc := newUseCase(store)
	req := request(cat.ID, date(2024, 2, 1), date(2024, 3, 1))

	first, err := uc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "8981000000000000001", first.Sims[0].ICCID)
}

func TestEvaluate_Errors(t *testing.T) {
	store := testutil.NewStore()
	empty := store.AddCategory("sin-reglas")
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.Evaluate(ctx, request(empty.ID, date(2024, 3, 1), date(2024, 3, 1)))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = uc.Evaluate(ctx, request("no-existe", date(2024, 2, 1), date(2024, 3, 1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Evaluate(ctx, request(empty.ID, date(2024, 2, 1), date(2024, 3, 1)))
	assert.ErrorIs(t, err, domain.ErrNoRulesDefined)
}

func TestEvaluate_PropagatesLedgerErrors(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("retail-use")
	store.AddRule(&entity.EligibilityRule{UsageCategoryID: cat.ID})
	boom := errors.New("conexión cerrada")
	store.FailCandidates(boom)

	_, err := newUseCase(store).Evaluate(context.Background(), request(cat.ID, date(2024, 2, 1), date(2024, 3, 1)))
	assert.ErrorIs(t, err, boom)
}
