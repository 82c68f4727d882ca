package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/application/usecase"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/testutil"
)

type fakeReport struct {
	gotHistory int
	err        error
}

func (f *fakeReport) GenerateHistoryReport(_ context.Context, _ *entity.Sim, history []*entity.SimHistory) ([]byte, error) {
	f.gotHistory = len(history)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func strp(s string) *string { return &s }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newSimUseCase(store *testutil.Store) (*usecase.SimUseCase, *fakeReport) {
	report := &fakeReport{}
	return usecase.NewSimUseCase(store, store.Sims(), store.HistoryRepo(), report), report
}

func TestValidateUpsert(t *testing.T) {
	in, err := usecase.ValidateUpsert(dto.UpsertSimRequest{
		ICCID: " 8981000000000000001 ", Supplier: "A", MSISDN: strp("09012345678"),
		SupplierStartDate: strp("2024/01/01"), SupplierEndDate: strp("2024-06-30"), Plan: strp("  "),
		Status: strp("active"),
	})
	require.NoError(t, err)
	assert.Equal(t, "8981000000000000001", in.ICCID)
	assert.Equal(t, date(2024, 1, 1), in.SupplierStartDate)
	assert.Nil(t, in.Plan, "texto vacío equivale a no informado")
	assert.Equal(t, entity.SimStatusActive, *in.Status)

	_, err = usecase.ValidateUpsert(dto.UpsertSimRequest{
		ICCID: "123", MSISDN: strp("090-1234"),
		SupplierStartDate: strp("2024-06-30"), SupplierEndDate: strp("2024-01-01"),
		Status: strp("LOST"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *usecase.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"iccid", "msisdn", "supplier", "supplier_end_date", "status"}, fields)
}

func TestSimUpsert_CreateAndUpdate(t *testing.T) {
	store := testutil.NewStore()
	uc, _ := newSimUseCase(store)
	ctx := context.Background()

	res, err := uc.UpsertFromRequest(ctx, dto.UpsertSimRequest{ICCID: "8981000000000000001", Supplier: "A", Plan: strp("basic")})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, string(entity.SimStatusInStock), res.Sim.Status)

	res, err = uc.UpsertFromRequest(ctx, dto.UpsertSimRequest{ICCID: "8981000000000000001", Supplier: "B", MSISDN: strp("09012345678")})
	require.NoError(t, err)
	assert.False(t, res.Created)
	sim := store.Sim("8981000000000000001")
	assert.Equal(t, "B", sim.Supplier)
	assert.Equal(t, "basic", *sim.Plan, "los campos no informados se conservan")
	assert.Equal(t, "09012345678", *sim.MSISDN)
	assert.Equal(t, entity.SimStatusInStock, sim.Status)
	assert.Equal(t, int64(2), sim.Version)
}

func TestSimUpsert_NeverTouchesAssignment(t *testing.T) {
	store := testutil.NewStore()
	assignment := &entity.Assignment{ServiceName: "buppan", CustomerID: strp("C-1"), ContractEndDate: date(2030, 1, 1)}
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusActive, Assignment: assignment})
	uc, _ := newSimUseCase(store)

	_, err := uc.UpsertFromRequest(context.Background(), dto.UpsertSimRequest{ICCID: "8981000000000000001", Supplier: "A", Plan: strp("pro")})
	require.NoError(t, err)
	sim := store.Sim("8981000000000000001")
	assert.Equal(t, entity.SimStatusActive, sim.Status)
	assert.Equal(t, assignment, sim.Assignment)
	assert.Empty(t, store.History("8981000000000000001"))
}

func TestSimUpsert_StatusRules(t *testing.T) {
	store := testutil.NewStore()
	store.AddSim(&entity.Sim{ICCID: "8981000000000000002", Supplier: "A", Status: entity.SimStatusRetired})
	uc, _ := newSimUseCase(store)
	ctx := context.Background()

	_, err := uc.UpsertFromRequest(ctx, dto.UpsertSimRequest{ICCID: "8981000000000000001", Supplier: "A", Status: strp("ACTIVE")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ACTIVE exige asignación")
	assert.Nil(t, store.Sim("8981000000000000001"))

	_, err = uc.UpsertFromRequest(ctx, dto.UpsertSimRequest{ICCID: "8981000000000000002", Supplier: "A", Status: strp("IN_STOCK")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.UpsertFromRequest(ctx, dto.UpsertSimRequest{ICCID: "8981000000000000002", Supplier: "Z"})
	require.NoError(t, err)
	assert.Equal(t, entity.SimStatusRetired, store.Sim("8981000000000000002").Status)
}

func TestSimUpsert_RevalidatesMergedWindow(t *testing.T) {
	store := testutil.NewStore()
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A", SupplierStartDate: date(2024, 6, 1)})
	uc, _ := newSimUseCase(store)

	_, err := uc.UpsertFromRequest(context.Background(), dto.UpsertSimRequest{
		ICCID: "8981000000000000001", Supplier: "A", SupplierEndDate: strp("2024-01-01"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, store.Sim("8981000000000000001").SupplierEndDate)
}

func TestSimList(t *testing.T) {
	store := testutil.NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, iccid := range []string{"8981000000000000001", "8981000000000000002", "8981000000000000003"} {
		store.AddSim(&entity.Sim{ICCID: iccid, Supplier: "A", Status: entity.SimStatusInStock, UpdatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	store.AddSim(&entity.Sim{ICCID: "8981000000000000004", Supplier: "B", Status: entity.SimStatusRetired, MSISDN: strp("08011112222")})
	uc, _ := newSimUseCase(store)
	ctx := context.Background()

	res, err := uc.List(ctx, dto.SimListQuery{Supplier: "A", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, dto.PageResponse{Total: 3, Page: 1, PageSize: 2, TotalPages: 2}, res.Pagination)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "8981000000000000003", res.Data[0].ICCID, "updated_at desc por defecto")

	res, err = uc.List(ctx, dto.SimListQuery{SortBy: "iccid", SortOrder: "asc", Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "8981000000000000004", res.Data[0].ICCID)

	res, err = uc.List(ctx, dto.SimListQuery{Statuses: []string{"retired"}, Search: "1111"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.Total)

	for _, q := range []dto.SimListQuery{
		{PageSize: 101}, {Page: -1}, {SortBy: "msisdn"}, {SortOrder: "up"}, {Statuses: []string{"LOST"}},
	} {
		_, err := uc.List(ctx, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestSimDetailAndReport(t *testing.T) {
	store := testutil.NewStore()
	cat := store.AddCategory("物販")
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A"})
	store.AddHistory(&entity.SimHistory{ICCID: "8981000000000000001", ServiceName: "buppan", ContractStartDate: date(2024, 1, 1)})
	store.AddHistory(&entity.SimHistory{ICCID: "8981000000000000001", ServiceName: "versus"})
	store.AddHistory(&entity.SimHistory{ICCID: "8981000000000000001", ServiceName: "buppan", ContractStartDate: date(2024, 5, 1), UsageCategoryID: &cat.ID})
	uc, report := newSimUseCase(store)
	ctx := context.Background()

	detail, err := uc.Detail(ctx, "8981000000000000001")
	require.NoError(t, err)
	require.Len(t, detail.History, 3)
	assert.Equal(t, date(2024, 5, 1), detail.History[0].ContractStartDate)
	assert.Equal(t, "物販", detail.History[0].UsageCategoryName)
	assert.Equal(t, "versus", detail.History[2].ServiceName, "sin fecha de inicio al final")

	pdf, name, err := uc.HistoryReport(ctx, "8981000000000000001")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "sim-8981000000000000001-historial.pdf", name)
	assert.Equal(t, 3, report.gotHistory)

	_, err = uc.Detail(ctx, "8981000000000000009")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = uc.HistoryReport(ctx, "8981000000000000009")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSimLookupMSISDN(t *testing.T) {
	store := testutil.NewStore()
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A", MSISDN: strp("09012345678")})
	uc, _ := newSimUseCase(store)
	ctx := context.Background()

	res, err := uc.LookupMSISDN(ctx, "8981000000000000001")
	require.NoError(t, err)
	assert.Equal(t, "09012345678", *res.MSISDN)

	_, err = uc.LookupMSISDN(ctx, "12345")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.LookupMSISDN(ctx, "8981000000000000009")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSimStats(t *testing.T) {
	store := testutil.NewStore()
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Status: entity.SimStatusActive, Assignment: &entity.Assignment{ServiceName: "buppan"}})
	store.AddSim(&entity.Sim{ICCID: "8981000000000000002", Status: entity.SimStatusInStock})
	store.AddSim(&entity.Sim{ICCID: "8981000000000000003", Status: entity.SimStatusInStock})
	uc, _ := newSimUseCase(store)

	st, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, map[string]int{"IN_STOCK": 2, "ACTIVE": 1, "RETURNING": 0, "RETIRED": 0}, st.ByStatus)
	assert.Equal(t, "33.33", st.UtilizationPct.StringFixed(2))
}
