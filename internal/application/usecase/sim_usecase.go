package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/application/ports"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/lifecycle"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// SimTxRunner ejecuta una función dentro de una transacción con los repositorios del inventario.
type SimTxRunner interface {
	Run(ctx context.Context, fn func(
		simRepo repository.SimRepository,
		historyRepo repository.SimHistoryRepository,
	) error) error
}

// SimUseCase consulta y administración de SIMs. No toca asignaciones ni historial:
// esos campos solo los escribe el motor de reconciliación.
type SimUseCase struct {
	txRunner    SimTxRunner
	simRepo     repository.SimRepository
	historyRepo repository.SimHistoryRepository
	report      ports.HistoryReportGenerator
	now         func() time.Time
}

// NewSimUseCase construye el caso de uso.
func NewSimUseCase(
	txRunner SimTxRunner,
	simRepo repository.SimRepository,
	historyRepo repository.SimHistoryRepository,
	report ports.HistoryReportGenerator,
) *SimUseCase {
	return &SimUseCase{
		txRunner:    txRunner,
		simRepo:     simRepo,
		historyRepo: historyRepo,
		report:      report,
		now:         time.Now,
	}
}

// List lista SIMs con filtros, orden y paginación.
func (uc *SimUseCase) List(ctx context.Context, q dto.SimListQuery) (*dto.SimListResponse, error) {
	filter, page, pageSize, err := buildSimFilter(q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.simRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SimResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSimResponse(s))
	}
	return &dto.SimListResponse{
		Data: items,
		Pagination: dto.PageResponse{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}, nil
}

func buildSimFilter(q dto.SimListQuery) (repository.SimFilter, int, int, error) {
	f := repository.SimFilter{
		Supplier:    strings.TrimSpace(q.Supplier),
		ServiceName: strings.TrimSpace(q.ServiceName),
		MSISDN:      strings.TrimSpace(q.MSISDN),
		Search:      strings.TrimSpace(q.Search),
	}
	for _, s := range q.Statuses {
		if strings.TrimSpace(s) == "" {
			continue
		}
		st, err := lifecycle.ParseStatus(s)
		if err != nil {
			return f, 0, 0, err
		}
		f.Statuses = append(f.Statuses, st)
	}

	page, pageSize := q.Page, q.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if page < 1 || pageSize < 1 || pageSize > maxPageSize {
		return f, 0, 0, fmt.Errorf("%w: page >= 1 y page_size entre 1 y %d", domain.ErrInvalidInput, maxPageSize)
	}
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize

	switch q.SortBy {
	case "", "updatedAt", repository.SimSortUpdatedAt:
		f.SortBy = repository.SimSortUpdatedAt
	case repository.SimSortICCID, repository.SimSortSupplier:
		f.SortBy = q.SortBy
	default:
		return f, 0, 0, fmt.Errorf("%w: sort_by %q", domain.ErrInvalidInput, q.SortBy)
	}
	switch strings.ToLower(q.SortOrder) {
	case "", "desc":
		f.SortDesc = true
	case "asc":
	default:
		return f, 0, 0, fmt.Errorf("%w: sort_order %q", domain.ErrInvalidInput, q.SortOrder)
	}
	return f, page, pageSize, nil
}

// Detail devuelve la SIM con su historial (inicio de contrato descendente).
func (uc *SimUseCase) Detail(ctx context.Context, iccid string) (*dto.SimDetailResponse, error) {
	sim, history, err := uc.load(ctx, iccid)
	if err != nil {
		return nil, err
	}
	out := &dto.SimDetailResponse{Sim: toSimResponse(sim), History: make([]dto.SimHistoryResponse, 0, len(history))}
	for _, h := range history {
		out.History = append(out.History, toHistoryResponse(h))
	}
	return out, nil
}

// HistoryReport genera el PDF del historial. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *SimUseCase) HistoryReport(ctx context.Context, iccid string) ([]byte, string, error) {
	sim, history, err := uc.load(ctx, iccid)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.report.GenerateHistoryReport(ctx, sim, history)
	if err != nil {
		return nil, "", fmt.Errorf("reporte historial: %w", err)
	}
	return pdf, fmt.Sprintf("sim-%s-historial.pdf", sim.ICCID), nil
}

func (uc *SimUseCase) load(ctx context.Context, iccid string) (*entity.Sim, []*entity.SimHistory, error) {
	sim, err := uc.simRepo.GetByICCID(ctx, strings.TrimSpace(iccid))
	if err != nil {
		return nil, nil, err
	}
	if sim == nil {
		return nil, nil, fmt.Errorf("%w: SIM %s", domain.ErrNotFound, iccid)
	}
	history, err := uc.historyRepo.ListByICCID(ctx, sim.ICCID)
	if err != nil {
		return nil, nil, err
	}
	return sim, history, nil
}

// UpsertFromRequest valida el body y delega en Upsert.
func (uc *SimUseCase) UpsertFromRequest(ctx context.Context, req dto.UpsertSimRequest) (*dto.UpsertSimResponse, error) {
	in, err := ValidateUpsert(req)
	if err != nil {
		return nil, err
	}
	return uc.Upsert(ctx, in)
}

// Upsert crea la SIM (IN_STOCK salvo que se indique otro estado) o sobrescribe los campos informados.
// Si no se informa estado, el existente no cambia. Una SIM RETIRED no admite cambio de estado.
func (uc *SimUseCase) Upsert(ctx context.Context, in UpsertInput) (*dto.UpsertSimResponse, error) {
	now := uc.now()
	var (
		result  *entity.Sim
		created bool
	)
	err := uc.txRunner.Run(ctx, func(simRepo repository.SimRepository, _ repository.SimHistoryRepository) error {
		sim, err := simRepo.GetForUpdate(ctx, in.ICCID)
		if err != nil {
			return err
		}
		if sim == nil {
			sim = &entity.Sim{
				ICCID:     in.ICCID,
				Status:    entity.SimStatusInStock,
				CreatedAt: now,
			}
			applyUpsert(sim, in, now)
			if err := lifecycle.CheckInvariants(sim); err != nil {
				return err
			}
			if err := simRepo.Create(ctx, sim); err != nil {
				return err
			}
			result, created = sim, true
			return nil
		}

		if sim.Status == entity.SimStatusRetired && in.Status != nil && *in.Status != entity.SimStatusRetired {
			return fmt.Errorf("%w: la SIM %s está dada de baja", domain.ErrInvalidTransition, sim.ICCID)
		}
		expected := sim.Version
		applyUpsert(sim, in, now)
		if err := lifecycle.CheckInvariants(sim); err != nil {
			return err
		}
		if err := simRepo.UpdateProfile(ctx, sim, expected); err != nil {
			return err
		}
		result = sim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.UpsertSimResponse{Sim: toSimResponse(result), Created: created}, nil
}

func applyUpsert(sim *entity.Sim, in UpsertInput, now time.Time) {
	sim.Supplier = in.Supplier
	if in.MSISDN != nil {
		sim.MSISDN = in.MSISDN
	}
	if in.OwnerCompany != nil {
		sim.OwnerCompany = in.OwnerCompany
	}
	if in.Plan != nil {
		sim.Plan = in.Plan
	}
	if in.CustomerType != nil {
		sim.CustomerType = in.CustomerType
	}
	if in.SupplierStartDate != nil {
		sim.SupplierStartDate = in.SupplierStartDate
	}
	if in.SupplierEndDate != nil {
		sim.SupplierEndDate = in.SupplierEndDate
	}
	if in.Status != nil {
		sim.Status = *in.Status
	}
	sim.UpdatedAt = now
}

// LookupMSISDN consulta pública ICCID -> MSISDN.
func (uc *SimUseCase) LookupMSISDN(ctx context.Context, iccid string) (*dto.PublicMSISDNResponse, error) {
	iccid = strings.TrimSpace(iccid)
	if !iccidPattern.MatchString(iccid) {
		return nil, fmt.Errorf("%w: iccid debe tener entre 19 y 20 dígitos", domain.ErrInvalidInput)
	}
	sim, err := uc.simRepo.GetByICCID(ctx, iccid)
	if err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, fmt.Errorf("%w: SIM %s", domain.ErrNotFound, iccid)
	}
	return &dto.PublicMSISDNResponse{ICCID: sim.ICCID, MSISDN: sim.MSISDN}, nil
}

// Stats conteo de la flota por estado y porcentaje de utilización.
func (uc *SimUseCase) Stats(ctx context.Context) (*dto.SimStatsResponse, error) {
	st, err := uc.simRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.SimStatsResponse{
		ByStatus:       make(map[string]int, len(entity.SimStatuses)),
		Total:          st.Total,
		UtilizationPct: st.UtilizationPct,
	}
	for _, s := range entity.SimStatuses {
		out.ByStatus[string(s)] = st.ByStatus[s]
	}
	return out, nil
}

func toSimResponse(s *entity.Sim) dto.SimResponse {
	r := dto.SimResponse{
		ICCID:             s.ICCID,
		MSISDN:            s.MSISDN,
		Supplier:          s.Supplier,
		OwnerCompany:      s.OwnerCompany,
		Plan:              s.Plan,
		CustomerType:      s.CustomerType,
		SupplierStartDate: s.SupplierStartDate,
		SupplierEndDate:   s.SupplierEndDate,
		Status:            string(s.Status),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.HasAssignment() {
		a := s.Assignment
		r.Assignment = &dto.AssignmentResponse{
			ServiceName:       a.ServiceName,
			CustomerID:        a.CustomerID,
			UsageCategoryID:   a.UsageCategoryID,
			ContractStartDate: a.ContractStartDate,
			ContractEndDate:   a.ContractEndDate,
		}
	}
	return r
}

func toHistoryResponse(h *entity.SimHistory) dto.SimHistoryResponse {
	return dto.SimHistoryResponse{
		ID:                h.ID,
		ServiceName:       h.ServiceName,
		CustomerID:        h.CustomerID,
		UsageCategoryID:   h.UsageCategoryID,
		UsageCategoryName: h.UsageCategoryName,
		ContractStartDate: h.ContractStartDate,
		ContractEndDate:   h.ContractEndDate,
		ShippedDate:       h.ShippedDate,
		ArrivedDate:       h.ArrivedDate,
		ReturnedDate:      h.ReturnedDate,
		MSISDNSnapshot:    h.MSISDNSnapshot,
		CreatedAt:         h.CreatedAt,
	}
}
