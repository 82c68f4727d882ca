package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/eligibility"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

var _ repository.SimRepository = (*SimRepo)(nil)

const simColumns = `iccid, msisdn, supplier, owner_company, plan, customer_type,
		supplier_start_date, supplier_end_date,
		current_service_name, current_customer_id, current_usage_category_id,
		current_contract_start_date, current_contract_end_date,
		status, version, created_at, updated_at`

// SimRepo implementación de SimRepository sobre PostgreSQL (usable con pool o tx).
type SimRepo struct {
	q Querier
}

// NewSimRepository construye el adaptador de SIMs. Pasar pool o tx (Querier).
func NewSimRepository(q Querier) *SimRepo {
	return &SimRepo{q: q}
}

// GetByICCID obtiene una SIM o nil si no existe.
func (r *SimRepo) GetByICCID(ctx context.Context, iccid string) (*entity.Sim, error) {
	return r.get(ctx, `SELECT `+simColumns+` FROM sims WHERE iccid = $1`, iccid)
}

// GetForUpdate obtiene la SIM y bloquea la fila (SELECT FOR UPDATE).
func (r *SimRepo) GetForUpdate(ctx context.Context, iccid string) (*entity.Sim, error) {
	return r.get(ctx, `SELECT `+simColumns+` FROM sims WHERE iccid = $1 FOR UPDATE`, iccid)
}

func (r *SimRepo) get(ctx context.Context, query, iccid string) (*entity.Sim, error) {
	s, err := scanSim(r.q.QueryRow(ctx, query, iccid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sim: %w", err)
	}
	return s, nil
}

// Create inserta una SIM sin asignación con versión 1.
func (r *SimRepo) Create(ctx context.Context, s *entity.Sim) error {
	query := `
		INSERT INTO sims (iccid, msisdn, supplier, owner_company, plan, customer_type,
			supplier_start_date, supplier_end_date, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ICCID, s.MSISDN, s.Supplier, s.OwnerCompany, s.Plan, s.CustomerType,
		s.SupplierStartDate, s.SupplierEndDate, string(s.Status), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sim: %w", err)
	}
	s.Version = 1
	return nil
}

// UpdateProfile escribe los datos de aprovisionamiento si la versión no cambió.
func (r *SimRepo) UpdateProfile(ctx context.Context, s *entity.Sim, expectedVersion int64) error {
	query := `
		UPDATE sims SET msisdn = $2, supplier = $3, owner_company = $4, plan = $5, customer_type = $6,
			supplier_start_date = $7, supplier_end_date = $8, status = $9, updated_at = $10,
			version = version + 1
		WHERE iccid = $1 AND version = $11`
	tag, err := r.q.Exec(ctx, query,
		s.ICCID, s.MSISDN, s.Supplier, s.OwnerCompany, s.Plan, s.CustomerType,
		s.SupplierStartDate, s.SupplierEndDate, string(s.Status), s.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update sim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sim %s versión %d", domain.ErrConflict, s.ICCID, expectedVersion)
	}
	s.Version = expectedVersion + 1
	return nil
}

// UpdateAssignment escribe asignación y estado si la versión no cambió (escritura condicional).
func (r *SimRepo) UpdateAssignment(ctx context.Context, s *entity.Sim, expectedVersion int64) error {
	var a entity.Assignment
	var service *string
	if s.Assignment != nil {
		a = *s.Assignment
		service = &a.ServiceName
	}
	query := `
		UPDATE sims SET current_service_name = $2, current_customer_id = $3, current_usage_category_id = $4,
			current_contract_start_date = $5, current_contract_end_date = $6,
			status = $7, updated_at = $8, version = version + 1
		WHERE iccid = $1 AND version = $9`
	tag, err := r.q.Exec(ctx, query,
		s.ICCID, service, a.CustomerID, a.UsageCategoryID, a.ContractStartDate, a.ContractEndDate,
		string(s.Status), s.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update sim assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sim %s versión %d", domain.ErrConflict, s.ICCID, expectedVersion)
	}
	s.Version = expectedVersion + 1
	return nil
}

var simSortColumns = map[string]string{
	repository.SimSortICCID:     "iccid",
	repository.SimSortUpdatedAt: "updated_at",
	repository.SimSortSupplier:  "supplier",
}

// List lista SIMs con filtros y paginación; devuelve también el total sin paginar.
func (r *SimRepo) List(ctx context.Context, f repository.SimFilter) ([]*entity.Sim, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if len(f.Statuses) > 0 {
		where = append(where, "status = ANY("+arg(statusStrings(f.Statuses))+")")
	}
	if f.Supplier != "" {
		where = append(where, "supplier = "+arg(f.Supplier))
	}
	if f.ServiceName != "" {
		where = append(where, "current_service_name = "+arg(f.ServiceName))
	}
	if f.MSISDN != "" {
		where = append(where, "msisdn LIKE '%' || "+arg(f.MSISDN)+" || '%'")
	}
	if f.Search != "" {
		p := arg(f.Search)
		where = append(where, "(iccid LIKE '%' || "+p+" || '%' OR msisdn LIKE '%' || "+p+" || '%')")
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sims`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sims: %w", err)
	}

	col, ok := simSortColumns[f.SortBy]
	if !ok {
		col = "updated_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	query := `SELECT ` + simColumns + ` FROM sims` + cond +
		fmt.Sprintf(" ORDER BY %s %s, iccid ASC", col, dir) +
		" LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)

	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sims: %w", err)
	}
	return list, total, nil
}

// ListCandidates SIMs que cumplen los filtros de una regla para el período, ordenadas por ICCID.
// El WHERE es la traducción de eligibility.CandidateQuery.Matches; cualquier cambio va en ambos.
func (r *SimRepo) ListCandidates(ctx context.Context, q eligibility.CandidateQuery) ([]*entity.Sim, error) {
	query := `
		SELECT ` + simColumns + `
		FROM sims
		WHERE status = ANY($1)
		  AND ($2::text IS NULL OR supplier = $2)
		  AND ($3::text IS NULL OR plan = $3)
		  AND (supplier_start_date IS NULL OR supplier_start_date <= $4)
		  AND (supplier_end_date IS NULL OR supplier_end_date >= $5)
		  AND (NOT $6::boolean
		       OR current_service_name IS NULL OR current_service_name = ''
		       OR (current_contract_end_date IS NOT NULL AND current_contract_end_date < $4))
		ORDER BY iccid`
	list, err := r.query(ctx, query,
		statusStrings(q.Statuses), q.Supplier, q.Plan, q.Window.Start, q.Window.End, q.ExcludeAssigned,
	)
	if err != nil {
		return nil, fmt.Errorf("list candidate sims: %w", err)
	}
	return list, nil
}

// Stats conteo por estado y porcentaje ACTIVE (NUMERIC redondeado a 2 decimales).
func (r *SimRepo) Stats(ctx context.Context) (*repository.SimStats, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM sims GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("sim stats: %w", err)
	}
	defer rows.Close()
	st := &repository.SimStats{ByStatus: make(map[entity.SimStatus]int)}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan sim stats: %w", err)
		}
		st.ByStatus[entity.SimStatus(status)] = n
		st.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sim stats: %w", err)
	}

	var pct decimal.Decimal
	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(ROUND(100.0 * COUNT(*) FILTER (WHERE status = 'ACTIVE') / NULLIF(COUNT(*), 0), 2), 0)::numeric
		FROM sims`).Scan(&pct)
	if err != nil {
		return nil, fmt.Errorf("sim utilization: %w", err)
	}
	st.UtilizationPct = pct
	return st, nil
}

func (r *SimRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Sim, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.Sim
	for rows.Next() {
		s, err := scanSim(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSim(row pgx.Row) (*entity.Sim, error) {
	var (
		s       entity.Sim
		a       entity.Assignment
		service *string
		status  string
	)
	err := row.Scan(
		&s.ICCID, &s.MSISDN, &s.Supplier, &s.OwnerCompany, &s.Plan, &s.CustomerType,
		&s.SupplierStartDate, &s.SupplierEndDate,
		&service, &a.CustomerID, &a.UsageCategoryID, &a.ContractStartDate, &a.ContractEndDate,
		&status, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = entity.SimStatus(status)
	if service != nil && *service != "" {
		a.ServiceName = *service
		s.Assignment = &a
	}
	return &s, nil
}

func statusStrings(list []entity.SimStatus) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, string(s))
	}
	return out
}
