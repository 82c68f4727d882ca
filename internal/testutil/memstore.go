// Package testutil provee implementaciones en memoria de los puertos de repositorio
// para los tests de casos de uso y handlers.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/eligibility"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Store ledger en memoria. Las escrituras dentro de Run se revierten si fn devuelve error.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	sims       map[string]*entity.Sim
	history    []*entity.SimHistory
	categories []*entity.UsageCategory
	rules      []*entity.EligibilityRule
	sources    map[string]*entity.ServiceSource
	logs       []*entity.SyncLog
	users      []*entity.User

	updateErrs     map[string]error
	candidatesErr  error
	categoryGetErr error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		sims:       make(map[string]*entity.Sim),
		sources:    make(map[string]*entity.ServiceSource),
		updateErrs: make(map[string]error),
	}
}

// ── Helpers de test ──────────────────────────────────────────────────────────

// AddSim inserta una SIM tal cual (versión 1 si no se indica).
func (s *Store) AddSim(sim *entity.Sim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneSim(sim)
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Status == "" {
		c.Status = entity.SimStatusInStock
	}
	s.sims[c.ICCID] = c
}

// Sim devuelve una copia de la SIM o nil.
func (s *Store) Sim(iccid string) *entity.Sim {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sim, ok := s.sims[iccid]; ok {
		return cloneSim(sim)
	}
	return nil
}

// AddCategory crea una categoría con ID aleatorio.
func (s *Store) AddCategory(name string) *entity.UsageCategory {
	c := &entity.UsageCategory{ID: uuid.New().String(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.mu.Lock()
	s.categories = append(s.categories, c)
	s.mu.Unlock()
	return c
}

// AddRule agrega una regla; el orden de inserción es el orden de creación.
func (s *Store) AddRule(rule *entity.EligibilityRule) *entity.EligibilityRule {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	s.mu.Lock()
	s.rules = append(s.rules, rule)
	s.mu.Unlock()
	return rule
}

// AddHistory agrega un episodio existente.
func (s *Store) AddHistory(h *entity.SimHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *h
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.history = append(s.history, &c)
}

// History devuelve los episodios de una SIM en orden de inserción.
func (s *Store) History(iccid string) []entity.SimHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.SimHistory
	for _, h := range s.history {
		if h.ICCID == iccid {
			out = append(out, *h)
		}
	}
	return out
}

// SyncLogs devuelve las entradas del registro operativo en orden de inserción.
func (s *Store) SyncLogs() []entity.SyncLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.SyncLog, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, *l)
	}
	return out
}

// Source devuelve el estado operativo de una fuente o nil.
func (s *Store) Source(name string) *entity.ServiceSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src, ok := s.sources[name]; ok {
		c := *src
		return &c
	}
	return nil
}

// FailUpdate hace que la próxima UpdateAssignment de iccid devuelva err.
func (s *Store) FailUpdate(iccid string, err error) {
	s.mu.Lock()
	s.updateErrs[iccid] = err
	s.mu.Unlock()
}

// FailCandidates hace que ListCandidates devuelva err.
func (s *Store) FailCandidates(err error) {
	s.mu.Lock()
	s.candidatesErr = err
	s.mu.Unlock()
}

// FailCategoryLookup hace que GetByName de categorías devuelva err.
func (s *Store) FailCategoryLookup(err error) {
	s.mu.Lock()
	s.categoryGetErr = err
	s.mu.Unlock()
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

// Run ejecuta fn en serie con las demás transacciones; revierte SIMs e historial si falla.
func (s *Store) Run(ctx context.Context, fn func(sims repository.SimRepository, history repository.SimHistoryRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	simsSnap := make(map[string]*entity.Sim, len(s.sims))
	for k, v := range s.sims {
		simsSnap[k] = cloneSim(v)
	}
	histLen := len(s.history)
	s.mu.Unlock()

	if err := fn(s.Sims(), s.HistoryRepo()); err != nil {
		s.mu.Lock()
		s.sims = simsSnap
		s.history = s.history[:histLen]
		s.mu.Unlock()
		return err
	}
	return nil
}

// ── SimRepository ────────────────────────────────────────────────────────────

// SimRepo implementa repository.SimRepository sobre Store.
type SimRepo struct{ s *Store }

var _ repository.SimRepository = (*SimRepo)(nil)

// Sims repositorio de SIMs.
func (s *Store) Sims() *SimRepo { return &SimRepo{s: s} }

func (r *SimRepo) GetByICCID(_ context.Context, iccid string) (*entity.Sim, error) {
	return r.s.Sim(iccid), nil
}

func (r *SimRepo) GetForUpdate(ctx context.Context, iccid string) (*entity.Sim, error) {
	return r.GetByICCID(ctx, iccid)
}

func (r *SimRepo) Create(_ context.Context, sim *entity.Sim) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sims[sim.ICCID]; ok {
		return domain.ErrDuplicate
	}
	sim.Version = 1
	r.s.sims[sim.ICCID] = cloneSim(sim)
	return nil
}

func (r *SimRepo) UpdateProfile(_ context.Context, sim *entity.Sim, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.sims[sim.ICCID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrConflict
	}
	next := cloneSim(cur)
	next.MSISDN = sim.MSISDN
	next.Supplier = sim.Supplier
	next.OwnerCompany = sim.OwnerCompany
	next.Plan = sim.Plan
	next.CustomerType = sim.CustomerType
	next.SupplierStartDate = sim.SupplierStartDate
	next.SupplierEndDate = sim.SupplierEndDate
	next.Status = sim.Status
	next.UpdatedAt = sim.UpdatedAt
	next.Version = expectedVersion + 1
	r.s.sims[sim.ICCID] = next
	sim.Version = next.Version
	return nil
}

func (r *SimRepo) UpdateAssignment(_ context.Context, sim *entity.Sim, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err, ok := r.s.updateErrs[sim.ICCID]; ok {
		delete(r.s.updateErrs, sim.ICCID)
		return err
	}
	cur, ok := r.s.sims[sim.ICCID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrConflict
	}
	next := cloneSim(cur)
	if sim.Assignment != nil {
		a := *sim.Assignment
		next.Assignment = &a
	} else {
		next.Assignment = nil
	}
	next.Status = sim.Status
	next.UpdatedAt = sim.UpdatedAt
	next.Version = expectedVersion + 1
	r.s.sims[sim.ICCID] = next
	sim.Version = next.Version
	return nil
}

func (r *SimRepo) List(_ context.Context, f repository.SimFilter) ([]*entity.Sim, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Sim
	for _, sim := range r.s.sims {
		if matchesFilter(sim, f) {
			list = append(list, cloneSim(sim))
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case repository.SimSortICCID:
			less = list[i].ICCID < list[j].ICCID
		case repository.SimSortSupplier:
			less = list[i].Supplier < list[j].Supplier
		default:
			less = list[i].UpdatedAt.Before(list[j].UpdatedAt)
		}
		if f.SortDesc {
			return !less
		}
		return less
	})
	total := len(list)
	if f.Offset >= total {
		return []*entity.Sim{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return list[f.Offset:end], total, nil
}

func (r *SimRepo) ListCandidates(_ context.Context, q eligibility.CandidateQuery) ([]*entity.Sim, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.candidatesErr != nil {
		return nil, r.s.candidatesErr
	}
	var list []*entity.Sim
	for _, sim := range r.s.sims {
		if q.Matches(sim) {
			list = append(list, cloneSim(sim))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ICCID < list[j].ICCID })
	return list, nil
}

func (r *SimRepo) Stats(_ context.Context) (*repository.SimStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &repository.SimStats{ByStatus: make(map[entity.SimStatus]int), UtilizationPct: decimal.Zero}
	for _, sim := range r.s.sims {
		st.ByStatus[sim.Status]++
		st.Total++
	}
	if st.Total > 0 {
		st.UtilizationPct = decimal.NewFromInt(int64(st.ByStatus[entity.SimStatusActive])).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(st.Total))).
			Round(2)
	}
	return st, nil
}

func matchesFilter(sim *entity.Sim, f repository.SimFilter) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if sim.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Supplier != "" && sim.Supplier != f.Supplier {
		return false
	}
	if f.ServiceName != "" && (sim.Assignment == nil || sim.Assignment.ServiceName != f.ServiceName) {
		return false
	}
	msisdn := ""
	if sim.MSISDN != nil {
		msisdn = *sim.MSISDN
	}
	if f.MSISDN != "" && !strings.Contains(msisdn, f.MSISDN) {
		return false
	}
	if f.Search != "" && !strings.Contains(sim.ICCID, f.Search) && !strings.Contains(msisdn, f.Search) {
		return false
	}
	return true
}

func cloneSim(s *entity.Sim) *entity.Sim {
	c := *s
	if s.Assignment != nil {
		a := *s.Assignment
		c.Assignment = &a
	}
	return &c
}

// ── SimHistoryRepository ─────────────────────────────────────────────────────

// HistoryRepo implementa repository.SimHistoryRepository.
type HistoryRepo struct{ s *Store }

var _ repository.SimHistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo repositorio de historial.
func (s *Store) HistoryRepo() *HistoryRepo { return &HistoryRepo{s: s} }

func (r *HistoryRepo) Create(_ context.Context, entry *entity.SimHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	c := *entry
	r.s.mu.Lock()
	r.s.history = append(r.s.history, &c)
	r.s.mu.Unlock()
	return nil
}

func (r *HistoryRepo) ListByICCID(_ context.Context, iccid string) ([]*entity.SimHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	names := make(map[string]string, len(r.s.categories))
	for _, c := range r.s.categories {
		names[c.ID] = c.Name
	}
	var list []*entity.SimHistory
	for _, h := range r.s.history {
		if h.ICCID != iccid {
			continue
		}
		c := *h
		if c.UsageCategoryID != nil {
			c.UsageCategoryName = names[*c.UsageCategoryID]
		}
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].ContractStartDate, list[j].ContractStartDate
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return list, nil
}

// ── UsageCategoryRepository ──────────────────────────────────────────────────

// CategoryRepo implementa repository.UsageCategoryRepository.
type CategoryRepo struct{ s *Store }

var _ repository.UsageCategoryRepository = (*CategoryRepo)(nil)

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

func (r *CategoryRepo) Create(_ context.Context, c *entity.UsageCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.categories = append(r.s.categories, &cp)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.UsageCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.UsageCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.categoryGetErr != nil {
		return nil, r.s.categoryGetErr
	}
	for _, c := range r.s.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) UpdateDescription(_ context.Context, id, description string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.ID == id {
			c.Description = description
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.UsageCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.UsageCategory, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ── EligibilityRuleRepository ────────────────────────────────────────────────

// RuleRepo implementa repository.EligibilityRuleRepository.
type RuleRepo struct{ s *Store }

var _ repository.EligibilityRuleRepository = (*RuleRepo)(nil)

// Rules repositorio de reglas.
func (s *Store) Rules() *RuleRepo { return &RuleRepo{s: s} }

func (r *RuleRepo) Create(_ context.Context, rule *entity.EligibilityRule) error {
	cp := *rule
	r.s.mu.Lock()
	r.s.rules = append(r.s.rules, &cp)
	r.s.mu.Unlock()
	return nil
}

func (r *RuleRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.EligibilityRule, error) {
	all, _ := r.ListAll(ctx)
	var list []*entity.EligibilityRule
	for _, rule := range all {
		if rule.UsageCategoryID == categoryID {
			list = append(list, rule)
		}
	}
	return list, nil
}

func (r *RuleRepo) ListAll(_ context.Context) ([]*entity.EligibilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.EligibilityRule, 0, len(r.s.rules))
	for _, rule := range r.s.rules {
		cp := *rule
		list = append(list, &cp)
	}
	// el orden de inserción es el de creación
	sort.SliceStable(list, func(i, j int) bool { return list[i].Priority > list[j].Priority })
	return list, nil
}

// ── ServiceSourceRepository ──────────────────────────────────────────────────

// SourceRepo implementa repository.ServiceSourceRepository.
type SourceRepo struct{ s *Store }

var _ repository.ServiceSourceRepository = (*SourceRepo)(nil)

// Sources repositorio de fuentes.
func (s *Store) Sources() *SourceRepo { return &SourceRepo{s: s} }

func (r *SourceRepo) RecordSyncAttempt(_ context.Context, name, displayName string, at time.Time, status string, errMsg *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := at
	r.s.sources[name] = &entity.ServiceSource{
		Name:           name,
		DisplayName:    displayName,
		LastSyncAt:     &t,
		LastSyncStatus: status,
		LastSyncError:  errMsg,
		UpdatedAt:      at,
	}
	return nil
}

func (r *SourceRepo) List(_ context.Context) ([]*entity.ServiceSource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.ServiceSource, 0, len(r.s.sources))
	for _, src := range r.s.sources {
		cp := *src
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ── SyncLogRepository ────────────────────────────────────────────────────────

// SyncLogRepo implementa repository.SyncLogRepository.
type SyncLogRepo struct{ s *Store }

var _ repository.SyncLogRepository = (*SyncLogRepo)(nil)

// SyncLogRepo repositorio del registro operativo.
func (s *Store) SyncLogRepo() *SyncLogRepo { return &SyncLogRepo{s: s} }

func (r *SyncLogRepo) Create(_ context.Context, l *entity.SyncLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	cp := *l
	r.s.mu.Lock()
	r.s.logs = append(r.s.logs, &cp)
	r.s.mu.Unlock()
	return nil
}

func (r *SyncLogRepo) List(_ context.Context, limit, offset int) ([]*entity.SyncLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.SyncLog, 0, len(r.s.logs))
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		cp := *r.s.logs[i]
		list = append(list, &cp)
	}
	if offset >= len(list) {
		return []*entity.SyncLog{}, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}

// ── UserRepository ───────────────────────────────────────────────────────────

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

// Users repositorio de operadores.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.s.users = append(r.s.users, &cp)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
