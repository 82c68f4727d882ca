package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

// UsageUseCase administración de categorías de uso y reglas de elegibilidad.
type UsageUseCase struct {
	categoryRepo repository.UsageCategoryRepository
	ruleRepo     repository.EligibilityRuleRepository
}

// NewUsageUseCase construye el caso de uso.
func NewUsageUseCase(categoryRepo repository.UsageCategoryRepository, ruleRepo repository.EligibilityRuleRepository) *UsageUseCase {
	return &UsageUseCase{categoryRepo: categoryRepo, ruleRepo: ruleRepo}
}

// ListCategories lista categorías por nombre.
func (uc *UsageUseCase) ListCategories(ctx context.Context) ([]dto.UsageCategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsageCategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// GetCategory obtiene una categoría por ID.
func (uc *UsageUseCase) GetCategory(ctx context.Context, id string) (*dto.UsageCategoryResponse, error) {
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	r := toCategoryResponse(c)
	return &r, nil
}

// CreateCategory crea una categoría. El nombre es único.
func (uc *UsageUseCase) CreateCategory(ctx context.Context, in dto.CreateUsageCategoryRequest) (*dto.UsageCategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	existing, err := uc.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.UsageCategory{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	r := toCategoryResponse(c)
	return &r, nil
}

// UpdateCategoryDescription edita la descripción; el nombre no cambia.
func (uc *UsageUseCase) UpdateCategoryDescription(ctx context.Context, id string, in dto.UpdateUsageCategoryRequest) (*dto.UsageCategoryResponse, error) {
	if err := uc.categoryRepo.UpdateDescription(ctx, id, strings.TrimSpace(in.Description)); err != nil {
		return nil, err
	}
	return uc.GetCategory(ctx, id)
}

// ListRules lista reglas (de una categoría si categoryID no está vacío) por prioridad descendente.
func (uc *UsageUseCase) ListRules(ctx context.Context, categoryID string) ([]dto.EligibilityRuleResponse, error) {
	var (
		rules []*entity.EligibilityRule
		err   error
	)
	if categoryID != "" {
		rules, err = uc.ruleRepo.ListByCategory(ctx, categoryID)
	} else {
		rules, err = uc.ruleRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	out := make([]dto.EligibilityRuleResponse, 0, len(rules))
	for _, r := range rules {
		resp := toRuleResponse(r)
		resp.UsageCategoryName = names[r.UsageCategoryID]
		out = append(out, resp)
	}
	return out, nil
}

// CreateRule crea una regla. conditions debe ser un objeto JSON; se guarda sin interpretar.
func (uc *UsageUseCase) CreateRule(ctx context.Context, in dto.CreateEligibilityRuleRequest) (*dto.EligibilityRuleResponse, error) {
	if in.UsageCategoryID == "" {
		return nil, fmt.Errorf("%w: usage_category_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.MinContractDays < 0 {
		return nil, fmt.Errorf("%w: min_contract_days debe ser >= 0", domain.ErrInvalidInput)
	}
	conditions, err := normalizeConditions(in.Conditions)
	if err != nil {
		return nil, err
	}
	category, err := uc.categoryRepo.GetByID(ctx, in.UsageCategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.UsageCategoryID)
	}
	now := time.Now()
	rule := &entity.EligibilityRule{
		ID:              uuid.New().String(),
		UsageCategoryID: category.ID,
		SupplierFilter:  optional(in.SupplierFilter),
		PlanFilter:      optional(in.PlanFilter),
		MinContractDays: in.MinContractDays,
		Priority:        in.Priority,
		Conditions:      conditions,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	r := toRuleResponse(rule)
	r.UsageCategoryName = category.Name
	return &r, nil
}

func normalizeConditions(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage(`{}`), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("%w: conditions debe ser un objeto JSON", domain.ErrInvalidInput)
	}
	return json.RawMessage(trimmed), nil
}

func toCategoryResponse(c *entity.UsageCategory) dto.UsageCategoryResponse {
	return dto.UsageCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toRuleResponse(r *entity.EligibilityRule) dto.EligibilityRuleResponse {
	return dto.EligibilityRuleResponse{
		ID:              r.ID,
		UsageCategoryID: r.UsageCategoryID,
		SupplierFilter:  r.SupplierFilter,
		PlanFilter:      r.PlanFilter,
		MinContractDays: r.MinContractDays,
		Priority:        r.Priority,
		Conditions:      r.Conditions,
		CreatedAt:       r.CreatedAt,
	}
}
