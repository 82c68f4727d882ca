// Package availability responde cuántas SIMs son vendibles para una categoría de uso
// y un período solicitado.
package availability

import (
	"context"
	"fmt"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/eligibility"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

// Motivos legibles cuando la evaluación termina sin candidatos.
const (
	ReasonNothingAvailable = "ninguna regla de la categoría produjo SIMs disponibles para el período"
)

// UseCase evaluador de disponibilidad. Solo lee del inventario.
type UseCase struct {
	categoryRepo repository.UsageCategoryRepository
	ruleRepo     repository.EligibilityRuleRepository
	simRepo      repository.SimRepository
}

// NewUseCase construye el evaluador.
func NewUseCase(
	categoryRepo repository.UsageCategoryRepository,
	ruleRepo repository.EligibilityRuleRepository,
	simRepo repository.SimRepository,
) *UseCase {
	return &UseCase{categoryRepo: categoryRepo, ruleRepo: ruleRepo, simRepo: simRepo}
}

// stage una regla convertida en filtro perezoso; nil o vacío = no hubo coincidencias.
type stage struct {
	rule *entity.EligibilityRule
	run  func(ctx context.Context) ([]*entity.Sim, error)
}

// Evaluate prueba las reglas de la categoría en orden de prioridad y devuelve
// el conjunto de la primera regla con al menos una SIM.
func (uc *UseCase) Evaluate(ctx context.Context, req dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end_date debe ser posterior a start_date", domain.ErrInvalidRange)
	}
	if req.UsageCategoryID == "" {
		return nil, fmt.Errorf("%w: usage_category_id es obligatorio", domain.ErrInvalidInput)
	}
	category, err := uc.categoryRepo.GetByID(ctx, req.UsageCategoryID)
	if err != nil {
		return nil, fmt.Errorf("categoría de uso: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría de uso %s", domain.ErrNotFound, req.UsageCategoryID)
	}
	rules, err := uc.ruleRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("reglas de elegibilidad: %w", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoRulesDefined, category.Name)
	}

	window := eligibility.Window{Start: req.StartDate, End: req.EndDate}
	out := &dto.AvailabilityResponse{
		UsageCategoryID:   category.ID,
		UsageCategoryName: category.Name,
		RequestedPeriod:   dto.RequestedPeriod{StartDate: req.StartDate, EndDate: req.EndDate},
		Sims:              []dto.SimRef{},
	}

	for _, st := range uc.stages(rules, window, req.ExcludeCurrentlyAssigned) {
		out.RulesEvaluated++
		sims, err := st.run(ctx)
		if err != nil {
			return nil, err
		}
		if len(sims) == 0 {
			continue
		}
		id, priority := st.rule.ID, st.rule.Priority
		out.MatchedRuleID = &id
		out.MatchedRulePriority = &priority
		out.AvailableCount = len(sims)
		for _, s := range sims {
			out.Sims = append(out.Sims, dto.SimRef{ICCID: s.ICCID, MSISDN: s.MSISDN, Supplier: s.Supplier, Plan: s.Plan})
		}
		return out, nil
	}
	out.Reason = ReasonNothingAvailable
	return out, nil
}

func (uc *UseCase) stages(rules []*entity.EligibilityRule, w eligibility.Window, exclude bool) []stage {
	requested := w.Days()
	stages := make([]stage, 0, len(rules))
	for _, rule := range rules {
		rule := rule
		q := eligibility.ForRule(rule, w, exclude)
		stages = append(stages, stage{
			rule: rule,
			run: func(ctx context.Context) ([]*entity.Sim, error) {
				candidates, err := uc.simRepo.ListCandidates(ctx, q)
				if err != nil {
					return nil, fmt.Errorf("candidatos regla %s: %w", rule.ID, err)
				}
				kept := candidates[:0]
				for _, s := range candidates {
					if eligibility.SatisfiesContract(s, rule.MinContractDays, requested) {
						kept = append(kept, s)
					}
				}
				return kept, nil
			},
		})
	}
	return stages
}
