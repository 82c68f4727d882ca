package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

var _ repository.EligibilityRuleRepository = (*EligibilityRuleRepo)(nil)

const ruleColumns = `id, usage_category_id, supplier_filter, plan_filter, min_contract_days, priority,
		conditions, created_at, updated_at`

// EligibilityRuleRepo reglas de elegibilidad sobre PostgreSQL.
type EligibilityRuleRepo struct {
	q Querier
}

// NewEligibilityRuleRepository construye el adaptador de reglas.
func NewEligibilityRuleRepository(q Querier) *EligibilityRuleRepo {
	return &EligibilityRuleRepo{q: q}
}

// Create inserta una regla. conditions se guarda como JSONB.
func (r *EligibilityRuleRepo) Create(ctx context.Context, rule *entity.EligibilityRule) error {
	cond := rule.Conditions
	if len(cond) == 0 {
		cond = json.RawMessage(`{}`)
	}
	query := `
		INSERT INTO eligibility_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		rule.ID, rule.UsageCategoryID, rule.SupplierFilter, rule.PlanFilter, rule.MinContractDays, rule.Priority,
		string(cond), rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert eligibility rule: %w", err)
	}
	return nil
}

// ListByCategory reglas de una categoría en orden de evaluación.
func (r *EligibilityRuleRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.EligibilityRule, error) {
	if !isUUID(categoryID) {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+ruleColumns+` FROM eligibility_rules
		WHERE usage_category_id = $1
		ORDER BY priority DESC, created_at ASC, id ASC`, categoryID)
}

// ListAll todas las reglas en orden de evaluación.
func (r *EligibilityRuleRepo) ListAll(ctx context.Context) ([]*entity.EligibilityRule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+` FROM eligibility_rules
		ORDER BY priority DESC, created_at ASC, id ASC`)
}

func (r *EligibilityRuleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.EligibilityRule, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list eligibility rules: %w", err)
	}
	defer rows.Close()
	var list []*entity.EligibilityRule
	for rows.Next() {
		var (
			rule entity.EligibilityRule
			cond []byte
		)
		if err := rows.Scan(
			&rule.ID, &rule.UsageCategoryID, &rule.SupplierFilter, &rule.PlanFilter,
			&rule.MinContractDays, &rule.Priority, &cond, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan eligibility rule: %w", err)
		}
		rule.Conditions = json.RawMessage(cond)
		list = append(list, &rule)
	}
	return list, rows.Err()
}
