package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/application/usecase"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/testutil"
)

func TestUsageCategories(t *testing.T) {
	store := testutil.NewStore()
	uc := usecase.NewUsageUseCase(store.Categories(), store.Rules())
	ctx := context.Background()

	created, err := uc.CreateCategory(ctx, dto.CreateUsageCategoryRequest{Name: " 物販 ", Description: "venta directa"})
	require.NoError(t, err)
	assert.Equal(t, "物販", created.Name)

	_, err = uc.CreateCategory(ctx, dto.CreateUsageCategoryRequest{Name: "物販"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.CreateCategory(ctx, dto.CreateUsageCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.UpdateCategoryDescription(ctx, created.ID, dto.UpdateUsageCategoryRequest{Description: "otra"})
	require.NoError(t, err)
	assert.Equal(t, "物販", updated.Name)
	assert.Equal(t, "otra", updated.Description)

	_, err = uc.UpdateCategoryDescription(ctx, "no-existe", dto.UpdateUsageCategoryRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CreateCategory(ctx, dto.CreateUsageCategoryRequest{Name: "アダアフィ"})
	require.NoError(t, err)
	list, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "アダアフィ", list[0].Name)
}

func TestUsageRules(t *testing.T) {
	store := testutil.NewStore()
	uc := usecase.NewUsageUseCase(store.Categories(), store.Rules())
	ctx := context.Background()
	cat := store.AddCategory("retail-use")
	other := store.AddCategory("otra")

	low, err := uc.CreateRule(ctx, dto.CreateEligibilityRuleRequest{UsageCategoryID: cat.ID, Priority: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(low.Conditions))
	assert.Equal(t, "retail-use", low.UsageCategoryName)

	high, err := uc.CreateRule(ctx, dto.CreateEligibilityRuleRequest{
		UsageCategoryID: cat.ID, SupplierFilter: strp("A"), PlanFilter: strp(" "), MinContractDays: 90, Priority: 10,
		Conditions: json.RawMessage(`{"region":"kanto"}`),
	})
	require.NoError(t, err)
	assert.Nil(t, high.PlanFilter)
	_, err = uc.CreateRule(ctx, dto.CreateEligibilityRuleRequest{UsageCategoryID: other.ID})
	require.NoError(t, err)

	rules, err := uc.ListRules(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, high.ID, rules[0].ID)
	assert.Equal(t, low.ID, rules[1].ID)

	all, err := uc.ListRules(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	for _, in := range []dto.CreateEligibilityRuleRequest{
		{},
		{UsageCategoryID: cat.ID, MinContractDays: -1},
		{UsageCategoryID: cat.ID, Conditions: json.RawMessage(`[1,2]`)},
	} {
		_, err := uc.CreateRule(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	_, err = uc.CreateRule(ctx, dto.CreateEligibilityRuleRequest{UsageCategoryID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
