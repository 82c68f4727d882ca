package bootstrap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/bootstrap"
	"github.com/jhoicas/simstock-api/pkg/config"
)

func TestSourceDefinitions(t *testing.T) {
	defs := bootstrap.SourceDefinitions([]config.Source{
		{Name: "buppan", DisplayName: "物販", Enabled: true, Category: "物販", Columns: config.DefaultSourceColumns()},
		{Name: "custom", Enabled: false, Columns: config.SourceColumns{ICCID: "ICCID", ShippedDate: "sent"}},
	})
	require.Len(t, defs, 2)

	assert.Equal(t, "buppan", defs[0].Name)
	assert.Equal(t, "物販", defs[0].UsageCategoryName)
	assert.True(t, defs[0].Enabled)
	assert.Equal(t, "start_date", defs[0].Columns.ContractStartDate)

	assert.False(t, defs[1].Enabled)
	assert.Equal(t, "ICCID", defs[1].Columns.ICCID)
	assert.Equal(t, "sent", defs[1].Columns.ShippedDate)
	// las columnas obligatorias vacías toman el valor por defecto
	assert.Equal(t, "customer_id", defs[1].Columns.CustomerID)
	assert.Equal(t, "end_date", defs[1].Columns.ContractEndDate)
}
