package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/pkg/config"
)

func TestLoadSources_Defaults(t *testing.T) {
	sources, err := config.LoadSources("", "")
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "buppan", sources[0].Name)
	assert.Equal(t, "物販", sources[0].Category)
	assert.Equal(t, "start_date", sources[0].Columns.ContractStartDate)
	assert.True(t, sources[2].Enabled)
}

func TestLoadSources_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	body := `
sources:
  - name: buppan
    enabled: true
    category: 物販
    columns:
      iccid: ICCID
      customer_id: order_id
      contract_start_date: from
      contract_end_date: to
  - name: avaris
    display_name: Avaris
    enabled: false
    category: アダアフィ
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	sources, err := config.LoadSources(path, "")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "ICCID", sources[0].Columns.ICCID)
	assert.Equal(t, "from", sources[0].Columns.ContractStartDate)
	assert.Equal(t, "buppan", sources[0].DisplayName)
	assert.False(t, sources[1].Enabled)
	assert.Equal(t, "Avaris", sources[1].DisplayName)
}

func TestLoadSources_CategoryOverrides(t *testing.T) {
	sources, err := config.LoadSources("", "versus=認証, newsrc = 物販")
	require.NoError(t, err)
	require.Len(t, sources, 4)
	assert.Equal(t, "認証", sources[1].Category)
	assert.Equal(t, "newsrc", sources[3].Name)
	assert.Equal(t, "物販", sources[3].Category)
	assert.True(t, sources[3].Enabled)
	assert.Equal(t, "iccid", sources[3].Columns.ICCID)
}

func TestLoadSources_Errors(t *testing.T) {
	_, err := config.LoadSources("", "broken")
	assert.Error(t, err)

	_, err = config.LoadSources(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "dup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources:\n  - name: a\n  - name: a\n"), 0o600))
	_, err = config.LoadSources(path, "")
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "simstock", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/simstock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
