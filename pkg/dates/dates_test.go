package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/pkg/dates"
)

func TestParse_FormatosAceptados(t *testing.T) {
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-05-01", "2024/05/01", "2024-05-01T00:00:00Z", " 2024-05-01 "} {
		got, err := dates.Parse(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}
}

func TestParse_Invalida(t *testing.T) {
	_, err := dates.Parse("01-05-2024")
	assert.Error(t, err)
	_, err = dates.Parse("")
	assert.Error(t, err)
}

func TestParseOptional_VacioEsNil(t *testing.T) {
	got, err := dates.ParseOptional("  ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEqual(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.In(time.FixedZone("JST", 9*3600))
	assert.True(t, dates.Equal(&a, &b))
	assert.True(t, dates.Equal(nil, nil))
	assert.False(t, dates.Equal(&a, nil))
}

func TestParse_RedondeaAMicrosegundos(t *testing.T) {
	got, err := dates.Parse("2024-05-01T10:00:00.123456789Z")
	require.NoError(t, err)
	assert.Equal(t, 123457000, got.Nanosecond())
}

func TestEqual_ResolucionDeMicrosegundos(t *testing.T) {
	parsed := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)
	stored := time.Date(2024, 5, 1, 10, 0, 0, 123457000, time.UTC)
	assert.True(t, dates.Equal(&parsed, &stored))

	other := time.Date(2024, 5, 1, 10, 0, 0, 123458000, time.UTC)
	assert.False(t, dates.Equal(&parsed, &other))
}
