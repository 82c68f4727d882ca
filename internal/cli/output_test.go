package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/domain"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("otro")))
	wrapped := fmt.Errorf("envuelto: %w", WrapExitError(ExitSuccess, "ok", nil))
	assert.Equal(t, ExitSuccess, GetExitCode(wrapped))
}

func TestOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"n": 1}, func(io.Writer) { t.Fatal("no debe renderizar texto") }))
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)

	buf.Reset()
	err := f.Fail(fmt.Errorf("%w: fecha", domain.ErrInvalidRange))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "INVALID_RANGE", resp.Error.Code)
}

func TestOutputFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.Partial(nil, func(w io.Writer) { fmt.Fprintln(w, "resumen") }, domain.ErrPartialSyncFailure)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "resumen\n", buf.String())

	buf.Reset()
	err = f.Fail(domain.ErrNoRulesDefined)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [NO_RULES_DEFINED]")
}
