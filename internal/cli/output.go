package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jhoicas/simstock-api/internal/domain"
)

// Códigos de salida.
const (
	ExitSuccess      = 0 // ejecución correcta
	ExitFailure      = 1 // la operación corrió pero alguna fuente o fila falló
	ExitCommandError = 2 // argumentos inválidos, archivo inexistente, base de datos no disponible
)

// ExitError error con código de salida.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError crea un ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError envuelve err con un código de salida.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extrae el código de salida; ExitFailure si err no es un ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter salida JSON o texto.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse formato estándar de la salida JSON.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" | "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError detalle de error en la salida JSON.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success escribe data; en texto usa render.
func (f *OutputFormatter) Success(data any, render func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	render(f.Writer)
	return nil
}

// Partial escribe data con estado error (resultado parcial) y devuelve ExitFailure.
func (f *OutputFormatter) Partial(data any, render func(w io.Writer), err error) error {
	if f.Format == "json" {
		if encErr := json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: errorCode(err), Message: err.Error()},
		}); encErr != nil {
			return encErr
		}
	} else {
		render(f.Writer)
	}
	return WrapExitError(ExitFailure, "resultado parcial", err)
}

// Fail escribe err y devuelve el ExitError correspondiente.
func (f *OutputFormatter) Fail(err error) error {
	code := errorCode(err)
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: err.Error()},
		})
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, err.Error())
	}
	exit := ExitFailure
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidRange) || errors.Is(err, domain.ErrNotFound) {
		exit = ExitCommandError
	}
	return WrapExitError(exit, code, err)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		return "INVALID_RANGE"
	case errors.Is(err, domain.ErrNoRulesDefined):
		return "NO_RULES_DEFINED"
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, domain.ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, domain.ErrPartialSyncFailure):
		return "PARTIAL_SYNC_FAILURE"
	case errors.Is(err, domain.ErrSyncFailed):
		return "SYNC_FAILED"
	default:
		return "ERROR"
	}
}
