package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/lifecycle"
	"github.com/jhoicas/simstock-api/pkg/dates"
)

var (
	iccidPattern  = regexp.MustCompile(`^\d{19,20}$`)
	msisdnPattern = regexp.MustCompile(`^\d{10,11}$`)
)

// FieldError error de validación de un campo.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError agrupa los errores de validación de un alta de SIM. Envuelve ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// UpsertInput alta/actualización ya validada. Los punteros nil no se modifican.
type UpsertInput struct {
	ICCID             string
	Supplier          string
	MSISDN            *string
	OwnerCompany      *string
	Plan              *string
	CustomerType      *string
	SupplierStartDate *time.Time
	SupplierEndDate   *time.Time
	Status            *entity.SimStatus
}

// ValidateUpsert aplica las reglas comunes al alta por API y a las filas del CSV.
// Los textos opcionales vacíos se tratan como no informados.
func ValidateUpsert(in dto.UpsertSimRequest) (UpsertInput, error) {
	verr := &ValidationError{}
	out := UpsertInput{
		ICCID:        strings.TrimSpace(in.ICCID),
		Supplier:     strings.TrimSpace(in.Supplier),
		MSISDN:       optional(in.MSISDN),
		OwnerCompany: optional(in.OwnerCompany),
		Plan:         optional(in.Plan),
		CustomerType: optional(in.CustomerType),
	}

	if !iccidPattern.MatchString(out.ICCID) {
		verr.add("iccid", "debe tener entre 19 y 20 dígitos")
	}
	if out.MSISDN != nil && !msisdnPattern.MatchString(*out.MSISDN) {
		verr.add("msisdn", "debe tener entre 10 y 11 dígitos")
	}
	if out.Supplier == "" {
		verr.add("supplier", "es obligatorio")
	}
	if v := optional(in.SupplierStartDate); v != nil {
		t, err := dates.Parse(*v)
		if err != nil {
			verr.add("supplier_start_date", err.Error())
		} else {
			out.SupplierStartDate = &t
		}
	}
	if v := optional(in.SupplierEndDate); v != nil {
		t, err := dates.Parse(*v)
		if err != nil {
			verr.add("supplier_end_date", err.Error())
		} else {
			out.SupplierEndDate = &t
		}
	}
	if out.SupplierStartDate != nil && out.SupplierEndDate != nil && out.SupplierEndDate.Before(*out.SupplierStartDate) {
		verr.add("supplier_end_date", "debe ser igual o posterior a la fecha de inicio")
	}
	if v := optional(in.Status); v != nil {
		st, err := lifecycle.ParseStatus(*v)
		if err != nil {
			verr.add("status", fmt.Sprintf("valor %q no válido", *v))
		} else {
			out.Status = &st
		}
	}

	if len(verr.Fields) > 0 {
		return out, verr
	}
	return out, nil
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
