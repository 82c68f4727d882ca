// Package simimport importa SIMs desde un CSV por la misma ruta de alta que POST /api/sims.
package simimport

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/application/usecase"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

// Upserter ruta de alta compartida con la API.
type Upserter interface {
	Upsert(ctx context.Context, in usecase.UpsertInput) (*dto.UpsertSimResponse, error)
}

const (
	colICCID        = "iccid"
	colMSISDN       = "msisdn"
	colSupplier     = "supplier"
	colOwnerCompany = "owner_company"
	colPlan         = "plan"
	colCustomerType = "customer_type"
	colStartDate    = "supplier_start_date"
	colEndDate      = "supplier_end_date"
)

// headerAliases encabezados aceptados (en minúsculas) -> columna canónica.
var headerAliases = map[string]string{
	"iccid":                    colICCID,
	"msisdn":                   colMSISDN,
	"supplier":                 colSupplier,
	"ownercompany":             colOwnerCompany,
	"owner_company":            colOwnerCompany,
	"plan":                     colPlan,
	"customertype":             colCustomerType,
	"customer_type":            colCustomerType,
	"supplierservicestartdate": colStartDate,
	"supplier_start_date":      colStartDate,
	"supplierserviceenddate":   colEndDate,
	"supplier_end_date":        colEndDate,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// UseCase importación CSV.
type UseCase struct {
	sims    Upserter
	logRepo repository.SyncLogRepository
	log     zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(sims Upserter, logRepo repository.SyncLogRepository, log zerolog.Logger) *UseCase {
	return &UseCase{sims: sims, logRepo: logRepo, log: log.With().Str("component", "csv_import").Logger()}
}

// Import valida cada fila y da de alta las válidas. Los errores por fila no detienen la importación;
// un CSV mal formado o sin columnas obligatorias falla por completo.
func (uc *UseCase) Import(ctx context.Context, r io.Reader) (*dto.ImportResponse, error) {
	rows, err := parse(r)
	if err != nil {
		return nil, err
	}

	res := &dto.ImportResponse{Errors: []dto.ImportRowError{}}
	res.Summary.Total = len(rows)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNumber := i + 2 // encabezado + base 1
		iccid := row[colICCID]
		if iccid == "" {
			iccid = "unknown"
		}

		in, err := usecase.ValidateUpsert(toRequest(row))
		if err != nil {
			res.Errors = append(res.Errors, dto.ImportRowError{Row: rowNumber, ICCID: iccid, Error: err.Error()})
			continue
		}
		out, err := uc.sims.Upsert(ctx, in)
		if err != nil {
			res.Errors = append(res.Errors, dto.ImportRowError{Row: rowNumber, ICCID: iccid, Error: err.Error()})
			continue
		}
		if out.Created {
			res.Summary.Created++
		} else {
			res.Summary.Updated++
		}
	}
	res.Success = res.Summary.Created + res.Summary.Updated
	res.Summary.Failed = len(res.Errors)

	uc.writeLog(context.WithoutCancel(ctx), res)
	uc.log.Info().
		Int("total", res.Summary.Total).
		Int("created", res.Summary.Created).
		Int("updated", res.Summary.Updated).
		Int("failed", res.Summary.Failed).
		Msg("importación CSV terminada")
	return res, nil
}

func (uc *UseCase) writeLog(ctx context.Context, res *dto.ImportResponse) {
	status := entity.SyncLogCompleted
	var errMsg *string
	if len(res.Errors) > 0 {
		status = entity.SyncLogPartialFailure
		msg := fmt.Sprintf("%d filas con error", len(res.Errors))
		errMsg = &msg
	}
	entry := &entity.SyncLog{
		ID:              uuid.New().String(),
		Operation:       entity.SyncOperationCSVImport,
		Status:          status,
		RecordsAffected: res.Success,
		ErrorMessage:    errMsg,
		Metadata: map[string]int{
			"total":   res.Summary.Total,
			"created": res.Summary.Created,
			"updated": res.Summary.Updated,
			"failed":  res.Summary.Failed,
		},
		CreatedAt: time.Now(),
	}
	if err := uc.logRepo.Create(ctx, entry); err != nil {
		uc.log.Error().Err(err).Msg("no se pudo escribir sync_log de la importación")
	}
}

// parse lee el CSV y devuelve una fila por registro no vacío, indexada por columna canónica.
func parse(r io.Reader) ([]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: CSV vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error de formato CSV: %v", domain.ErrInvalidInput, err)
	}
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(norm.NFKC.String(h)))
		columns[i] = headerAliases[key]
		seen[columns[i]] = true
	}
	for _, required := range []string{colICCID, colSupplier} {
		if !seen[required] {
			return nil, fmt.Errorf("%w: falta la columna %s", domain.ErrInvalidInput, required)
		}
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: error de formato CSV: %v", domain.ErrInvalidInput, err)
		}
		row := make(map[string]string, len(columns))
		empty := true
		for i, v := range record {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			v = strings.TrimSpace(v)
			if columns[i] == colICCID || columns[i] == colMSISDN {
				v = width.Fold.String(v)
			}
			if v != "" {
				empty = false
			}
			row[columns[i]] = v
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toRequest(row map[string]string) dto.UpsertSimRequest {
	opt := func(col string) *string {
		if v, ok := row[col]; ok && v != "" {
			return &v
		}
		return nil
	}
	return dto.UpsertSimRequest{
		ICCID:             row[colICCID],
		Supplier:          row[colSupplier],
		MSISDN:            opt(colMSISDN),
		OwnerCompany:      opt(colOwnerCompany),
		Plan:              opt(colPlan),
		CustomerType:      opt(colCustomerType),
		SupplierStartDate: opt(colStartDate),
		SupplierEndDate:   opt(colEndDate),
	}
}
