package reconcile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/pkg/dates"
)

// ColumnMappings nombre de columna de la fuente para cada campo de ExternalAssignment.
// Las columnas de fechas de envío vacías se ignoran.
type ColumnMappings struct {
	ICCID             string
	CustomerID        string
	ContractStartDate string
	ContractEndDate   string
	ShippedDate       string
	ArrivedDate       string
	ReturnedDate      string
}

// DefaultColumns columnas usadas por las tablas de suscripciones de los servicios.
func DefaultColumns() ColumnMappings {
	return ColumnMappings{
		ICCID:             "iccid",
		CustomerID:        "customer_id",
		ContractStartDate: "start_date",
		ContractEndDate:   "end_date",
		ShippedDate:       "shipped_date",
		ArrivedDate:       "arrived_date",
		ReturnedDate:      "returned_date",
	}
}

// WithDefaults completa las columnas obligatorias vacías.
func (m ColumnMappings) WithDefaults() ColumnMappings {
	d := DefaultColumns()
	if m.ICCID == "" {
		m.ICCID = d.ICCID
	}
	if m.CustomerID == "" {
		m.CustomerID = d.CustomerID
	}
	if m.ContractStartDate == "" {
		m.ContractStartDate = d.ContractStartDate
	}
	if m.ContractEndDate == "" {
		m.ContractEndDate = d.ContractEndDate
	}
	return m
}

// MapRecords convierte filas crudas en asignaciones. Las filas que no se pueden interpretar
// se devuelven como RecordError con su posición original.
func MapRecords(rows []map[string]any, m ColumnMappings) ([]ExternalAssignment, []RecordError) {
	records := make([]ExternalAssignment, 0, len(rows))
	var rejected []RecordError
	for i, row := range rows {
		rec, err := MapRow(row, m)
		if err != nil {
			rejected = append(rejected, RecordError{Index: i, ICCID: rec.ICCID, Err: err})
			continue
		}
		rec.Row = i
		records = append(records, rec)
	}
	return records, rejected
}

// MapRow interpreta una fila según las columnas de la fuente.
func MapRow(row map[string]any, m ColumnMappings) (ExternalAssignment, error) {
	var rec ExternalAssignment
	iccid, err := text(row, m.ICCID)
	if err != nil {
		return rec, err
	}
	rec.ICCID = iccid
	if iccid == "" {
		return rec, fmt.Errorf("%w: columna %q vacía", domain.ErrInvalidInput, m.ICCID)
	}
	customer, err := text(row, m.CustomerID)
	if err != nil {
		return rec, err
	}
	if customer != "" {
		rec.CustomerID = &customer
	}
	fields := []struct {
		column string
		dst    **time.Time
	}{
		{m.ContractStartDate, &rec.ContractStartDate},
		{m.ContractEndDate, &rec.ContractEndDate},
		{m.ShippedDate, &rec.ShippedDate},
		{m.ArrivedDate, &rec.ArrivedDate},
		{m.ReturnedDate, &rec.ReturnedDate},
	}
	for _, f := range fields {
		if f.column == "" {
			continue
		}
		v, err := text(row, f.column)
		if err != nil {
			return rec, err
		}
		t, err := dates.ParseOptional(v)
		if err != nil {
			return rec, fmt.Errorf("%w: columna %q: %v", domain.ErrInvalidInput, f.column, err)
		}
		*f.dst = t
	}
	return rec, nil
}

func text(row map[string]any, column string) (string, error) {
	if column == "" {
		return "", nil
	}
	switch v := row[column].(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("%w: columna %q con tipo %T", domain.ErrInvalidInput, column, v)
	}
}
