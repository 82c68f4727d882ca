// Package pdf genera la ficha PDF de una SIM con su historial de asignaciones.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: ICCID + estado      │  QR del ICCID                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FICHA: proveedor / MSISDN / plan / ventana del proveedor    │
//	│  ASIGNACIÓN ACTUAL (si existe)                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Servicio | Cliente | Categoría | Contrato | Envío    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/simstock-api/internal/application/ports"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/pkg/dates"
)

var _ ports.HistoryReportGenerator = (*HistoryReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// HistoryReportGenerator implementa ports.HistoryReportGenerator con Maroto v2.
type HistoryReportGenerator struct {
	now func() time.Time
}

// NewHistoryReportGenerator construye el generador.
func NewHistoryReportGenerator() *HistoryReportGenerator {
	return &HistoryReportGenerator{now: time.Now}
}

// GenerateHistoryReport genera el PDF y devuelve sus bytes.
func (g *HistoryReportGenerator) GenerateHistoryReport(
	_ context.Context,
	sim *entity.Sim,
	history []*entity.SimHistory,
) ([]byte, error) {
	if sim == nil {
		return nil, fmt.Errorf("pdf: sim requerida")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial SIM "+sim.ICCID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sim, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(profileRows(sim)...)
	if sim.HasAssignment() {
		m.AddRows(assignmentRow(sim.Assignment))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(history) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin episodios de asignación registrados.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	m.AddRows(historyRows(history)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(sim *entity.Sim, at time.Time) core.Row {
	return row.New(30).Add(
		col.New(9).Add(
			text.New("FICHA DE SIM", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(sim.ICCID, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
			text.New("Estado: "+string(sim.Status), props.Text{
				Size: 9, Top: 14, Color: colorPrimary,
			}),
			text.New("Generado: "+at.UTC().Format("2006-01-02 15:04")+" UTC", props.Text{
				Size: 7, Top: 21, Color: colorGray,
			}),
		),
		col.New(3).Add(code.NewQr(sim.ICCID, props.Rect{Percent: 95, Center: true})),
	)
}

func profileRows(sim *entity.Sim) []core.Row {
	field := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Size: 9, Top: 5}),
		)
	}
	return []core.Row{
		row.New(12).Add(
			field("Proveedor", sim.Supplier),
			field("MSISDN", deref(sim.MSISDN)),
			field("Plan", deref(sim.Plan)),
			field("Empresa titular", deref(sim.OwnerCompany)),
		),
		row.New(12).Add(
			field("Tipo de cliente", deref(sim.CustomerType)),
			field("Inicio proveedor", formatDate(sim.SupplierStartDate)),
			field("Fin proveedor", formatDate(sim.SupplierEndDate)),
			field("Versión", fmt.Sprintf("%d", sim.Version)),
		),
	}
}

func assignmentRow(a *entity.Assignment) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ASIGNACIÓN ACTUAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Servicio: %s   |   Cliente: %s   |   Contrato: %s",
				a.ServiceName,
				deref(a.CustomerID),
				formatRange(a.ContractStartDate, a.ContractEndDate),
			), props.Text{Size: 8, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Servicio", 2),
		h("Cliente", 2),
		h("Categoría", 2),
		h("Contrato", 3),
		h("Envío / Llegada / Devolución", 3),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func historyRows(history []*entity.SimHistory) []core.Row {
	rows := make([]core.Row, 0, len(history))
	cell := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Top: 1, Left: 1, Right: 1}))
	}
	for _, h := range history {
		logistics := fmt.Sprintf("%s / %s / %s",
			formatDate(h.ShippedDate), formatDate(h.ArrivedDate), formatDate(h.ReturnedDate))
		rows = append(rows, row.New(7).Add(
			cell(h.ServiceName, 2),
			cell(deref(h.CustomerID), 2),
			cell(nonEmpty(h.UsageCategoryName, "-"), 2),
			cell(formatRange(h.ContractStartDate, h.ContractEndDate), 3),
			cell(logistics, 3),
		))
	}
	return rows
}

func formatDate(t *time.Time) string {
	return nonEmpty(dates.Format(t), "-")
}

func formatRange(start, end *time.Time) string {
	return formatDate(start) + " → " + formatDate(end)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return nonEmpty(*s, "-")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
