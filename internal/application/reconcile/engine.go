// Package reconcile fusiona las asignaciones de los servicios externos en el inventario central
// y agrega un episodio al historial por cada cambio detectado.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/lifecycle"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

// SourceConfig configuración explícita de una fuente para una ejecución.
type SourceConfig struct {
	Name              string
	DisplayName       string
	Enabled           bool
	UsageCategoryName string // "" = el historial queda sin categoría
}

// ExternalAssignment registro de asignación tal como lo reporta el servicio externo.
type ExternalAssignment struct {
	Row               int // posición en el lote recibido (0-based); 0 = posición en records
	ICCID             string
	CustomerID        *string
	ContractStartDate *time.Time
	ContractEndDate   *time.Time
	ShippedDate       *time.Time
	ArrivedDate       *time.Time
	ReturnedDate      *time.Time
}

// RecordError fallo aislado de un registro; el lote continúa.
type RecordError struct {
	Index int
	ICCID string
	Err   error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("registro %d (%s): %v", e.Index, e.ICCID, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// SyncOutcome resultado de reconciliar una fuente.
type SyncOutcome struct {
	ServiceName    string
	Status         string // entity.SyncStatus*
	Checked        int
	Updated        int
	HistoryCreated int
	Skipped        int
	Errors         []RecordError
	Err            error // error a nivel de fuente; nil salvo Status failed
}

// Failed indica si la fuente abortó.
func (o SyncOutcome) Failed() bool { return o.Status == entity.SyncStatusFailed }

// SourceBatch registros ya obtenidos de una fuente, más las filas que no se pudieron mapear.
type SourceBatch struct {
	Source   SourceConfig
	Records  []ExternalAssignment
	Rejected []RecordError
}

// Engine motor de reconciliación. Es el único escritor de asignaciones, estados e historial.
type Engine struct {
	txRunner     TxRunner
	categoryRepo repository.UsageCategoryRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewEngine construye el motor.
func NewEngine(txRunner TxRunner, categoryRepo repository.UsageCategoryRepository, log zerolog.Logger) *Engine {
	return &Engine{
		txRunner:     txRunner,
		categoryRepo: categoryRepo,
		log:          log.With().Str("component", "reconcile").Logger(),
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj usado como instante de la ejecución.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

type recordResult int

const (
	recordUnchanged recordResult = iota
	recordUpdated
)

// Reconcile aplica los registros de una fuente en orden. Un registro que falla se anota
// en Errors y el lote continúa; solo errores de configuración o lectura de la categoría
// (o la cancelación del contexto) abortan la fuente.
func (e *Engine) Reconcile(ctx context.Context, src SourceConfig, records []ExternalAssignment) SyncOutcome {
	return e.reconcile(ctx, SourceBatch{Source: src, Records: records})
}

func (e *Engine) reconcile(ctx context.Context, batch SourceBatch) SyncOutcome {
	src := batch.Source
	out := SyncOutcome{ServiceName: src.Name}
	log := e.log.With().Str("source", src.Name).Logger()

	if !src.Enabled {
		return fail(out, fmt.Errorf("%w: %s", domain.ErrSourceDisabled, src.Name))
	}

	categoryID, err := e.resolveCategory(ctx, src)
	if err != nil {
		return fail(out, err)
	}

	runAt := e.now()
	log.Info().Int("records", len(batch.Records)).Int("rejected", len(batch.Rejected)).Msg("reconciliación iniciada")

	out.Checked = len(batch.Rejected)
	out.Errors = append(out.Errors, batch.Rejected...)

	for i, rec := range batch.Records {
		if rec.Row == 0 {
			rec.Row = i
		}
		if err := ctx.Err(); err != nil {
			out = fail(out, err)
			break
		}
		out.Checked++
		res, err := e.apply(ctx, src, rec, categoryID, runAt)
		switch {
		case errors.Is(err, domain.ErrRecordSkipped):
			out.Skipped++
			log.Debug().Str("iccid", rec.ICCID).Err(err).Msg("registro omitido")
		case err != nil:
			out.Errors = append(out.Errors, RecordError{Index: rec.Row, ICCID: rec.ICCID, Err: err})
			log.Warn().Str("iccid", rec.ICCID).Int("row", rec.Row).Err(err).Msg("registro con error")
		case res == recordUpdated:
			out.Updated++
			out.HistoryCreated++
		}
	}

	if out.Status == "" {
		out.Status = entity.SyncStatusSuccess
		if len(out.Errors) > 0 {
			out.Status = entity.SyncStatusPartialFailure
		}
	}

	ev := log.Info()
	if out.Status != entity.SyncStatusSuccess {
		ev = log.Warn()
	}
	ev.Str("status", out.Status).
		Int("checked", out.Checked).
		Int("updated", out.Updated).
		Int("history_created", out.HistoryCreated).
		Int("skipped", out.Skipped).
		Int("errors", len(out.Errors)).
		Msg("reconciliación terminada")
	return out
}

// ReconcileAll reconcilia varias fuentes en paralelo, una goroutine por fuente.
// Los lotes repetidos de la misma fuente se unen en orden de llegada.
// Devuelve ErrPartialSyncFailure si alguna fuente abortó y ErrSyncFailed si abortaron todas.
func (e *Engine) ReconcileAll(ctx context.Context, batches []SourceBatch) ([]SyncOutcome, error) {
	merged := mergeBatches(batches)
	outcomes := make([]SyncOutcome, len(merged))

	var g errgroup.Group
	for i, b := range merged {
		i, b := i, b
		g.Go(func() error {
			outcomes[i] = e.reconcile(ctx, b)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	switch {
	case failed == 0:
		return outcomes, nil
	case failed == len(outcomes):
		return outcomes, domain.ErrSyncFailed
	default:
		return outcomes, domain.ErrPartialSyncFailure
	}
}

func (e *Engine) resolveCategory(ctx context.Context, src SourceConfig) (*string, error) {
	if src.UsageCategoryName == "" {
		return nil, nil
	}
	category, err := e.categoryRepo.GetByName(ctx, src.UsageCategoryName)
	if err != nil {
		return nil, fmt.Errorf("resolver categoría %q: %w", src.UsageCategoryName, err)
	}
	if category == nil {
		e.log.Warn().Str("source", src.Name).Str("category", src.UsageCategoryName).
			Msg("categoría de la fuente no existe; el historial quedará sin categoría")
		return nil, nil
	}
	id := category.ID
	return &id, nil
}

// apply aplica un registro en una transacción: bloqueo de fila, escritura condicional por versión
// e inserción del episodio en el historial.
func (e *Engine) apply(ctx context.Context, src SourceConfig, rec ExternalAssignment, categoryID *string, runAt time.Time) (recordResult, error) {
	iccid := strings.TrimSpace(rec.ICCID)
	if iccid == "" {
		return recordUnchanged, fmt.Errorf("%w: iccid vacío", domain.ErrInvalidInput)
	}

	res := recordUnchanged
	err := e.txRunner.Run(ctx, func(simRepo repository.SimRepository, historyRepo repository.SimHistoryRepository) error {
		sim, err := simRepo.GetForUpdate(ctx, iccid)
		if err != nil {
			return fmt.Errorf("leer SIM: %w", err)
		}
		if sim == nil {
			return fmt.Errorf("%w: SIM %s no existe en el inventario", domain.ErrRecordSkipped, iccid)
		}

		next := entity.Assignment{
			ServiceName:       src.Name,
			CustomerID:        rec.CustomerID,
			UsageCategoryID:   categoryID,
			ContractStartDate: rec.ContractStartDate,
			ContractEndDate:   rec.ContractEndDate,
		}
		if !lifecycle.AssignmentChanged(sim.Assignment, next) {
			return nil
		}
		status, err := lifecycle.AssignmentStatus(sim.Status, next, runAt)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				return fmt.Errorf("%w: %w", domain.ErrRecordSkipped, err)
			}
			return err
		}

		expected := sim.Version
		sim.Assignment = &next
		sim.Status = status
		sim.UpdatedAt = runAt
		if err := simRepo.UpdateAssignment(ctx, sim, expected); err != nil {
			return fmt.Errorf("actualizar SIM: %w", err)
		}

		entry := &entity.SimHistory{
			ID:                uuid.New().String(),
			ICCID:             iccid,
			ServiceName:       src.Name,
			CustomerID:        rec.CustomerID,
			UsageCategoryID:   categoryID,
			ContractStartDate: rec.ContractStartDate,
			ContractEndDate:   rec.ContractEndDate,
			ShippedDate:       rec.ShippedDate,
			ArrivedDate:       rec.ArrivedDate,
			ReturnedDate:      rec.ReturnedDate,
			MSISDNSnapshot:    sim.MSISDN,
			CreatedAt:         runAt,
		}
		if err := historyRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("crear historial: %w", err)
		}
		res = recordUpdated
		return nil
	})
	if err != nil {
		return recordUnchanged, err
	}
	return res, nil
}

func fail(out SyncOutcome, err error) SyncOutcome {
	out.Status = entity.SyncStatusFailed
	out.Err = err
	return out
}

func mergeBatches(batches []SourceBatch) []SourceBatch {
	index := make(map[string]int, len(batches))
	merged := make([]SourceBatch, 0, len(batches))
	for _, b := range batches {
		if i, ok := index[b.Source.Name]; ok {
			merged[i].Records = append(merged[i].Records, b.Records...)
			merged[i].Rejected = append(merged[i].Rejected, b.Rejected...)
			continue
		}
		index[b.Source.Name] = len(merged)
		merged = append(merged, SourceBatch{
			Source:   b.Source,
			Records:  append([]ExternalAssignment(nil), b.Records...),
			Rejected: append([]RecordError(nil), b.Rejected...),
		})
	}
	return merged
}
