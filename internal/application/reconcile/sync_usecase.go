package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/domain/repository"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

// SourceDefinition entrada del registro estático de fuentes.
type SourceDefinition struct {
	SourceConfig
	Columns ColumnMappings
}

// SyncUseCase orquesta una ejecución de sincronización: resuelve las fuentes contra el registro,
// mapea las filas crudas, invoca el motor y deja el rastro operativo.
type SyncUseCase struct {
	engine     *Engine
	sources    map[string]SourceDefinition
	order      []string
	sourceRepo repository.ServiceSourceRepository
	logRepo    repository.SyncLogRepository
	log        zerolog.Logger
	now        func() time.Time
}

// NewSyncUseCase construye el caso de uso con el registro de fuentes ya cargado.
func NewSyncUseCase(
	engine *Engine,
	defs []SourceDefinition,
	sourceRepo repository.ServiceSourceRepository,
	logRepo repository.SyncLogRepository,
	log zerolog.Logger,
) *SyncUseCase {
	uc := &SyncUseCase{
		engine:     engine,
		sources:    make(map[string]SourceDefinition, len(defs)),
		sourceRepo: sourceRepo,
		logRepo:    logRepo,
		log:        log.With().Str("component", "sync").Logger(),
		now:        time.Now,
	}
	for _, d := range defs {
		d.Columns = d.Columns.WithDefaults()
		if _, dup := uc.sources[d.Name]; !dup {
			uc.order = append(uc.order, d.Name)
		}
		uc.sources[d.Name] = d
	}
	return uc
}

// Run reconcilia los lotes recibidos. Devuelve siempre el resultado por fuente; el error es
// ErrPartialSyncFailure o ErrSyncFailed cuando alguna o todas las fuentes abortaron.
func (uc *SyncUseCase) Run(ctx context.Context, req dto.SyncRequest) (*dto.SyncResponse, error) {
	raw := mergeRaw(req.Batches, req.Only)
	if len(raw) == 0 {
		if req.Only != "" {
			return nil, fmt.Errorf("%w: no hay registros para la fuente %s", domain.ErrInvalidInput, req.Only)
		}
		return nil, fmt.Errorf("%w: batches vacío", domain.ErrInvalidInput)
	}

	outcomes := make([]SyncOutcome, len(raw))
	var batches []SourceBatch
	var positions []int
	for i, b := range raw {
		def, ok := uc.sources[b.ServiceName]
		if !ok {
			outcomes[i] = fail(SyncOutcome{ServiceName: b.ServiceName}, fmt.Errorf("%w: %s", domain.ErrUnknownSource, b.ServiceName))
			continue
		}
		records, rejected := MapRecords(b.Records, def.Columns)
		batches = append(batches, SourceBatch{Source: def.SourceConfig, Records: records, Rejected: rejected})
		positions = append(positions, i)
	}

	if len(batches) > 0 {
		results, _ := uc.engine.ReconcileAll(ctx, batches)
		for j, o := range results {
			outcomes[positions[j]] = o
		}
	}

	// el rastro se escribe aunque el contexto de la petición se haya cancelado
	trailCtx := context.WithoutCancel(ctx)
	resp := &dto.SyncResponse{Results: make([]dto.SyncResultResponse, 0, len(outcomes))}
	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
		uc.recordTrail(trailCtx, o)
		resp.Results = append(resp.Results, ToResultResponse(o))
	}

	switch {
	case failed == 0:
		return resp, nil
	case failed == len(outcomes):
		return resp, domain.ErrSyncFailed
	default:
		return resp, domain.ErrPartialSyncFailure
	}
}

// Sources lista las fuentes del registro con el estado de su último intento.
func (uc *SyncUseCase) Sources(ctx context.Context) ([]dto.SyncSourceResponse, error) {
	states, err := uc.sourceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*entity.ServiceSource, len(states))
	for _, s := range states {
		byName[s.Name] = s
	}
	out := make([]dto.SyncSourceResponse, 0, len(uc.order))
	for _, name := range uc.order {
		def := uc.sources[name]
		item := dto.SyncSourceResponse{
			Name:              def.Name,
			DisplayName:       def.DisplayName,
			Enabled:           def.Enabled,
			UsageCategoryName: def.UsageCategoryName,
		}
		if st, ok := byName[name]; ok {
			item.LastSyncAt = st.LastSyncAt
			item.LastSyncStatus = st.LastSyncStatus
			item.LastSyncError = st.LastSyncError
		}
		out = append(out, item)
	}
	return out, nil
}

// ListLogs devuelve el registro operativo, más reciente primero.
func (uc *SyncUseCase) ListLogs(ctx context.Context, limit, offset int) ([]dto.SyncLogResponse, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	if offset < 0 {
		offset = 0
	}
	logs, err := uc.logRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SyncLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.SyncLogResponse{
			ID:              l.ID,
			ServiceName:     l.ServiceName,
			Operation:       l.Operation,
			Status:          l.Status,
			RecordsAffected: l.RecordsAffected,
			ErrorMessage:    l.ErrorMessage,
			Metadata:        l.Metadata,
			CreatedAt:       l.CreatedAt,
		})
	}
	return out, nil
}

// recordTrail actualiza service_sources y agrega un sync_log. Los fallos solo se registran en el log.
func (uc *SyncUseCase) recordTrail(ctx context.Context, o SyncOutcome) {
	now := uc.now()
	var errMsg *string
	switch {
	case o.Err != nil:
		msg := o.Err.Error()
		errMsg = &msg
	case len(o.Errors) > 0:
		msg := fmt.Sprintf("%d registros con error; primero: %v", len(o.Errors), o.Errors[0])
		errMsg = &msg
	}

	if def, known := uc.sources[o.ServiceName]; known {
		if err := uc.sourceRepo.RecordSyncAttempt(ctx, def.Name, def.DisplayName, now, o.Status, errMsg); err != nil {
			uc.log.Error().Err(err).Str("source", o.ServiceName).Msg("no se pudo registrar el estado de la fuente")
		}
	}

	name := o.ServiceName
	entry := &entity.SyncLog{
		ID:              uuid.New().String(),
		ServiceName:     &name,
		Operation:       entity.SyncOperationSync,
		Status:          logStatus(o.Status),
		RecordsAffected: o.Updated,
		ErrorMessage:    errMsg,
		Metadata: map[string]int{
			"checked":         o.Checked,
			"updated":         o.Updated,
			"history_created": o.HistoryCreated,
			"skipped":         o.Skipped,
			"failed":          len(o.Errors),
		},
		CreatedAt: now,
	}
	if err := uc.logRepo.Create(ctx, entry); err != nil {
		uc.log.Error().Err(err).Str("source", o.ServiceName).Msg("no se pudo escribir sync_log")
	}
}

// ToResultResponse convierte un SyncOutcome al DTO de respuesta.
func ToResultResponse(o SyncOutcome) dto.SyncResultResponse {
	r := dto.SyncResultResponse{
		ServiceName:    o.ServiceName,
		Status:         o.Status,
		RecordsChecked: o.Checked,
		RecordsUpdated: o.Updated,
		HistoryCreated: o.HistoryCreated,
		RecordsSkipped: o.Skipped,
	}
	for _, e := range o.Errors {
		r.Errors = append(r.Errors, dto.SyncRecordError{Index: e.Index, ICCID: e.ICCID, Error: e.Err.Error()})
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}

func logStatus(status string) string {
	switch status {
	case entity.SyncStatusSuccess:
		return entity.SyncLogCompleted
	case entity.SyncStatusPartialFailure:
		return entity.SyncLogPartialFailure
	default:
		return entity.SyncLogFailed
	}
}

// mergeRaw une los lotes repetidos de una misma fuente conservando el orden de llegada.
func mergeRaw(batches []dto.SyncBatchRequest, only string) []dto.SyncBatchRequest {
	index := make(map[string]int, len(batches))
	var merged []dto.SyncBatchRequest
	for _, b := range batches {
		if only != "" && b.ServiceName != only {
			continue
		}
		if i, ok := index[b.ServiceName]; ok {
			merged[i].Records = append(merged[i].Records, b.Records...)
			continue
		}
		index[b.ServiceName] = len(merged)
		merged = append(merged, dto.SyncBatchRequest{
			ServiceName: b.ServiceName,
			Records:     append([]map[string]any(nil), b.Records...),
		})
	}
	return merged
}
