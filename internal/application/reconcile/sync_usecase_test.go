package reconcile_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/application/reconcile"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/testutil"
)

func newSyncUseCase(store *testutil.Store) *reconcile.SyncUseCase {
	defs := []reconcile.SourceDefinition{
		{SourceConfig: buppan()},
		{SourceConfig: reconcile.SourceConfig{Name: "versus", DisplayName: "Versus", Enabled: true, UsageCategoryName: "ポケカ認証"}},
		{SourceConfig: reconcile.SourceConfig{Name: "avaris", DisplayName: "Avaris", Enabled: false}},
	}
	return reconcile.NewSyncUseCase(newEngine(store), defs, store.Sources(), store.SyncLogRepo(), zerolog.Nop())
}

func TestSyncRun_RecordsTrail(t *testing.T) {
	store := testutil.NewStore()
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusInStock})

	resp, err := newSyncUseCase(store).Run(context.Background(), dto.SyncRequest{Batches: []dto.SyncBatchRequest{{
		ServiceName: "buppan",
		Records: []map[string]any{
			{"iccid": "8981000000000000001", "customer_id": "C-1", "start_date": "2024-05-01", "end_date": "2024-12-31"},
			{"iccid": "8981000000000000099", "customer_id": "C-2"},
			{"iccid": "8981000000000000003", "end_date": "xx"},
		},
	}}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	assert.Equal(t, entity.SyncStatusPartialFailure, r.Status)
	assert.Equal(t, 3, r.RecordsChecked)
	assert.Equal(t, 1, r.RecordsUpdated)
	assert.Equal(t, 1, r.HistoryCreated)
	assert.Equal(t, 1, r.RecordsSkipped)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, 2, r.Errors[0].Index)

	src := store.Source("buppan")
	require.NotNil(t, src)
	assert.Equal(t, entity.SyncStatusPartialFailure, src.LastSyncStatus)
	assert.NotNil(t, src.LastSyncAt)
	require.NotNil(t, src.LastSyncError)

	logs := store.SyncLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.SyncOperationSync, logs[0].Operation)
	assert.Equal(t, entity.SyncLogPartialFailure, logs[0].Status)
	assert.Equal(t, 1, logs[0].RecordsAffected)
	assert.Equal(t, 3, logs[0].Metadata["checked"])
	assert.Equal(t, 1, logs[0].Metadata["skipped"])
	assert.Equal(t, 1, logs[0].Metadata["failed"])
}

func TestSyncRun_UnknownAndDisabledSources(t *testing.T) {
	store := testutil.NewStore()
	store.AddSim(&entity.Sim{ICCID: "8981000000000000001", Supplier: "A", Status: entity.SimStatusInStock})
	uc := newSyncUseCase(store)

	resp, err := uc.Run(context.Background(), dto.SyncRequest{Batches: []dto.SyncBatchRequest{
		{ServiceName: "buppan", Records: []map[string]any{{"iccid": "8981000000000000001"}}},
		{ServiceName: "otro", Records: []map[string]any{{"iccid": "8981000000000000001"}}},
		{ServiceName: "avaris"},
	}})
	assert.ErrorIs(t, err, domain.ErrPartialSyncFailure)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, entity.SyncStatusSuccess, resp.Results[0].Status)
	assert.Equal(t, "otro", resp.Results[1].ServiceName)
	assert.Equal(t, entity.SyncStatusFailed, resp.Results[1].Status)
	assert.Contains(t, resp.Results[1].Error, domain.ErrUnknownSource.Error())
	assert.Equal(t, entity.SyncStatusFailed, resp.Results[2].Status)

	assert.Nil(t, store.Source("otro"), "las fuentes desconocidas no se registran")
	assert.Equal(t, entity.SyncStatusFailed, store.Source("avaris").LastSyncStatus)
	assert.Len(t, store.SyncLogs(), 3)

	resp, err = uc.Run(context.Background(), dto.SyncRequest{Batches: []dto.SyncBatchRequest{{ServiceName: "avaris"}}})
	assert.ErrorIs(t, err, domain.ErrSyncFailed)
	assert.Len(t, resp.Results, 1)
}

func TestSyncRun_OnlyFilter(t *testing.T) {
	store := testutil.NewStore()
	uc := newSyncUseCase(store)
	req := dto.SyncRequest{
		Batches: []dto.SyncBatchRequest{{ServiceName: "buppan"}, {ServiceName: "versus"}},
		Only:    "versus",
	}

	resp, err := uc.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "versus", resp.Results[0].ServiceName)

	req.Only = "avaris"
	_, err = uc.Run(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Run(context.Background(), dto.SyncRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncSourcesAndLogs(t *testing.T) {
	store := testutil.NewStore()
	uc := newSyncUseCase(store)
	_, err := uc.Run(context.Background(), dto.SyncRequest{Batches: []dto.SyncBatchRequest{{ServiceName: "versus"}}})
	require.NoError(t, err)

	sources, err := uc.Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "buppan", sources[0].Name)
	assert.Nil(t, sources[0].LastSyncAt)
	assert.Equal(t, "versus", sources[1].Name)
	assert.Equal(t, entity.SyncStatusSuccess, sources[1].LastSyncStatus)
	assert.False(t, sources[2].Enabled)

	logs, err := uc.ListLogs(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.SyncLogCompleted, logs[0].Status)
	assert.Equal(t, "versus", *logs[0].ServiceName)
}
