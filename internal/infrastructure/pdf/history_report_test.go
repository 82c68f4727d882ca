package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/domain/entity"
	"github.com/jhoicas/simstock-api/internal/infrastructure/pdf"
)

func TestGenerateHistoryReport(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	msisdn := "09012345678"
	customer := "C-1"
	sim := &entity.Sim{
		ICCID:    "8981000000000000001",
		MSISDN:   &msisdn,
		Supplier: "docomo",
		Status:   entity.SimStatusActive,
		Version:  3,
		Assignment: &entity.Assignment{
			ServiceName: "buppan", CustomerID: &customer,
			ContractStartDate: &start, ContractEndDate: &end,
		},
	}
	history := []*entity.SimHistory{
		{ICCID: sim.ICCID, ServiceName: "buppan", CustomerID: &customer, ContractStartDate: &start, ContractEndDate: &end},
		{ICCID: sim.ICCID, ServiceName: "versus"},
	}

	out, err := pdf.NewHistoryReportGenerator().GenerateHistoryReport(context.Background(), sim, history)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateHistoryReport_EmptyHistory(t *testing.T) {
	sim := &entity.Sim{ICCID: "8981000000000000002", Supplier: "kddi", Status: entity.SimStatusInStock}

	out, err := pdf.NewHistoryReportGenerator().GenerateHistoryReport(context.Background(), sim, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateHistoryReport_NilSim(t *testing.T) {
	_, err := pdf.NewHistoryReportGenerator().GenerateHistoryReport(context.Background(), nil, nil)
	assert.Error(t, err)
}
