package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiCampo-api/internal/application/analytics"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// ────────────────────────────────────────────────────────────────────────────
// Fakes
// ────────────────────────────────────────────────────────────────────────────

// fakeAnalyticsRepo devuelve filas fijas y registra el rango recibido.
type fakeAnalyticsRepo struct {
	revenue   []repository.MonthlyRevenueResult
	statuses  []repository.StatusCountResult
	customers []repository.TopCustomerResult

	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeAnalyticsRepo) GetRevenueByMonth(_ context.Context, _ string, from, to time.Time) ([]repository.MonthlyRevenueResult, error) {
	f.gotFrom, f.gotTo = from, to
	return f.revenue, nil
}

func (f *fakeAnalyticsRepo) GetJobStatusCounts(_ context.Context, _ string, _, _ time.Time) ([]repository.StatusCountResult, error) {
	return f.statuses, nil
}

func (f *fakeAnalyticsRepo) GetTopCustomers(_ context.Context, _ string, _, _ time.Time, limit int) ([]repository.TopCustomerResult, error) {
	if limit <= 0 || len(f.customers) <= limit {
		return f.customers, nil
	}
	return f.customers[:limit], nil
}

// stubLeadRepo solo implementa PipelineSummary; el resto no se usa aquí.
type stubLeadRepo struct {
	repository.LeadRepository
	stages []repository.PipelineStageResult
	err    error
}

func (s *stubLeadRepo) PipelineSummary(context.Context, string) ([]repository.PipelineStageResult, error) {
	return s.stages, s.err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ────────────────────────────────────────────────────────────────────────────
// GetSummary
// ────────────────────────────────────────────────────────────────────────────

func TestDashboard_ResumenConPipeline(t *testing.T) {
	analyticsRepo := &fakeAnalyticsRepo{
		revenue: []repository.MonthlyRevenueResult{
			{Year: 2026, Month: 7, Revenue: dec("1200000.50"), Billed: dec("1500000")},
		},
		statuses: []repository.StatusCountResult{
			{Status: entity.JobStatusPendiente, Count: 3},
			{Status: entity.JobStatusCompletado, Count: 8},
		},
		customers: []repository.TopCustomerResult{
			{ContactID: "c-1", ContactName: "Finca La Esperanza", InvoiceCount: 4, TotalBilled: dec("900000")},
		},
	}
	leadRepo := &stubLeadRepo{stages: []repository.PipelineStageResult{
		{Stage: entity.LeadStageNuevo, LeadCount: 5, TotalValue: dec("2500000")},
		{Stage: entity.LeadStageCotizado, LeadCount: 2, TotalValue: dec("780000.333")},
	}}

	uc := analytics.NewDashboardUseCase(analyticsRepo, leadRepo)
	out, err := uc.GetSummary(context.Background(), "comp-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, out.RevenueByMonth, 1)
	assert.True(t, out.RevenueByMonth[0].Revenue.Equal(dec("1200000.50")))
	require.Len(t, out.JobStatusCounts, 2)
	require.Len(t, out.TopCustomers, 1)

	// El pipeline de leads forma parte del resumen, con valores a 2 decimales.
	require.Len(t, out.Pipeline, 2)
	assert.Equal(t, entity.LeadStageNuevo, out.Pipeline[0].Stage)
	assert.EqualValues(t, 5, out.Pipeline[0].LeadCount)
	assert.True(t, out.Pipeline[1].TotalValue.Equal(dec("780000.33")))
	assert.NotEmpty(t, out.DateLabel)
}

func TestDashboard_RangoPorDefecto(t *testing.T) {
	analyticsRepo := &fakeAnalyticsRepo{}
	uc := analytics.NewDashboardUseCase(analyticsRepo, &stubLeadRepo{})

	_, err := uc.GetSummary(context.Background(), "comp-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	// Sin rango explícito: desde el día 1 del mes, 12 meses atrás, hasta
	// pasado hoy.
	now := time.Now()
	wantFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
	assert.Equal(t, wantFrom, analyticsRepo.gotFrom)
	assert.True(t, analyticsRepo.gotTo.After(now))
}

func TestDashboard_RangoPersonalizado(t *testing.T) {
	analyticsRepo := &fakeAnalyticsRepo{}
	uc := analytics.NewDashboardUseCase(analyticsRepo, &stubLeadRepo{})

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err := uc.GetSummary(context.Background(), "comp-1", from, to)
	require.NoError(t, err)

	// El rango pedido llega tal cual a las consultas.
	assert.Equal(t, from, analyticsRepo.gotFrom)
	assert.Equal(t, to, analyticsRepo.gotTo)
}

func TestDashboard_RangoInvertido(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeAnalyticsRepo{}, &stubLeadRepo{})

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := uc.GetSummary(context.Background(), "comp-1", from, to)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDashboard_ErrorDelPipelineSePropaga(t *testing.T) {
	leadRepo := &stubLeadRepo{err: errors.New("conexión perdida")}
	uc := analytics.NewDashboardUseCase(&fakeAnalyticsRepo{}, leadRepo)

	_, err := uc.GetSummary(context.Background(), "comp-1", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline")
}
