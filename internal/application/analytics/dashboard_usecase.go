// Package analytics contiene los casos de uso del dashboard de la empresa:
// ingresos por mes, órdenes por estado, pipeline de leads y mejores clientes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

const (
	dashboardMonths       = 12 // meses hacia atrás de la serie de ingresos
	dashboardTopCustomers = 5  // clientes en el widget del dashboard
)

// DashboardUseCase genera el resumen de negocio de la empresa.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y el resumen
// del pipeline de leads. No accede directamente a las tablas.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	leadRepo      repository.LeadRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, leadRepo repository.LeadRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, leadRepo: leadRepo}
}

// GetSummary construye el DashboardSummaryDTO para la empresa y el rango
// indicados. From/to en cero aplican el rango por defecto: desde el día 1
// del mes, 12 meses atrás, hasta fin del día de hoy.
//
// Cuatro llamadas en paralelo:
//  1. GetRevenueByMonth(rango)    → RevenueByMonth
//  2. GetJobStatusCounts(rango)   → JobStatusCounts
//  3. GetTopCustomers(rango, 5)   → TopCustomers
//  4. PipelineSummary             → Pipeline
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string, from, to time.Time) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(dashboardMonths - 1), 0)
	}
	if to.IsZero() {
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: rango de fechas inválido", domain.ErrInvalidInput)
	}

	type revenueResult struct {
		rows []repository.MonthlyRevenueResult
		err  error
	}
	type statusResult struct {
		rows []repository.StatusCountResult
		err  error
	}
	type customersResult struct {
		rows []repository.TopCustomerResult
		err  error
	}
	type pipelineResult struct {
		rows []repository.PipelineStageResult
		err  error
	}

	revenueCh := make(chan revenueResult, 1)
	statusCh := make(chan statusResult, 1)
	customersCh := make(chan customersResult, 1)
	pipelineCh := make(chan pipelineResult, 1)

	go func() {
		rows, err := uc.analyticsRepo.GetRevenueByMonth(ctx, companyID, from, to)
		revenueCh <- revenueResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetJobStatusCounts(ctx, companyID, from, to)
		statusCh <- statusResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTopCustomers(ctx, companyID, from, to, dashboardTopCustomers)
		customersCh <- customersResult{rows, err}
	}()
	go func() {
		rows, err := uc.leadRepo.PipelineSummary(ctx, companyID)
		pipelineCh <- pipelineResult{rows, err}
	}()

	revenue := <-revenueCh
	status := <-statusCh
	customers := <-customersCh
	pipeline := <-pipelineCh

	if revenue.err != nil {
		return nil, fmt.Errorf("dashboard: ingresos por mes: %w", revenue.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("dashboard: órdenes por estado: %w", status.err)
	}
	if customers.err != nil {
		return nil, fmt.Errorf("dashboard: mejores clientes: %w", customers.err)
	}
	if pipeline.err != nil {
		return nil, fmt.Errorf("dashboard: pipeline de leads: %w", pipeline.err)
	}

	summary := &dto.DashboardSummaryDTO{
		RevenueByMonth:  make([]dto.MonthlyRevenueDTO, 0, len(revenue.rows)),
		JobStatusCounts: make([]dto.JobStatusCountDTO, 0, len(status.rows)),
		TopCustomers:    make([]dto.TopCustomerDTO, 0, len(customers.rows)),
		Pipeline:        make([]dto.PipelineStageDTO, 0, len(pipeline.rows)),
		DateLabel:       monthLabel(now),
	}
	for _, r := range revenue.rows {
		summary.RevenueByMonth = append(summary.RevenueByMonth, dto.MonthlyRevenueDTO{
			Year: r.Year, Month: r.Month, Revenue: r.Revenue.Round(2), Billed: r.Billed.Round(2),
		})
	}
	for _, s := range status.rows {
		summary.JobStatusCounts = append(summary.JobStatusCounts, dto.JobStatusCountDTO{
			Status: s.Status, Count: s.Count,
		})
	}
	for _, c := range customers.rows {
		summary.TopCustomers = append(summary.TopCustomers, dto.TopCustomerDTO{
			ContactID:    c.ContactID,
			ContactName:  c.ContactName,
			InvoiceCount: c.InvoiceCount,
			TotalBilled:  c.TotalBilled.Round(2),
		})
	}
	for _, p := range pipeline.rows {
		summary.Pipeline = append(summary.Pipeline, dto.PipelineStageDTO{
			Stage: p.Stage, LeadCount: p.LeadCount, TotalValue: p.TotalValue.Round(2),
		})
	}
	return summary, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Agosto 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
