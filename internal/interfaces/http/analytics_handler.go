package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/analytics"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
)

// AnalyticsHandler expone el dashboard gerencial.
type AnalyticsHandler struct {
	uc *analytics.DashboardUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.DashboardUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen del dashboard
// @Description  Ingresos por mes, órdenes por estado, pipeline de leads y top clientes. Sin rango: últimos 12 meses.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio del rango (RFC3339)"
// @Param        to    query  string  false  "Fin del rango (RFC3339)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	var q dto.DashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	out, err := h.uc.GetSummary(c.Context(), GetCompanyID(c), q.From, q.To)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
