package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/fieldservice"
)

// JobHandler maneja las órdenes de servicio: CRUD, agenda, asignación y
// avance de estado. Las rutas del portal de técnico reutilizan este handler.
type JobHandler struct {
	jobUC      *fieldservice.JobUseCase
	scheduleUC *fieldservice.ScheduleUseCase
}

// NewJobHandler construye el handler.
func NewJobHandler(jobUC *fieldservice.JobUseCase, scheduleUC *fieldservice.ScheduleUseCase) *JobHandler {
	return &JobHandler{jobUC: jobUC, scheduleUC: scheduleUC}
}

// Create godoc
// @Summary      Crear orden de servicio
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJobRequest  true  "Datos de la orden"
// @Success      201   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.ContactID == "" || in.Title == "" {
		return badRequest(c, "VALIDATION", "contact_id y title son requeridos")
	}
	out, err := h.jobUC.Create(GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes de servicio
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.JobResponse
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	out, err := h.jobUC.List(GetCompanyID(c), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden por ID
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.JobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.jobUC.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar orden
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateJobRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.JobResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.jobUC.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Schedule godoc
// @Summary      Programar visita
// @Description  Asigna técnico y ventana horaria. Rechaza solapes de agenda del técnico.
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ScheduleJobRequest  true  "technician_id, scheduled_start, scheduled_end"
// @Success      200   {object}  dto.JobResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/schedule [post]
func (h *JobHandler) Schedule(c *fiber.Ctx) error {
	var in dto.ScheduleJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.TechnicianID == "" || in.ScheduledStart.IsZero() || in.ScheduledEnd.IsZero() {
		return badRequest(c, "VALIDATION", "technician_id, scheduled_start y scheduled_end son requeridos")
	}
	out, err := h.scheduleUC.Schedule(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Avanzar estado de la orden
// @Description  Un técnico solo puede mover sus propias órdenes.
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ChangeJobStatusRequest  true  "Nuevo estado y notas de trabajo"
// @Success      200   {object}  dto.JobResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/status [patch]
func (h *JobHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeJobStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Status == "" {
		return badRequest(c, "VALIDATION", "status es requerido")
	}
	out, err := h.jobUC.ChangeStatus(GetCompanyID(c), c.Params("id"), GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Agenda godoc
// @Summary      Agenda de visitas
// @Description  Visitas programadas en el rango; por defecto hoy y los próximos 7 días.
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        from           query  string  false  "Inicio del rango (RFC3339)"
// @Param        to             query  string  false  "Fin del rango (RFC3339)"
// @Param        technician_id  query  string  false  "Filtrar por técnico"
// @Success      200  {array}  dto.JobResponse
// @Router       /api/jobs/agenda [get]
func (h *JobHandler) Agenda(c *fiber.Ctx) error {
	var q dto.AgendaQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	out, err := h.scheduleUC.Agenda(c.Context(), GetCompanyID(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MyJobs godoc
// @Summary      Órdenes del técnico autenticado (portal técnico)
// @Tags         portal
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.JobResponse
// @Router       /api/portal/tech/jobs [get]
func (h *JobHandler) MyJobs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	out, err := h.jobUC.ListByTechnician(GetUserID(c), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MyAgenda godoc
// @Summary      Agenda del técnico autenticado (portal técnico)
// @Tags         portal
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio del rango (RFC3339)"
// @Param        to    query  string  false  "Fin del rango (RFC3339)"
// @Success      200   {array}  dto.JobResponse
// @Router       /api/portal/tech/agenda [get]
func (h *JobHandler) MyAgenda(c *fiber.Ctx) error {
	var q dto.AgendaQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	// El técnico solo ve su propia agenda.
	q.TechnicianID = GetUserID(c)
	out, err := h.scheduleUC.Agenda(c.Context(), GetCompanyID(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
