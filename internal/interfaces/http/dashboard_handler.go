package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Pharmahub-api/internal/application/analytics"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
)

// DashboardHandler tableros del admin y de los socios.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Admin godoc
// @Summary      Estadísticas del panel admin
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.AdminStats}
// @Router       /api/admin/dashboard [get]
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	out, err := h.uc.AdminStats(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Partner tablero del distribuidor o minorista autenticado.
// GET /api/distributor/dashboard, GET /api/retailer/dashboard
func (h *DashboardHandler) Partner(c *fiber.Ctx) error {
	out, err := h.uc.PartnerDashboard(c.UserContext(), GetAccountID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// AuditHandler bitácora de auditoría.
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Bitácora de auditoría
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        entityType  query  string  false  "account | profile | company | product"
// @Param        entityId    query  string  false  "ID de la entidad"
// @Param        actorId     query  string  false  "ID del actor"
// @Param        page        query  int     false  "Página"  default(1)
// @Param        limit       query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.Envelope{data=[]dto.AuditLogResponse}
// @Router       /api/admin/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.AuditListQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return okPage(c, out.Items, out.Pagination)
}
