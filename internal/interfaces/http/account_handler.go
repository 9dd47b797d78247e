package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
)

// AccountHandler administración de usuarios (/api/admin/users).
type AccountHandler struct {
	uc          *usecase.AccountUseCase
	transitions *transition.Service
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *usecase.AccountUseCase, transitions *transition.Service) *AccountHandler {
	return &AccountHandler{uc: uc, transitions: transitions}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         admin-users
// @Security     Bearer
// @Produce      json
// @Param        role      query  string  false  "admin | distributor | retailer"
// @Param        status    query  string  false  "Estado del ciclo de vida"
// @Param        search    query  string  false  "Nombre o email"
// @Param        isActive  query  bool    false  "Activa (no desactivada)"
// @Param        page      query  int     false  "Página"  default(1)
// @Param        limit     query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.Envelope{data=[]dto.AccountResponse}
// @Router       /api/admin/users [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	var q dto.AccountListQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return okPage(c, out.Items, out.Pagination)
}

// Get godoc
// @Summary      Obtener usuario con su perfil
// @Tags         admin-users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.Envelope{data=dto.MeResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [get]
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), paramID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Create godoc
// @Summary      Crear usuario desde el panel
// @Description  Un admin nace activo; distribuidores y minoristas nacen en pending_approval con perfil.
// @Tags         admin-users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos de la cuenta"
// @Success      201   {object}  dto.Envelope{data=dto.AccountResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/users [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Create(c.UserContext(), in, actorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, out)
}

// Update godoc
// @Summary      Editar contacto del usuario
// @Tags         admin-users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la cuenta"
// @Param        body  body  dto.UpdateAccountRequest  true  "name, phone"
// @Success      200   {object}  dto.Envelope{data=dto.AccountResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [put]
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.UpdateContact(c.UserContext(), paramID(c), in, actorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Approve godoc
// @Summary      Aprobar registro
// @Description  pending_approval -> pending_documents
// @Tags         admin-users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.Envelope{data=dto.AccountResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/approve [post]
func (h *AccountHandler) Approve(c *fiber.Ctx) error {
	acc, err := h.transitions.Approve(c.UserContext(), paramID(c), actorFrom(c))
	if err != nil {
		return err
	}
	return okMessage(c, dto.NewAccountResponse(acc), "cuenta aprobada")
}

// Reject godoc
// @Summary      Rechazar registro
// @Description  pending_approval -> rejected. Sin motivo se guarda uno por defecto.
// @Tags         admin-users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID de la cuenta"
// @Param        body  body  dto.RejectRequest  false  "reason"
// @Success      200   {object}  dto.Envelope{data=dto.AccountResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/reject [post]
func (h *AccountHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return errInvalidBody
		}
	}
	if err := in.Validate(); err != nil {
		return err
	}
	acc, err := h.transitions.Reject(c.UserContext(), paramID(c), actorFrom(c), in.Reason)
	if err != nil {
		return err
	}
	return okMessage(c, dto.NewAccountResponse(acc), "cuenta rechazada")
}

// Deactivate godoc
// @Summary      Desactivar usuario
// @Description  Estado terminal; repetir la llamada no falla.
// @Tags         admin-users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.Envelope{data=dto.AccountResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/deactivate [post]
// @Router       /api/admin/users/{id} [delete]
func (h *AccountHandler) Deactivate(c *fiber.Ctx) error {
	id := paramID(c)
	if id == GetAccountID(c) {
		return fail(c, fiber.StatusBadRequest, "SELF_DEACTIVATION", "un admin no puede desactivar su propia cuenta")
	}
	acc, err := h.transitions.Deactivate(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return err
	}
	return okMessage(c, dto.NewAccountResponse(acc), "cuenta desactivada")
}
