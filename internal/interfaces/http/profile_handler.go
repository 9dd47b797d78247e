package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// ProfileHandler perfiles de un rol (/api/admin/distributors y /api/admin/retailers).
// El :id de las rutas es el del perfil, no el de la cuenta.
type ProfileHandler struct {
	role        entity.Role
	uc          *usecase.ProfileUseCase
	transitions *transition.Service
}

// NewProfileHandler un handler por rol.
func NewProfileHandler(role entity.Role, uc *usecase.ProfileUseCase, transitions *transition.Service) *ProfileHandler {
	return &ProfileHandler{role: role, uc: uc, transitions: transitions}
}

// List godoc
// @Summary      Listar distribuidores o minoristas
// @Tags         admin-profiles
// @Security     Bearer
// @Produce      json
// @Param        search      query  string  false  "Razón social, nombre comercial, GST o email"
// @Param        city        query  string  false  "Ciudad"
// @Param        isVerified  query  bool    false  "Verificado"
// @Param        page        query  int     false  "Página"  default(1)
// @Param        limit       query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.Envelope{data=[]dto.ProfileResponse}
// @Router       /api/admin/distributors [get]
// @Router       /api/admin/retailers [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	var q dto.ProfileListQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), h.role, q)
	if err != nil {
		return err
	}
	return okPage(c, out.Items, out.Pagination)
}

// Get godoc
// @Summary      Obtener perfil
// @Tags         admin-profiles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del perfil"
// @Success      200  {object}  dto.Envelope{data=dto.ProfileResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/distributors/{id} [get]
// @Router       /api/admin/retailers/{id} [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), h.role, paramID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Editar datos de negocio y condiciones comerciales
// @Tags         admin-profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del perfil"
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Envelope{data=dto.ProfileResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/distributors/{id} [put]
// @Router       /api/admin/retailers/{id} [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Update(c.UserContext(), h.role, paramID(c), in, actorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Verify godoc
// @Summary      Verificar documentos
// @Description  approved=true: pending_verification -> active. approved=false: vuelve a pending_documents.
// @Tags         admin-profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del perfil"
// @Param        body  body  dto.VerifyRequest  true  "approved, notes"
// @Success      200   {object}  dto.Envelope{data=dto.ProfileResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/distributors/{id}/verify [post]
// @Router       /api/admin/retailers/{id}/verify [post]
func (h *ProfileHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	if err := in.Validate(); err != nil {
		return err
	}
	id := paramID(c)
	accountID, err := h.uc.AccountID(c.UserContext(), h.role, id)
	if err != nil {
		return err
	}
	if _, err := h.transitions.Verify(c.UserContext(), accountID, actorFrom(c), *in.Approved, in.Notes); err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), h.role, id)
	if err != nil {
		return err
	}
	msg := "documentos devueltos para corrección"
	if *in.Approved {
		msg = "perfil verificado"
	}
	return okMessage(c, out, msg)
}
