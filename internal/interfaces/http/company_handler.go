package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
)

// CompanyHandler maneja las peticiones HTTP para el recurso Company.
// catalogOnly: vista de distribuidores y minoristas, solo empresas activas.
type CompanyHandler struct {
	uc          *usecase.CompanyUseCase
	catalogOnly bool
}

// NewCompanyHandler handler del panel admin.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// NewCatalogCompanyHandler handler de solo lectura para socios.
func NewCatalogCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc, catalogOnly: true}
}

// Create godoc
// @Summary      Crear empresa
// @Tags         admin-companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.Envelope{data=dto.CompanyResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Create(c.UserContext(), in, actorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, out)
}

// GetByID godoc
// @Summary      Obtener empresa con su cantidad de productos
// @Tags         admin-companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Envelope{data=dto.CompanyResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), paramID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         admin-companies
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Nombre o corporativo"
// @Param        type      query  string  false  "INDIAN | MNC"
// @Param        isActive  query  bool    false  "Activa"
// @Param        page      query  int     false  "Página"  default(1)
// @Param        limit     query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.Envelope{data=[]dto.CompanyResponse}
// @Router       /api/admin/companies [get]
// @Router       /api/distributor/companies [get]
// @Router       /api/retailer/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var q dto.CompanyListQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), q, h.catalogOnly)
	if err != nil {
		return err
	}
	return okPage(c, out.Items, out.Pagination)
}

// Update godoc
// @Summary      Actualizar empresa
// @Description  Un cambio de nombre se propaga a los productos de la empresa.
// @Tags         admin-companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Envelope{data=dto.CompanyResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Update(c.UserContext(), paramID(c), in, actorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Desactivar empresa (borrado lógico)
// @Tags         admin-companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), paramID(c), actorFrom(c)); err != nil {
		return err
	}
	return okMessage(c, nil, "empresa desactivada")
}
