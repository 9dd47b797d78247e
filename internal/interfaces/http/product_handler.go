package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product.
// catalogOnly: distribuidores y minoristas solo ven productos activos.
type ProductHandler struct {
	uc          *usecase.ProductUseCase
	catalogOnly bool
}

// NewProductHandler handler del panel admin.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// NewCatalogProductHandler handler de solo lectura para socios.
func NewCatalogProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, catalogOnly: true}
}

// Create godoc
// @Summary      Crear producto
// @Tags         admin-products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
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
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/products/{id} [get]
// @Router       /api/distributor/products/{id} [get]
// @Router       /api/retailer/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), paramID(c), h.catalogOnly)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search        query  string  false  "Nombre, marca, SKU o empresa"
// @Param        companyId     query  string  false  "Empresa"
// @Param        therapy       query  string  false  "Terapia"
// @Param        drugType      query  string  false  "Tipo"
// @Param        drugCategory  query  string  false  "Categoría"
// @Param        page          query  int     false  "Página"  default(1)
// @Param        limit         query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.Envelope{data=[]dto.ProductResponse}
// @Router       /api/admin/products [get]
// @Router       /api/distributor/products [get]
// @Router       /api/retailer/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), q, h.catalogOnly)
	if err != nil {
		return err
	}
	return okPage(c, out.Items, out.Pagination)
}

// Search godoc
// @Summary      Autocompletado de productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "Texto (mínimo 2 caracteres)"
// @Param        limit  query  int     false  "Máximo de resultados"  default(10)
// @Success      200  {object}  dto.Envelope{data=[]dto.ProductSearchItem}
// @Router       /api/distributor/products/search [get]
// @Router       /api/retailer/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Filters godoc
// @Summary      Valores para los filtros del catálogo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.FilterOptionsResponse}
// @Router       /api/distributor/products/filters [get]
// @Router       /api/retailer/products/filters [get]
func (h *ProductHandler) Filters(c *fiber.Ctx) error {
	out, err := h.uc.FilterOptions(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         admin-products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
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
// @Summary      Desactivar producto (borrado lógico)
// @Tags         admin-products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), paramID(c), actorFrom(c)); err != nil {
		return err
	}
	return okMessage(c, nil, "producto desactivado")
}
