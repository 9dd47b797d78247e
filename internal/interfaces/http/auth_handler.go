package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pharmahub-api/internal/application/auth"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/domain/access"
)

// AuthHandler maneja registro, login y sesión actual.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registro de distribuidor o minorista
// @Description  Crea la cuenta en pending_approval y su perfil de negocio en una sola transacción.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos de la cuenta y del negocio"
// @Success      201   {object}  dto.Envelope{data=dto.AccountResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Register(c.UserContext(), in, actorFrom(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{
		Success: true,
		Data:    out,
		Message: "registro recibido; la cuenta queda pendiente de aprobación",
	})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.Envelope{data=dto.LoginResponse}
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Me godoc
// @Summary      Cuenta autenticada
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.MeResponse}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetAccountID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// AccessHandler expone el gate al front-end web.
type AccessHandler struct {
	gate     *access.Gate
	accounts accountReader
}

// NewAccessHandler construye el handler.
func NewAccessHandler(gate *access.Gate, accounts accountReader) *AccessHandler {
	return &AccessHandler{gate: gate, accounts: accounts}
}

// Decide godoc
// @Summary      Decisión de acceso para una página
// @Tags         access
// @Produce      json
// @Param        path  query  string  true  "Ruta de la página, ej. /retailer/dashboard"
// @Success      200   {object}  dto.Envelope{data=access.Decision}
// @Router       /api/access/decide [get]
func (h *AccessHandler) Decide(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "path es requerido")
	}
	id, _, err := identityFor(c, h.accounts)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, h.gate.Decide(id, path))
}
