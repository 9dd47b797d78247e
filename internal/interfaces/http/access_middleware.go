package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pharmahub-api/internal/domain/access"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// LocalAccount cuenta leída del almacenamiento por AccessMiddleware.
const LocalAccount = "account"

// accountReader lo único que el gate HTTP necesita del repositorio de cuentas.
type accountReader interface {
	GetByID(ctx context.Context, id string) (*entity.Account, error)
}

// AccessMiddleware aplica el gate de acceso a /api/<x> como si fuera la página /<x>.
// El estado se lee de la base en cada petición; el del token puede estar vencido.
//
//   - Allow           → siguiente handler, con la cuenta en Locals.
//   - Redirect        → 403 con redirect y motivo.
//   - Unauthenticated → 401 con redirect al login.
func AccessMiddleware(gate *access.Gate, accounts accountReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, acc, err := identityFor(c, accounts)
		if err != nil {
			return err
		}
		d := gate.Decide(id, c.Path())
		switch d.Kind {
		case access.Allow:
			if acc != nil {
				c.Locals(LocalAccount, acc)
			}
			return c.Next()
		case access.Unauthenticated:
			return c.Status(fiber.StatusUnauthorized).JSON(decisionBody("UNAUTHENTICATED", "se requiere iniciar sesión", d))
		}
		msg := "acceso no permitido en el estado actual de la cuenta"
		if d.Reason != "" {
			msg += ": " + d.Reason
		}
		return c.Status(fiber.StatusForbidden).JSON(decisionBody("ACCESS_REDIRECT", msg, d))
	}
}

// identityFor identidad vigente del token, o nil si no hay token o la cuenta ya no existe.
func identityFor(c *fiber.Ctx, accounts accountReader) (*access.Identity, *entity.Account, error) {
	accountID := GetAccountID(c)
	if accountID == "" {
		return nil, nil, nil
	}
	acc, err := accounts.GetByID(c.UserContext(), accountID)
	if err != nil || acc == nil {
		return nil, nil, err
	}
	return &access.Identity{AccountID: acc.ID, Role: acc.Role, Status: acc.Status}, acc, nil
}

func decisionBody(code, msg string, d access.Decision) fiber.Map {
	return fiber.Map{
		"success":  false,
		"code":     code,
		"error":    msg,
		"redirect": d.Location,
		"reason":   d.Reason,
	}
}

// CurrentAccount cuenta resuelta por AccessMiddleware.
func CurrentAccount(c *fiber.Ctx) *entity.Account {
	acc, _ := c.Locals(LocalAccount).(*entity.Account)
	return acc
}
