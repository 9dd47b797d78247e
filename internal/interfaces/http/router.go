package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Pharmahub-api/internal/application/analytics"
	"github.com/jhoicas/Pharmahub-api/internal/application/auth"
	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
	"github.com/jhoicas/Pharmahub-api/internal/domain/access"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	AccountUC   *usecase.AccountUseCase
	ProfileUC   *usecase.ProfileUseCase
	CompanyUC   *usecase.CompanyUseCase
	ProductUC   *usecase.ProductUseCase
	AuditUC     *usecase.AuditUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Transitions *transition.Service
	Gate        *access.Gate
	Accounts    repository.AccountRepository
	Files       ports.FileStorage
	UploadMaxMB int
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Decisión del gate para el front-end (token opcional)
	accessHandler := NewAccessHandler(deps.Gate, deps.Accounts)
	api.Get("/access/decide", OptionalAuth(deps.JWTSecret), accessHandler.Decide)

	// Rutas con gate: token + estado vigente de la cuenta
	gated := []fiber.Handler{OptionalAuth(deps.JWTSecret), AccessMiddleware(deps.Gate, deps.Accounts)}

	// Carga de documentos
	submission := NewSubmissionHandler(deps.ProfileUC, deps.Transitions, deps.Files, deps.UploadMaxMB)
	completeProfile := api.Group("/complete-profile", gated...)
	completeProfile.Get("/requirements", submission.Requirements)
	completeProfile.Post("/", submission.Submit)

	dashboard := NewDashboardHandler(deps.DashboardUC)

	// Admin
	admin := api.Group("/admin", append(gated, RequireRole(string(entity.RoleAdmin)))...)
	admin.Get("/dashboard", dashboard.Admin)

	users := NewAccountHandler(deps.AccountUC, deps.Transitions)
	admin.Get("/users", users.List)
	admin.Post("/users", users.Create)
	admin.Get("/users/:id", users.Get)
	admin.Put("/users/:id", users.Update)
	admin.Delete("/users/:id", users.Deactivate)
	admin.Post("/users/:id/approve", users.Approve)
	admin.Post("/users/:id/reject", users.Reject)
	admin.Post("/users/:id/deactivate", users.Deactivate)

	for path, role := range map[string]entity.Role{"/distributors": entity.RoleDistributor, "/retailers": entity.RoleRetailer} {
		h := NewProfileHandler(role, deps.ProfileUC, deps.Transitions)
		g := admin.Group(path)
		g.Get("/", h.List)
		g.Get("/:id", h.Get)
		g.Put("/:id", h.Update)
		g.Post("/:id/verify", h.Verify)
	}

	companies := NewCompanyHandler(deps.CompanyUC)
	admin.Get("/companies", companies.List)
	admin.Post("/companies", companies.Create)
	admin.Get("/companies/:id", companies.GetByID)
	admin.Put("/companies/:id", companies.Update)
	admin.Delete("/companies/:id", companies.Delete)

	products := NewProductHandler(deps.ProductUC)
	admin.Get("/products", products.List)
	admin.Post("/products", products.Create)
	admin.Get("/products/:id", products.GetByID)
	admin.Put("/products/:id", products.Update)
	admin.Delete("/products/:id", products.Delete)

	admin.Get("/audit-logs", NewAuditHandler(deps.AuditUC).List)

	// Distribuidores y minoristas: catálogo activo
	catalogProducts := NewCatalogProductHandler(deps.ProductUC)
	catalogCompanies := NewCatalogCompanyHandler(deps.CompanyUC)
	for _, role := range []entity.Role{entity.RoleDistributor, entity.RoleRetailer} {
		g := api.Group("/"+string(role), append(gated, RequireRole(string(role)))...)
		g.Get("/dashboard", dashboard.Partner)
		g.Get("/products", catalogProducts.List)
		g.Get("/products/search", catalogProducts.Search)
		g.Get("/products/filters", catalogProducts.Filters)
		g.Get("/products/:id", catalogProducts.GetByID)
		g.Get("/companies", catalogCompanies.List)
	}
}
