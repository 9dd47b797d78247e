// seed crea cuentas de demostración (admin, distribuidor y minorista) y un par de
// empresas del catálogo. Es idempotente: lo que ya existe se omite.
//
// Uso: go run ./cmd/seed [-password clave]
package main

import (
	"context"
	"errors"
	"flag"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/auth"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pharmahub-api/pkg/config"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

var system = activity.Actor{ID: "seed", Role: entity.RoleAdmin}

func main() {
	password := flag.String("password", "password-123", "clave de las cuentas demo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	tx := postgres.NewTxRunner(pool)

	accounts := []dto.RegisterRequest{
		{Email: "admin@pharmahub.in", Name: "Administrador", Role: "admin"},
		{
			Email: "ventas@medidist.in", Name: "Anil Shah", Phone: "+91 98200 12345", Role: "distributor",
			CompanyName: "MediDist Pvt Ltd", GSTNumber: "27AAPFU0939F1ZV", City: "Mumbai", State: "Maharashtra", Pincode: "400001",
		},
		{
			Email: "compras@sharmapharmacy.in", Name: "Priya Sharma", Phone: "+91 99100 54321", Role: "retailer",
			StoreName: "Sharma Pharmacy", City: "Pune", State: "Maharashtra", Pincode: "411001",
		},
	}
	for _, in := range accounts {
		in.Password = *password
		in.Normalize()
		if err := in.ValidateFor(true); err != nil {
			log.Fatal().Err(err).Str("email", in.Email).Msg("cuenta demo inválida")
		}
		acc, err := auth.Provision(ctx, tx, in, system, entity.AuditAccountCreated, nil, log)
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			log.Info().Str("email", in.Email).Msg("cuenta ya existe, se omite")
		case err != nil:
			log.Fatal().Err(err).Str("email", in.Email).Msg("crear cuenta demo")
		default:
			log.Info().Str("email", acc.Email).Str("status", string(acc.Status)).Msg("cuenta demo creada")
		}
	}

	companies := usecase.NewCompanyUseCase(tx, postgres.NewRepos(pool), nil, log)
	for _, in := range []dto.CreateCompanyRequest{
		{Name: "Sun Pharmaceutical Industries", Corporate: "Sun Pharma", Type: entity.CompanyTypeIndian},
		{Name: "Pfizer Ltd", Corporate: "Pfizer", Type: entity.CompanyTypeMNC},
	} {
		_, err := companies.Create(ctx, in, system)
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			log.Fatal().Err(err).Str("company", in.Name).Msg("crear empresa demo")
		}
	}

	log.Info().Msg("seed completado")
}
