// import_catalog carga empresas y productos desde un CSV con cabecera.
// Las empresas se crean al vuelo por nombre; los SKU existentes se omiten.
//
// Uso: go run ./cmd/import_catalog -file catalogo.csv [-latin1] [-sep ';']
//
// Columnas reconocidas (en cualquier orden): company, company_type, sku, name, brand,
// mother_brand, therapy, super_group, sub_supergroup, group, class, drug_type,
// drug_category, subgroup, strength, pack, pack_unit, schedule, rx, nlem,
// acute_chronic, plain_combination, mrp, ptr, pts, brand_launch_date, sku_launch_date.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pharmahub-api/pkg/config"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

var importer = activity.Actor{ID: "import_catalog", Role: entity.RoleAdmin}

type row map[string]string

func (r row) get(k string) string { return strings.TrimSpace(r[k]) }

func (r row) flag(k string) bool {
	switch strings.ToLower(r.get(k)) {
	case "1", "y", "yes", "si", "sí", "true":
		return true
	}
	return false
}

func (r row) money(k string) (decimal.Decimal, error) {
	v := strings.ReplaceAll(r.get(k), ",", "")
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func main() {
	path := flag.String("file", "", "ruta del CSV")
	latin1 := flag.Bool("latin1", false, "el archivo viene en ISO-8859-1")
	sep := flag.String("sep", ",", "separador de columnas")
	flag.Parse()
	if *path == "" {
		fmt.Fprintln(os.Stderr, "uso: import_catalog -file catalogo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()
	var src io.Reader = f
	if *latin1 {
		src = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	tx := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)

	imp := &catalogImport{
		repos:     repos,
		companies: usecase.NewCompanyUseCase(tx, repos, nil, log),
		products:  usecase.NewProductUseCase(tx, repos),
		cache:     map[string]string{},
	}
	stats, err := imp.run(ctx, src, *sep, log)
	if err != nil {
		log.Fatal().Err(err).Msg("importar catálogo")
	}
	log.Info().
		Int("created", stats.created).
		Int("skipped", stats.skipped).
		Int("failed", stats.failed).
		Msg("importación terminada")
}

type importStats struct {
	created, skipped, failed int
}

type catalogImport struct {
	repos     repository.Repos
	companies *usecase.CompanyUseCase
	products  *usecase.ProductUseCase
	cache     map[string]string // nombre de empresa -> id
}

func (imp *catalogImport) run(ctx context.Context, src io.Reader, sep string, log *logger.Logger) (importStats, error) {
	var stats importStats
	r := csv.NewReader(src)
	if sep != "" {
		r.Comma = []rune(sep)[0]
	}
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return stats, fmt.Errorf("leer cabecera: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		line++
		if err != nil {
			return stats, fmt.Errorf("línea %d: %w", line, err)
		}
		rw := make(row, len(header))
		for i, h := range header {
			if i < len(rec) {
				rw[h] = rec[i]
			}
		}
		switch err := imp.importRow(ctx, rw); {
		case errors.Is(err, domain.ErrDuplicate):
			stats.skipped++
		case err != nil:
			stats.failed++
			log.Warn().Err(err).Int("line", line).Str("sku", rw.get("sku")).Msg("fila rechazada")
		default:
			stats.created++
		}
	}
}

func (imp *catalogImport) importRow(ctx context.Context, r row) error {
	companyID, err := imp.company(ctx, r.get("company"), r.get("company_type"))
	if err != nil {
		return err
	}
	in := dto.CreateProductRequest{
		SKU:              r.get("sku"),
		Name:             r.get("name"),
		Brand:            r.get("brand"),
		MotherBrand:      r.get("mother_brand"),
		CompanyID:        companyID,
		Therapy:          r.get("therapy"),
		SuperGroup:       r.get("super_group"),
		SubSupergroup:    r.get("sub_supergroup"),
		Group:            r.get("group"),
		Class:            r.get("class"),
		DrugType:         r.get("drug_type"),
		DrugCategory:     r.get("drug_category"),
		Subgroup:         r.get("subgroup"),
		Strength:         r.get("strength"),
		Pack:             r.get("pack"),
		PackUnit:         r.get("pack_unit"),
		Schedule:         r.get("schedule"),
		IsRxRequired:     r.flag("rx"),
		NLEM:             r.flag("nlem"),
		AcuteChronic:     r.get("acute_chronic"),
		PlainCombination: r.get("plain_combination"),
		BrandLaunchDate:  r.get("brand_launch_date"),
		SKULaunchDate:    r.get("sku_launch_date"),
	}
	if in.Brand == "" {
		in.Brand = in.Name
	}
	if in.MRP, err = r.money("mrp"); err != nil {
		return err
	}
	if in.PTR, err = r.money("ptr"); err != nil {
		return err
	}
	if in.PTS, err = r.money("pts"); err != nil {
		return err
	}
	_, err = imp.products.Create(ctx, in, importer)
	return err
}

// company resuelve la empresa por nombre y la crea si no existe.
func (imp *catalogImport) company(ctx context.Context, name, typ string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("fila sin empresa: %w", domain.ErrInvalidInput)
	}
	if id, ok := imp.cache[name]; ok {
		return id, nil
	}
	existing, err := imp.repos.Companies.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		imp.cache[name] = existing.ID
		return existing.ID, nil
	}
	created, err := imp.companies.Create(ctx, dto.CreateCompanyRequest{Name: name, Type: strings.ToUpper(typ)}, importer)
	if err != nil {
		return "", err
	}
	imp.cache[name] = created.ID
	return created.ID, nil
}
