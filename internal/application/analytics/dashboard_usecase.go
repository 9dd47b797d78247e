// Package analytics contiene los resúmenes del panel de administración y de los socios.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/lifecycle"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

const dashboardRecentActivity = 10 // entradas de auditoría en el widget del panel

// DashboardUseCase genera los contadores del panel.
//
// Fuente de datos: repositorios de solo lectura; las consultas independientes corren en paralelo.
type DashboardUseCase struct {
	repos repository.Repos
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repos repository.Repos) *DashboardUseCase {
	return &DashboardUseCase{repos: repos}
}

// AdminStats construye el resumen del panel de administración.
//
// Cuatro llamadas en paralelo:
//  1. CountByStatus / CountByRole → cuentas por estado y rol
//  2. CountVerified(distributor, retailer) → perfiles verificados
//  3. Companies.Count / Products.Count → catálogo
//  4. Audit.List(top 10) → actividad reciente
func (uc *DashboardUseCase) AdminStats(ctx context.Context) (*dto.AdminStats, error) {
	type countsResult struct {
		byStatus map[entity.Status]int
		byRole   map[entity.Role]int
		err      error
	}
	type verifiedResult struct {
		distributors int
		retailers    int
		err          error
	}
	type catalogResult struct {
		companies int
		products  int
		err       error
	}
	type activityResult struct {
		logs []*entity.AuditLog
		err  error
	}

	countsCh := make(chan countsResult, 1)
	verifiedCh := make(chan verifiedResult, 1)
	catalogCh := make(chan catalogResult, 1)
	activityCh := make(chan activityResult, 1)

	go func() {
		byStatus, err := uc.repos.Accounts.CountByStatus(ctx)
		if err != nil {
			countsCh <- countsResult{err: err}
			return
		}
		byRole, err := uc.repos.Accounts.CountByRole(ctx)
		countsCh <- countsResult{byStatus, byRole, err}
	}()
	go func() {
		d, err := uc.repos.Profiles.CountVerified(ctx, entity.RoleDistributor)
		if err != nil {
			verifiedCh <- verifiedResult{err: err}
			return
		}
		r, err := uc.repos.Profiles.CountVerified(ctx, entity.RoleRetailer)
		verifiedCh <- verifiedResult{d, r, err}
	}()
	go func() {
		c, err := uc.repos.Companies.Count(ctx)
		if err != nil {
			catalogCh <- catalogResult{err: err}
			return
		}
		p, err := uc.repos.Products.Count(ctx)
		catalogCh <- catalogResult{c, p, err}
	}()
	go func() {
		logs, _, err := uc.repos.Audit.List(ctx, repository.AuditFilter{}, repository.Page{Limit: dashboardRecentActivity})
		activityCh <- activityResult{logs, err}
	}()

	counts := <-countsCh
	verified := <-verifiedCh
	catalog := <-catalogCh
	recent := <-activityCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: cuentas: %w", counts.err)
	}
	if verified.err != nil {
		return nil, fmt.Errorf("dashboard: perfiles verificados: %w", verified.err)
	}
	if catalog.err != nil {
		return nil, fmt.Errorf("dashboard: catálogo: %w", catalog.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: actividad: %w", recent.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.AdminStats{
		ByRole:   map[string]int{},
		ByStatus: map[string]int{},
		VerifiedProfiles: map[string]int{
			string(entity.RoleDistributor): verified.distributors,
			string(entity.RoleRetailer):    verified.retailers,
		},
		Companies:       catalog.companies,
		Products:        catalog.products,
		PendingApproval: counts.byStatus[entity.StatusPendingApproval],
		PendingVerify:   counts.byStatus[entity.StatusPendingVerification],
		RecentActivity:  make([]dto.AuditLogResponse, 0, len(recent.logs)),
	}
	for s, n := range counts.byStatus {
		out.ByStatus[string(s)] = n
		out.Accounts += n
	}
	for r, n := range counts.byRole {
		out.ByRole[string(r)] = n
	}
	for _, l := range recent.logs {
		out.RecentActivity = append(out.RecentActivity, dto.NewAuditLogResponse(l))
	}
	return out, nil
}

// PartnerDashboard resumen de un distribuidor o minorista: su cuenta, perfil,
// tamaño del catálogo activo y requisitos pendientes.
func (uc *DashboardUseCase) PartnerDashboard(ctx context.Context, accountID string) (*dto.PartnerDashboard, error) {
	acc, err := uc.repos.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	profile, err := uc.repos.Profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	active := true
	type countResult struct {
		n   int
		err error
	}
	companiesCh := make(chan countResult, 1)
	productsCh := make(chan countResult, 1)
	go func() {
		_, n, err := uc.repos.Companies.List(ctx, repository.CompanyFilter{IsActive: &active}, repository.Page{Limit: 1})
		companiesCh <- countResult{n, err}
	}()
	go func() {
		_, n, err := uc.repos.Products.List(ctx, repository.ProductFilter{IsActive: &active}, repository.Page{Limit: 1})
		productsCh <- countResult{n, err}
	}()
	companies := <-companiesCh
	products := <-productsCh
	if companies.err != nil {
		return nil, fmt.Errorf("dashboard: empresas: %w", companies.err)
	}
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}

	out := &dto.PartnerDashboard{
		Account:   dto.NewAccountResponse(acc),
		Companies: companies.n,
		Products:  products.n,
		CanTrade:  acc.Status == entity.StatusActive,
	}
	if profile != nil {
		pr := dto.NewProfileResponse(profile, nil)
		out.Profile = &pr
		if req, err := lifecycle.RequirementsFor(acc.Role); err == nil {
			out.Missing = req.Missing(lifecycle.Submission{
				LicenseNumber: profile.License.Number,
				LicenseType:   profile.License.Type,
				LicenseExpiry: profile.License.Expiry,
				GSTNumber:     profile.GSTNumber,
			}, profile.Documents)
		}
	}
	return out, nil
}
