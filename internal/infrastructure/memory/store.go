// Package memory implementa los puertos de persistencia en memoria.
// Reproduce la semántica de los adaptadores PostgreSQL (UPDATE condicional, rollback) para pruebas.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type data struct {
	accounts  map[string]*entity.Account
	profiles  map[string]*entity.Profile // por ID
	companies map[string]*entity.Company
	products  map[string]*entity.Product
	audit     []*entity.AuditLog
}

func newData() *data {
	return &data{
		accounts:  map[string]*entity.Account{},
		profiles:  map[string]*entity.Profile{},
		companies: map[string]*entity.Company{},
		products:  map[string]*entity.Product{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.accounts {
		c.accounts[k] = copyAccount(v)
	}
	for k, v := range d.profiles {
		c.profiles[k] = copyProfile(v)
	}
	for k, v := range d.companies {
		c.companies[k] = copyCompany(v)
	}
	for k, v := range d.products {
		c.products[k] = copyProduct(v)
	}
	c.audit = append([]*entity.AuditLog(nil), d.audit...)
	return c
}

// Store base de datos en memoria. Las transacciones se serializan: Run trabaja
// sobre una copia y la publica solo si fn no devuelve error.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() repository.Repos {
	return reposFor(&view{s: s})
}

// Run ejecuta fn sobre una copia aislada; Commit reemplaza el estado, error lo descarta.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.d.clone()
	if err := fn(reposFor(&view{s: s, tx: tx})); err != nil {
		return err
	}
	s.d = tx
	return nil
}

func reposFor(v *view) repository.Repos {
	return repository.Repos{
		Accounts:  &AccountRepo{v: v},
		Profiles:  &ProfileRepo{v: v},
		Companies: &CompanyRepo{v: v},
		Products:  &ProductRepo{v: v},
		Audit:     &AuditRepo{v: v},
	}
}

// view acceso al estado: dentro de una tx el lock ya lo tiene Run.
type view struct {
	s  *Store
	tx *data
}

func (v *view) do(fn func(d *data) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.d)
}

// ── helpers ────────────────────────────────────────────────────────────────

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func anyContains(needle string, fields ...string) bool {
	for _, f := range fields {
		if contains(f, needle) {
			return true
		}
	}
	return false
}

// paginate aplica offset/limit; limit <= 0 devuelve todo desde offset.
func paginate[T any](list []T, p repository.Page) []T {
	if p.Offset >= len(list) {
		return nil
	}
	list = list[p.Offset:]
	if p.Limit > 0 && p.Limit < len(list) {
		list = list[:p.Limit]
	}
	return list
}

func sortedDistinct(values map[string]struct{}) []string {
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func copyAccount(a *entity.Account) *entity.Account {
	c := *a
	return &c
}

func copyProfile(p *entity.Profile) *entity.Profile {
	c := *p
	c.Documents = append([]entity.Document(nil), p.Documents...)
	if p.Distributor != nil {
		t := *p.Distributor
		t.DeliveryAreas = append([]string(nil), p.Distributor.DeliveryAreas...)
		c.Distributor = &t
	}
	if p.Retailer != nil {
		t := *p.Retailer
		c.Retailer = &t
	}
	return &c
}

func copyCompany(co *entity.Company) *entity.Company {
	c := *co
	c.Divisions = append([]string(nil), co.Divisions...)
	return &c
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}
