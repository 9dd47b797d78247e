package repository

import "context"

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Accounts  AccountRepository
	Profiles  ProfileRepository
	Companies CompanyRepository
	Products  ProductRepository
	Audit     AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
