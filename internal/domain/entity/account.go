package entity

import "time"

// Role rol de una cuenta. Inmutable después de la creación.
type Role string

// Roles válidos para Account.
const (
	RoleAdmin       Role = "admin"
	RoleDistributor Role = "distributor"
	RoleRetailer    Role = "retailer"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDistributor, RoleRetailer:
		return true
	}
	return false
}

// HasProfile indica si el rol requiere un perfil de negocio (distribuidor o minorista).
func (r Role) HasProfile() bool {
	return r == RoleDistributor || r == RoleRetailer
}

// Status estado del ciclo de vida de una cuenta.
type Status string

// Estados del ciclo de vida. Rejected y Deactivated son terminales.
const (
	StatusPendingApproval     Status = "pending_approval"
	StatusPendingDocuments    Status = "pending_documents"
	StatusPendingVerification Status = "pending_verification"
	StatusActive              Status = "active"
	StatusRejected            Status = "rejected"
	StatusDeactivated         Status = "deactivated"
)

// Valid indica si el estado es uno de los conocidos.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusPendingDocuments, StatusPendingVerification,
		StatusActive, StatusRejected, StatusDeactivated:
		return true
	}
	return false
}

// Terminal indica que no existe transición de salida.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusDeactivated
}

// Account representa una cuenta de usuario (admin, distribuidor o minorista).
type Account struct {
	ID              string
	Email           string // siempre en minúsculas
	PasswordHash    string // bcrypt hash
	Name            string
	Phone           string
	Role            Role
	Status          Status
	RejectionReason string     // solo en rejected
	ApprovedAt      *time.Time // solo después de salir de pending_approval
	ApprovedBy      string
	EmailVerified   bool
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive derivado del estado: una cuenta desactivada ya no está activa.
func (a *Account) IsActive() bool {
	return a.Status != StatusDeactivated
}

// InitialStatus estado con el que nace una cuenta según su rol.
func InitialStatus(role Role) Status {
	if role == RoleAdmin {
		return StatusActive
	}
	return StatusPendingApproval
}
