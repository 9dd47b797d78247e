package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditadas.
const (
	AuditAccountRegistered  = "account.registered"
	AuditAccountCreated     = "account.created"
	AuditAccountUpdated     = "account.updated"
	AuditAccountApproved    = "account.approved"
	AuditAccountRejected    = "account.rejected"
	AuditAccountDeactivated = "account.deactivated"
	AuditDocumentsSubmitted = "profile.documents_submitted"
	AuditProfileVerified    = "profile.verified"
	AuditProfileSentBack    = "profile.verification_rejected"
	AuditProfileUpdated     = "profile.updated"
	AuditCompanyCreated     = "company.created"
	AuditCompanyUpdated     = "company.updated"
	AuditCompanyRenamed     = "company.renamed"
	AuditCompanyDeactivated = "company.deactivated"
	AuditProductCreated     = "product.created"
	AuditProductUpdated     = "product.updated"
	AuditProductDeactivated = "product.deactivated"
)

// Tipos de entidad auditada.
const (
	EntityAccount = "account"
	EntityProfile = "profile"
	EntityCompany = "company"
	EntityProduct = "product"
)

// AuditLog registro de una acción administrativa o de ciclo de vida.
type AuditLog struct {
	ID         string
	ActorID    string
	ActorRole  Role
	Action     string
	EntityType string
	EntityID   string
	Details    json.RawMessage
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}
