package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora en la tabla audit_logs.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de la bitácora.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta un registro; details vacío se guarda como objeto JSON vacío.
func (r *AuditRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	details := []byte(l.Details)
	if len(details) == 0 {
		details = []byte("{}")
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, actor_id, actor_role, action, entity_type, entity_id, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, l.ActorID, string(l.ActorRole), l.Action, l.EntityType, l.EntityID, details, l.IPAddress, l.UserAgent, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List registros más recientes primero.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter, p repository.Page) ([]*entity.AuditLog, int, error) {
	var c conds
	if f.EntityType != "" {
		c.add("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		c.add("entity_id = ?", f.EntityID)
	}
	if f.ActorID != "" {
		c.add("actor_id = ?", f.ActorID)
	}
	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM audit_logs`+c.where(), c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	limit, args := c.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, actor_id, actor_role, action, entity_type, entity_id, details, ip_address, user_agent, created_at
		FROM audit_logs`+c.where()+` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var role string
		var details []byte
		if err := rows.Scan(&l.ID, &l.ActorID, &role, &l.Action, &l.EntityType, &l.EntityID, &details, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		l.ActorRole = entity.Role(role)
		l.Details = details
		list = append(list, &l)
	}
	return list, total, rows.Err()
}
