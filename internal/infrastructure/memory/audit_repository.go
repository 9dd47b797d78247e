package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora en memoria.
type AuditRepo struct {
	v *view
}

func (r *AuditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	return r.v.do(func(d *data) error {
		c := *l
		d.audit = append(d.audit, &c)
		return nil
	})
}

func (r *AuditRepo) List(_ context.Context, f repository.AuditFilter, p repository.Page) ([]*entity.AuditLog, int, error) {
	var list []*entity.AuditLog
	err := r.v.do(func(d *data) error {
		for i := len(d.audit) - 1; i >= 0; i-- {
			l := d.audit[i]
			if f.EntityType != "" && l.EntityType != f.EntityType {
				continue
			}
			if f.EntityID != "" && l.EntityID != f.EntityID {
				continue
			}
			if f.ActorID != "" && l.ActorID != f.ActorID {
				continue
			}
			c := *l
			list = append(list, &c)
		}
		return nil
	})
	// Más recientes primero; a igual instante, el último insertado.
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, p), len(list), err
}
