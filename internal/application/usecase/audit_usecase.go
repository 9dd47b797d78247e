package usecase

import (
	"context"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

// AuditUseCase consulta de la bitácora.
type AuditUseCase struct {
	repo repository.AuditRepository
}

func NewAuditUseCase(repo repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// List registros más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, q dto.AuditListQuery) (*dto.AuditListResponse, error) {
	page := dto.NewPageRequest(q.Page, q.Limit)
	list, total, err := uc.repo.List(ctx, repository.AuditFilter{EntityType: q.EntityType, EntityID: q.EntityID, ActorID: q.ActorID}, toPage(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.NewAuditLogResponse(l))
	}
	return &dto.AuditListResponse{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}
