package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

// UserLookup carga usuarios para hidratar performedBy.
type UserLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
}

// QueryUseCase consulta de la bitácora para administradores.
type QueryUseCase struct {
	repo  repository.AuditLogRepository
	users UserLookup
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.AuditLogRepository, users UserLookup) *QueryUseCase {
	return &QueryUseCase{repo: repo, users: users}
}

// List filtra la bitácora, más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, in dto.AuditLogFilterRequest) (*dto.AuditLogListResponse, error) {
	var fe domain.FieldErrors
	filter := repository.AuditLogFilter{
		TargetID:    in.TargetID,
		PerformedBy: in.PerformedBy,
	}
	if in.TargetID != "" && uuid.Validate(in.TargetID) != nil {
		fe.Add("targetId", "targetId must be a valid id")
	}
	if in.PerformedBy != "" && uuid.Validate(in.PerformedBy) != nil {
		fe.Add("performedBy", "performedBy must be a valid id")
	}
	if in.Action != "" {
		filter.Action = entity.AuditAction(in.Action)
		if !filter.Action.Valid() {
			fe.Add("action", "unknown audit action")
		}
	}
	if in.TargetEntity != "" {
		filter.TargetEntity = entity.AuditTarget(in.TargetEntity)
		if !filter.TargetEntity.Valid() {
			fe.Add("targetEntity", "unknown target entity")
		}
	}
	if in.StartDate != "" {
		t, err := time.Parse(time.RFC3339, in.StartDate)
		if err != nil {
			fe.Add("startDate", "startDate must be RFC 3339")
		} else {
			filter.From = &t
		}
	}
	if in.EndDate != "" {
		t, err := time.Parse(time.RFC3339, in.EndDate)
		if err != nil {
			fe.Add("endDate", "endDate must be RFC 3339")
		} else {
			filter.To = &t
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	page := in.PageRequest.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Skip

	logs, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	refs, err := uc.userRefs(ctx, logs)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		performer, ok := refs[l.PerformedBy]
		if !ok {
			performer = dto.UserRef{ID: l.PerformedBy}
		}
		items = append(items, dto.AuditLogResponse{
			ID:           l.ID,
			Action:       string(l.Action),
			PerformedBy:  performer,
			TargetEntity: string(l.TargetEntity),
			TargetID:     l.TargetID,
			Changes:      l.Changes,
			Metadata:     l.Metadata,
			IPAddress:    l.IPAddress,
			UserAgent:    l.UserAgent,
			CreatedAt:    l.CreatedAt,
		})
	}
	return &dto.AuditLogListResponse{Items: items, Page: dto.NewPageResponse(page, total, len(items))}, nil
}

func (uc *QueryUseCase) userRefs(ctx context.Context, logs []*entity.AuditLog) (map[string]dto.UserRef, error) {
	seen := map[string]bool{}
	var ids []string
	for _, l := range logs {
		if l.PerformedBy != "" && !seen[l.PerformedBy] {
			seen[l.PerformedBy] = true
			ids = append(ids, l.PerformedBy)
		}
	}
	out := make(map[string]dto.UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := uc.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = dto.UserRef{ID: u.ID, FullName: u.FullName, Email: u.Email}
	}
	return out, nil
}
