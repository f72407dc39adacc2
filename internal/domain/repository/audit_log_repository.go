package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// AuditLogFilter filtros de consulta de auditoría.
type AuditLogFilter struct {
	Action       entity.AuditAction
	TargetEntity entity.AuditTarget
	TargetID     string
	PerformedBy  string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// AuditLogRepository puerto append-only: no existe Update ni Delete.
type AuditLogRepository interface {
	Append(ctx context.Context, log *entity.AuditLog) error
	List(ctx context.Context, f AuditLogFilter) ([]*entity.AuditLog, int, error)
}
