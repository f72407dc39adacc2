// Package audit registra y consulta la bitácora append-only.
package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

// Entry datos de un evento a registrar.
type Entry struct {
	Action   entity.AuditAction
	Target   entity.AuditTarget
	TargetID string
	Changes  map[string]any
	Metadata map[string]any
}

// Sink contrato que consumen los casos de uso. Nunca devuelve error.
type Sink interface {
	Record(ctx context.Context, actor ports.Actor, e Entry)
}

// Recorder escribe en el repositorio y absorbe los fallos de escritura.
type Recorder struct {
	repo  repository.AuditLogRepository
	clock ports.Clock
	log   *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditLogRepository, clock ports.Clock, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{repo: repo, clock: clock, log: log}
}

// Record agrega un registro. Un fallo del almacenamiento se loguea y no se propaga:
// la transición principal nunca depende de la bitácora.
func (r *Recorder) Record(ctx context.Context, actor ports.Actor, e Entry) {
	changes := e.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	entry := &entity.AuditLog{
		ID:           uuid.New().String(),
		Action:       e.Action,
		PerformedBy:  actor.UserID,
		TargetEntity: e.Target,
		TargetID:     e.TargetID,
		Changes:      changes,
		Metadata:     metadata,
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
		CreatedAt:    r.clock.Now(),
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.Error().Err(err).
			Str("action", string(e.Action)).
			Str("target_id", e.TargetID).
			Str("user_id", actor.UserID).
			Msg("no se pudo registrar auditoría")
		return
	}
	r.log.Debug().Str("action", string(e.Action)).Str("target_id", e.TargetID).Msg("auditoría registrada")
}
