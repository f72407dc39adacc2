package department

import (
	"context"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

// TxRunner ejecuta fn con repositorios atados a una misma transacción.
type TxRunner interface {
	RunDepartment(ctx context.Context, fn func(
		departments repository.DepartmentRepository,
		users repository.UserRepository,
	) error) error
}

// UseCase administración de departamentos.
type UseCase struct {
	repo  repository.DepartmentRepository
	tx    TxRunner
	audit audit.Sink
	clock ports.Clock
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.DepartmentRepository, tx TxRunner, sink audit.Sink, clock ports.Clock, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, tx: tx, audit: sink, clock: clock, log: log}
}

// List todos los departamentos.
func (uc *UseCase) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	deps, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(deps))
	for _, d := range deps {
		out = append(out, toResponse(d))
	}
	return out, nil
}

// SetActive activa o desactiva. No se desactiva un departamento con usuarios activos.
func (uc *UseCase) SetActive(ctx context.Context, actor ports.Actor, id string, active bool) (*dto.DepartmentResponse, error) {
	var (
		updated  *entity.Department
		previous bool
	)
	err := uc.tx.RunDepartment(ctx, func(departments repository.DepartmentRepository, users repository.UserRepository) error {
		d, err := departments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.NotFound("Department not found")
		}
		if !active && d.IsActive {
			n, err := users.CountActiveByDepartment(ctx, d.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.Conflict("Cannot deactivate department with active users")
			}
		}
		previous = d.IsActive
		d.IsActive = active
		d.UpdatedAt = uc.clock.Now()
		if err := departments.Update(ctx, d); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := entity.AuditDepartmentDeactivate
	if active {
		action = entity.AuditDepartmentActivate
	}
	uc.audit.Record(ctx, actor, audit.Entry{
		Action:   action,
		Target:   entity.TargetDepartment,
		TargetID: updated.ID,
		Changes: map[string]any{
			"isActive": map[string]any{"old": previous, "new": active},
		},
		Metadata: map[string]any{"name": updated.Name, "code": updated.Code},
	})
	uc.log.Info().Str("department_id", updated.ID).Bool("active", active).Str("user_id", actor.UserID).Msg("estado de departamento actualizado")
	resp := toResponse(updated)
	return &resp, nil
}

func toResponse(d *entity.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		Code:      d.Code,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
