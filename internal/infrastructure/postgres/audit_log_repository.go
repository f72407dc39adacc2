package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora append-only; la tabla además rechaza UPDATE y DELETE por trigger.
type AuditLogRepo struct {
	db DBTX
}

// NewAuditLogRepository construye el adaptador.
func NewAuditLogRepository(db DBTX) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

const auditColumns = `id, action, performed_by, target_entity, COALESCE(target_id::text, ''), changes, metadata,
	COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at`

// Append inserta un registro.
func (r *AuditLogRepo) Append(ctx context.Context, l *entity.AuditLog) error {
	changes, err := json.Marshal(orEmpty(l.Changes))
	if err != nil {
		return fmt.Errorf("codificar changes: %w", err)
	}
	metadata, err := json.Marshal(orEmpty(l.Metadata))
	if err != nil {
		return fmt.Errorf("codificar metadata: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_logs (id, action, performed_by, target_entity, target_id, changes, metadata, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, string(l.Action), l.PerformedBy, string(l.TargetEntity), nullString(l.TargetID),
		changes, metadata, nullString(l.IPAddress), nullString(l.UserAgent), l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// List filtra, más reciente primero, y devuelve el total sin paginar.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditLogFilter) ([]*entity.AuditLog, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Action != "" {
		add("action = $%d", string(f.Action))
	}
	if f.TargetEntity != "" {
		add("target_entity = $%d", string(f.TargetEntity))
	}
	if f.TargetID != "" {
		add("target_id::text = $%d", f.TargetID)
	}
	if f.PerformedBy != "" {
		add("performed_by::text = $%d", f.PerformedBy)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	query := `SELECT ` + auditColumns + ` FROM audit_logs` + where + ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var (
			l              entity.AuditLog
			action, target string
			changes, meta  []byte
		)
		if err := rows.Scan(&l.ID, &action, &l.PerformedBy, &target, &l.TargetID, &changes, &meta,
			&l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		l.Action = entity.AuditAction(action)
		l.TargetEntity = entity.AuditTarget(target)
		l.Changes = map[string]any{}
		l.Metadata = map[string]any{}
		if err := unmarshalOptional(changes, &l.Changes); err != nil {
			return nil, 0, fmt.Errorf("decodificar changes: %w", err)
		}
		if err := unmarshalOptional(meta, &l.Metadata); err != nil {
			return nil, 0, fmt.Errorf("decodificar metadata: %w", err)
		}
		list = append(list, &l)
	}
	return list, total, rows.Err()
}
