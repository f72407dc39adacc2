package dto

import "time"

// AuditLogFilterRequest filtros de GET /admin/audit. Fechas en RFC 3339.
type AuditLogFilterRequest struct {
	Action       string `query:"action"`
	TargetEntity string `query:"targetEntity"`
	TargetID     string `query:"targetId"`
	PerformedBy  string `query:"performedBy"`
	StartDate    string `query:"startDate"`
	EndDate      string `query:"endDate"`
	PageRequest
}

// AuditLogResponse registro de auditoría hidratado.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	PerformedBy  UserRef        `json:"performedBy"`
	TargetEntity string         `json:"targetEntity"`
	TargetID     string         `json:"targetId,omitempty"`
	Changes      map[string]any `json:"changes,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	IPAddress    string         `json:"ipAddress,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// AuditLogListResponse página de auditoría.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
