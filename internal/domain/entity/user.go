package entity

import "time"

// Flags de permiso que el proveedor de identidad embebe en el token.
const (
	PermMasterAdmin           = "MASTER_ADMIN"
	PermPersonCreate          = "PERSON_CREATE"
	PermPersonRead            = "PERSON_READ"
	PermPersonSubmitToFinance = "PERSON_SUBMIT_TO_FINANCE"
	PermFinanceUpdate         = "FINANCE_UPDATE"
	PermFinanceComplete       = "FINANCE_COMPLETE"
	PermEmployeeCodeAssign    = "EMPLOYEE_CODE_ASSIGN"
	PermHRDocumentGenerate    = "HR_DOCUMENT_GENERATE"
	PermHRDocumentUpload      = "HR_DOCUMENT_UPLOAD"
	PermHRDocumentRead        = "HR_DOCUMENT_READ"
	PermHRComplete            = "HR_COMPLETE"
	PermAuditLogRead          = "AUDIT_LOG_READ"
	PermDepartmentRead        = "DEPARTMENT_READ"
	PermDepartmentUpdate      = "DEPARTMENT_UPDATE"
)

// User usuario del sistema (pertenece a un Department).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	DepartmentID string
	Permissions  []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPermission informa si el usuario tiene el flag (MASTER_ADMIN los cubre todos).
func (u *User) HasPermission(flag string) bool {
	for _, p := range u.Permissions {
		if p == flag || p == PermMasterAdmin {
			return true
		}
	}
	return false
}
