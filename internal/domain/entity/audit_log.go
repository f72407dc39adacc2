package entity

import "time"

// AuditAction catálogo cerrado de acciones auditables.
type AuditAction string

const (
	AuditDepartmentActivate   AuditAction = "DEPARTMENT_ACTIVATE"
	AuditDepartmentDeactivate AuditAction = "DEPARTMENT_DEACTIVATE"

	AuditPersonCreate              AuditAction = "PERSON_CREATE"
	AuditPersonDuplicateAttempt    AuditAction = "PERSON_DUPLICATE_ATTEMPT"
	AuditPersonDocValidationFailed AuditAction = "PERSON_DOCUMENT_VALIDATION_FAILED"
	AuditPersonSubmittedToFinance  AuditAction = "PERSON_SUBMITTED_TO_FINANCE"
	AuditPersonActionDenied        AuditAction = "PERSON_ACTION_DENIED"

	AuditFinanceDetailsUpdated        AuditAction = "FINANCE_DETAILS_UPDATED"
	AuditFinanceValidationFailed      AuditAction = "FINANCE_VALIDATION_FAILED"
	AuditFinanceUpdateAttemptDenied   AuditAction = "FINANCE_UPDATE_ATTEMPT_DENIED"
	AuditFinanceCompleted             AuditAction = "FINANCE_COMPLETED"
	AuditEmployeeCodeAssigned         AuditAction = "EMPLOYEE_CODE_ASSIGNED"
	AuditEmployeeCodeDuplicateAttempt AuditAction = "EMPLOYEE_CODE_DUPLICATE_ATTEMPT"

	AuditHRDocumentGenerated   AuditAction = "HR_DOCUMENT_GENERATED"
	AuditHRDocumentSigned      AuditAction = "HR_DOCUMENT_SIGNED"
	AuditHRValidationFailed    AuditAction = "HR_VALIDATION_FAILED"
	AuditHRUpdateAttemptDenied AuditAction = "HR_UPDATE_ATTEMPT_DENIED"
	AuditHRCompleted           AuditAction = "HR_COMPLETED"
)

var auditActions = map[AuditAction]struct{}{
	AuditDepartmentActivate: {}, AuditDepartmentDeactivate: {},
	AuditPersonCreate: {}, AuditPersonDuplicateAttempt: {}, AuditPersonDocValidationFailed: {},
	AuditPersonSubmittedToFinance: {}, AuditPersonActionDenied: {},
	AuditFinanceDetailsUpdated: {}, AuditFinanceValidationFailed: {}, AuditFinanceUpdateAttemptDenied: {},
	AuditFinanceCompleted: {}, AuditEmployeeCodeAssigned: {}, AuditEmployeeCodeDuplicateAttempt: {},
	AuditHRDocumentGenerated: {}, AuditHRDocumentSigned: {}, AuditHRValidationFailed: {},
	AuditHRUpdateAttemptDenied: {}, AuditHRCompleted: {},
}

// Valid informa si la acción pertenece al catálogo.
func (a AuditAction) Valid() bool {
	_, ok := auditActions[a]
	return ok
}

// AuditTarget tipo de entidad afectada.
type AuditTarget string

const (
	TargetDepartment AuditTarget = "Department"
	TargetPermission AuditTarget = "Permission"
	TargetRole       AuditTarget = "Role"
	TargetUser       AuditTarget = "User"
	TargetPerson     AuditTarget = "Person"
)

// Valid informa si el tipo de entidad es conocido.
func (t AuditTarget) Valid() bool {
	switch t {
	case TargetDepartment, TargetPermission, TargetRole, TargetUser, TargetPerson:
		return true
	}
	return false
}

// AuditLog registro inmutable de quién hizo qué sobre qué. Nunca se actualiza ni borra.
type AuditLog struct {
	ID           string
	Action       AuditAction
	PerformedBy  string
	TargetEntity AuditTarget
	TargetID     string // vacío cuando la acción falló antes de existir el objetivo
	Changes      map[string]any
	Metadata     map[string]any
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}
