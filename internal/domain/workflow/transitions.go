// Package workflow define la máquina de estados de la persona: orden de estados,
// tabla de transiciones legales y ventanas de edición por departamento.
// No tiene dependencias de infraestructura.
package workflow

import (
	"fmt"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// Action disparador de una transición o de una escritura dentro de un estado.
type Action string

const (
	ActionCreate        Action = "CREATE_PERSON"
	ActionSubmit        Action = "SUBMIT_TO_FINANCE"
	ActionUpdateFinance Action = "UPDATE_FINANCE_DETAILS"
	ActionCompleteFin   Action = "COMPLETE_FINANCE"
	ActionAssignCode    Action = "ASSIGN_EMPLOYEE_CODE"
	ActionGenerateDoc   Action = "GENERATE_HR_DOCUMENT"
	ActionUploadSigned  Action = "UPLOAD_SIGNED_HR_DOCUMENT"
	ActionCompleteHR    Action = "COMPLETE_HR"
)

// order posición de cada estado; ninguna transición puede disminuirla.
var order = map[entity.PersonStatus]int{
	entity.StatusOperationStageA:      0,
	entity.StatusFinanceStage:         1,
	entity.StatusFinanceCompleted:     2,
	entity.StatusEmployeeCodeAssigned: 3,
	entity.StatusHRStage:              4,
	entity.StatusHRCompleted:          5,
}

// Statuses devuelve los estados en orden.
func Statuses() []entity.PersonStatus {
	return []entity.PersonStatus{
		entity.StatusOperationStageA,
		entity.StatusFinanceStage,
		entity.StatusFinanceCompleted,
		entity.StatusEmployeeCodeAssigned,
		entity.StatusHRStage,
		entity.StatusHRCompleted,
	}
}

// Valid informa si s es un estado conocido.
func Valid(s entity.PersonStatus) bool {
	_, ok := order[s]
	return ok
}

// Rank posición de s en el orden (-1 si es desconocido).
func Rank(s entity.PersonStatus) int {
	if r, ok := order[s]; ok {
		return r
	}
	return -1
}

// Rule fila de la tabla: desde qué estados se permite la acción, a qué estado lleva
// (vacío = no cambia) y qué departamento la ejecuta.
type Rule struct {
	From       []entity.PersonStatus
	To         entity.PersonStatus
	Department string
}

var table = map[Action]Rule{
	ActionCreate: {
		From:       nil,
		To:         entity.StatusOperationStageA,
		Department: entity.DepartmentCodeOperation,
	},
	ActionSubmit: {
		From:       []entity.PersonStatus{entity.StatusOperationStageA},
		To:         entity.StatusFinanceStage,
		Department: entity.DepartmentCodeOperation,
	},
	ActionUpdateFinance: {
		From:       []entity.PersonStatus{entity.StatusFinanceStage},
		Department: entity.DepartmentCodeFinance,
	},
	ActionCompleteFin: {
		From:       []entity.PersonStatus{entity.StatusFinanceStage},
		To:         entity.StatusFinanceCompleted,
		Department: entity.DepartmentCodeFinance,
	},
	ActionAssignCode: {
		From:       []entity.PersonStatus{entity.StatusFinanceCompleted},
		To:         entity.StatusEmployeeCodeAssigned,
		Department: entity.DepartmentCodeFinance,
	},
	// Generar y subir documentos promueven EMPLOYEE_CODE_ASSIGNED a HR_STAGE; desde
	// HR_STAGE no cambian el estado (ver Target).
	ActionGenerateDoc: {
		From:       hrWindow,
		To:         entity.StatusHRStage,
		Department: entity.DepartmentCodeHR,
	},
	ActionUploadSigned: {
		From:       hrWindow,
		To:         entity.StatusHRStage,
		Department: entity.DepartmentCodeHR,
	},
	ActionCompleteHR: {
		From:       []entity.PersonStatus{entity.StatusEmployeeCodeAssigned, entity.StatusHRStage},
		To:         entity.StatusHRCompleted,
		Department: entity.DepartmentCodeHR,
	},
}

var hrWindow = []entity.PersonStatus{
	entity.StatusEmployeeCodeAssigned,
	entity.StatusHRStage,
	entity.StatusHRCompleted,
}

// financeLockWindow estados en los que Operación y RR.HH. no pueden editar.
var financeLockWindow = []entity.PersonStatus{
	entity.StatusFinanceStage,
	entity.StatusFinanceCompleted,
	entity.StatusEmployeeCodeAssigned,
}

// hrLockWindow estados en los que Operación y Finanzas no pueden editar.
var hrLockWindow = []entity.PersonStatus{
	entity.StatusHRStage,
	entity.StatusHRCompleted,
}

// RuleFor devuelve la fila de la tabla para la acción.
func RuleFor(a Action) (Rule, bool) {
	r, ok := table[a]
	return r, ok
}

// Allowed informa si la acción es legal desde el estado actual.
func Allowed(a Action, current entity.PersonStatus) bool {
	r, ok := table[a]
	if !ok {
		return false
	}
	return contains(r.From, current)
}

// Target estado resultante de aplicar la acción desde current. Nunca retrocede:
// si la fila apuntaría a un estado anterior o igual, el estado se mantiene.
func Target(a Action, current entity.PersonStatus) (entity.PersonStatus, error) {
	r, ok := table[a]
	if !ok {
		return "", fmt.Errorf("workflow: acción desconocida %q", a)
	}
	if a != ActionCreate && !contains(r.From, current) {
		return "", fmt.Errorf("workflow: %s no permitido desde %s", a, current)
	}
	if r.To == "" || Rank(r.To) <= Rank(current) {
		return current, nil
	}
	return r.To, nil
}

// FinanceLocked informa si el estado está en la ventana de edición exclusiva de Finanzas.
func FinanceLocked(s entity.PersonStatus) bool { return contains(financeLockWindow, s) }

// HRLocked informa si el estado está en la ventana de edición exclusiva de RR.HH.
func HRLocked(s entity.PersonStatus) bool { return contains(hrLockWindow, s) }

// HRVisible informa si el perfil ya es visible para RR.HH.
func HRVisible(s entity.PersonStatus) bool { return contains(hrWindow, s) }

// ReadOnly informa si la persona ya no admite escrituras de ningún departamento.
func ReadOnly(s entity.PersonStatus) bool { return s == entity.StatusHRCompleted }

func contains(list []entity.PersonStatus, s entity.PersonStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
