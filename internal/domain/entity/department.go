package entity

import "time"

// Códigos canónicos de los departamentos que anclan el flujo.
const (
	DepartmentCodeAdmin     = "ADMIN"
	DepartmentCodeOperation = "OPERATION"
	DepartmentCodeFinance   = "FINANCE"
	DepartmentCodeHR        = "HR"
)

// Department unidad organizacional (nombre y código únicos, código en mayúsculas).
type Department struct {
	ID        string
	Name      string
	Code      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
