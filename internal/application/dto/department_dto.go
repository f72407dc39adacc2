package dto

import "time"

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetDepartmentStatusRequest activar o desactivar.
type SetDepartmentStatusRequest struct {
	IsActive *bool `json:"isActive"`
}
