// Package ports define los contratos que la capa de aplicación consume del exterior
// (identidad del llamador, reloj).
package ports

import "github.com/jhoicas/hr-onboarding-api/internal/domain/entity"

// Actor identidad del llamador tal como la entrega el proveedor de identidad, más la
// procedencia de la petición para auditoría. Los casos de uso confían en ella sin
// validar de nuevo.
type Actor struct {
	UserID       string
	DepartmentID string
	Permissions  []string
	IPAddress    string
	UserAgent    string
}

// Has informa si el actor tiene el flag o MASTER_ADMIN.
func (a Actor) Has(flag string) bool {
	for _, p := range a.Permissions {
		if p == flag || p == entity.PermMasterAdmin {
			return true
		}
	}
	return false
}
