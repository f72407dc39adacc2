package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

// TxRunner serializa los callbacks sobre los repositorios en memoria.
// No hay rollback: fn debe escribir sólo al final.
type TxRunner struct {
	mu          sync.Mutex
	departments *Departments
	users       *Users
}

// NewTxRunner construye el runner con los repositorios compartidos.
func NewTxRunner(departments *Departments, users *Users) *TxRunner {
	return &TxRunner{departments: departments, users: users}
}

// RunDepartment ejecuta fn con los repositorios de departamentos y usuarios.
func (r *TxRunner) RunDepartment(ctx context.Context, fn func(
	departments repository.DepartmentRepository,
	users repository.UserRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.departments, r.users)
}
