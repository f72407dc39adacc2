// Package bootstrap carga los datos mínimos para operar: los departamentos canónicos,
// plantillas publicadas de RR.HH. y un usuario por departamento. Es idempotente.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/hr-onboarding-api/internal/application/auth"
	"github.com/jhoicas/hr-onboarding-api/internal/application/department"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

// DefaultPassword contraseña de los usuarios demo si no se indica otra.
const DefaultPassword = "ChangeMe123!"

// UserSeed usuario a crear si su email no existe.
type UserSeed struct {
	Email          string
	FullName       string
	DepartmentCode string
	Permissions    []string
	Password       string // vacío = Options.Password
}

// DefaultUsers un usuario por departamento con los permisos de su etapa.
func DefaultUsers() []UserSeed {
	return []UserSeed{
		{
			Email: "admin@hr.local", FullName: "Administrator", DepartmentCode: entity.DepartmentCodeAdmin,
			Permissions: []string{entity.PermMasterAdmin},
		},
		{
			Email: "operation@hr.local", FullName: "Operation User", DepartmentCode: entity.DepartmentCodeOperation,
			Permissions: []string{entity.PermPersonCreate, entity.PermPersonRead, entity.PermPersonSubmitToFinance},
		},
		{
			Email: "finance@hr.local", FullName: "Finance User", DepartmentCode: entity.DepartmentCodeFinance,
			Permissions: []string{
				entity.PermPersonRead, entity.PermFinanceUpdate, entity.PermFinanceComplete,
				entity.PermEmployeeCodeAssign,
			},
		},
		{
			Email: "hr@hr.local", FullName: "HR User", DepartmentCode: entity.DepartmentCodeHR,
			Permissions: []string{
				entity.PermPersonRead, entity.PermHRDocumentGenerate, entity.PermHRDocumentUpload,
				entity.PermHRDocumentRead, entity.PermHRComplete,
			},
		},
	}
}

var departmentOrder = []string{
	entity.DepartmentCodeAdmin,
	entity.DepartmentCodeOperation,
	entity.DepartmentCodeFinance,
	entity.DepartmentCodeHR,
}

var defaultTemplates = []entity.Template{
	{Name: "Standard Offer Letter", Type: entity.DocOfferLetter, Content: "Dear {{fullName}}, we are pleased to offer you..."},
	{Name: "Employee Declaration", Type: entity.DocDeclaration, Content: "I, {{fullName}} ({{employeeCode}}), declare that..."},
}

// Options repositorios destino y parámetros del seed.
type Options struct {
	Departments repository.DepartmentRepository
	Templates   repository.TemplateRepository
	Users       repository.UserRepository
	Clock       ports.Clock
	Log         *logger.Logger
	Password    string
	ExtraUsers  []UserSeed
}

// Result cantidades creadas (lo existente no cuenta).
type Result struct {
	Departments int
	Templates   int
	Users       int
}

// Run crea lo que falte. Volver a ejecutarlo no duplica nada.
func Run(ctx context.Context, o Options) (Result, error) {
	var res Result
	if o.Clock == nil {
		o.Clock = ports.SystemClock{}
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	log := o.Log.Component("bootstrap")
	if o.Password == "" {
		o.Password = DefaultPassword
	}
	now := o.Clock.Now()

	byCode := make(map[string]*entity.Department, len(departmentOrder))
	for _, code := range departmentOrder {
		d, err := o.Departments.FindByCodeOrName(ctx, code, department.DisplayName(code))
		if err != nil {
			return res, fmt.Errorf("buscar departamento %s: %w", code, err)
		}
		if d == nil {
			d = &entity.Department{
				ID:        uuid.New().String(),
				Name:      department.DisplayName(code),
				Code:      code,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := o.Departments.Create(ctx, d); err != nil {
				return res, fmt.Errorf("crear departamento %s: %w", code, err)
			}
			res.Departments++
			log.Info().Str("code", code).Msg("departamento creado")
		}
		byCode[code] = d
	}

	for _, tpl := range defaultTemplates {
		existing, err := o.Templates.FindPublishedByType(ctx, tpl.Type)
		if err != nil {
			return res, fmt.Errorf("buscar plantilla %s: %w", tpl.Type, err)
		}
		if existing != nil {
			continue
		}
		t := tpl
		t.ID = uuid.New().String()
		t.IsPublished = true
		t.PublishedAt = &now
		t.IsActive = true
		t.CreatedAt = now
		t.UpdatedAt = now
		if err := o.Templates.Create(ctx, &t); err != nil {
			return res, fmt.Errorf("crear plantilla %s: %w", tpl.Type, err)
		}
		res.Templates++
	}

	for _, us := range append(DefaultUsers(), o.ExtraUsers...) {
		created, err := seedUser(ctx, o, byCode, us)
		if err != nil {
			return res, err
		}
		if created {
			res.Users++
		}
	}
	log.Info().Int("departments", res.Departments).Int("templates", res.Templates).
		Int("users", res.Users).Msg("seed aplicado")
	return res, nil
}

func seedUser(ctx context.Context, o Options, byCode map[string]*entity.Department, us UserSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(us.Email))
	existing, err := o.Users.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("buscar usuario %s: %w", email, err)
	}
	if existing != nil {
		return false, nil
	}
	dep, ok := byCode[strings.ToUpper(us.DepartmentCode)]
	if !ok {
		return false, fmt.Errorf("usuario %s: departamento %q desconocido", email, us.DepartmentCode)
	}
	password := us.Password
	if password == "" {
		password = o.Password
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	now := o.Clock.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FullName:     us.FullName,
		DepartmentID: dep.ID,
		Permissions:  us.Permissions,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := o.Users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("crear usuario %s: %w", email, err)
	}
	return true, nil
}
