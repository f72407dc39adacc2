// Package app arma el grafo de dependencias: almacenamiento (PostgreSQL o memoria) y
// casos de uso. Lo comparten cmd/api, cmd/hrctl y las pruebas HTTP.
package app

import (
	"context"
	"fmt"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/auth"
	"github.com/jhoicas/hr-onboarding-api/internal/application/bootstrap"
	"github.com/jhoicas/hr-onboarding-api/internal/application/department"
	"github.com/jhoicas/hr-onboarding-api/internal/application/employeecode"
	"github.com/jhoicas/hr-onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/application/readmodel"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/internal/infrastructure/memory"
	"github.com/jhoicas/hr-onboarding-api/internal/infrastructure/postgres"
	"github.com/jhoicas/hr-onboarding-api/pkg/config"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

// Stores repositorios de un driver concreto.
type Stores struct {
	Persons      repository.PersonRepository
	Departments  repository.DepartmentRepository
	Users        repository.UserRepository
	Templates    repository.TemplateRepository
	AuditLogs    repository.AuditLogRepository
	DepartmentTx department.TxRunner
	close        func()
}

// Close libera el pool si lo hay.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// MemoryStores almacenamiento en proceso; se pierde al reiniciar.
func MemoryStores() *Stores {
	deps := memory.NewDepartments()
	users := memory.NewUsers()
	return &Stores{
		Persons:      memory.NewStore(),
		Departments:  deps,
		Users:        users,
		Templates:    memory.NewTemplates(),
		AuditLogs:    memory.NewAuditLogs(),
		DepartmentTx: memory.NewTxRunner(deps, users),
	}
}

// PostgresStores abre el pool y construye los repositorios sobre él.
func PostgresStores(ctx context.Context, cfg config.DBConfig) (*Stores, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Persons:      postgres.NewPersonRepository(pool),
		Departments:  postgres.NewDepartmentRepository(pool),
		Users:        postgres.NewUserRepository(pool),
		Templates:    postgres.NewTemplateRepository(pool),
		AuditLogs:    postgres.NewAuditLogRepository(pool),
		DepartmentTx: postgres.NewTxRunner(pool),
		close:        pool.Close,
	}, nil
}

// OpenStores elige el driver según la configuración.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		return MemoryStores(), nil
	case config.StoreDriverPostgres:
		return PostgresStores(ctx, cfg.DB)
	default:
		return nil, fmt.Errorf("driver de almacenamiento %q no soportado", cfg.App.StoreDriver)
	}
}

// Services casos de uso listos para el transporte.
type Services struct {
	Engine      *onboarding.Engine
	Auth        *auth.AuthUseCase
	AuditQuery  *audit.QueryUseCase
	Departments *department.UseCase
}

// NewServices conecta los casos de uso a los repositorios.
func NewServices(s *Stores, cfg *config.Config, log *logger.Logger, clock ports.Clock) *Services {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	recorder := audit.NewRecorder(s.AuditLogs, clock, log.Component("audit"))
	engine := onboarding.New(onboarding.Deps{
		Persons:          s.Persons,
		Templates:        s.Templates,
		Directory:        department.NewResolver(s.Departments),
		Audit:            recorder,
		Codes:            employeecode.New(s.Persons, clock, cfg.Onboarding.EmployeeCodeMaxAttempts, log.Component("employeecode")),
		Projector:        readmodel.NewProjector(s.Users, s.Departments),
		Clock:            clock,
		Log:              log.Component("onboarding"),
		DocumentBasePath: cfg.Onboarding.DocumentBasePath,
	})
	return &Services{
		Engine: engine,
		Auth: auth.NewAuthUseCase(s.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, log),
		AuditQuery:  audit.NewQueryUseCase(s.AuditLogs, s.Users),
		Departments: department.NewUseCase(s.Departments, s.DepartmentTx, recorder, clock, log.Component("department")),
	}
}

// Seed carga departamentos, plantillas y usuarios demo en los repositorios.
func Seed(ctx context.Context, s *Stores, log *logger.Logger, password string, extra []bootstrap.UserSeed) (bootstrap.Result, error) {
	return bootstrap.Run(ctx, bootstrap.Options{
		Departments: s.Departments,
		Templates:   s.Templates,
		Users:       s.Users,
		Log:         log,
		Password:    password,
		ExtraUsers:  extra,
	})
}
