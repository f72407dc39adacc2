// Package memory implementa los puertos de persistencia en memoria con las mismas
// garantías que PostgreSQL: índices únicos y escritura condicional por estado y versión.
// Se usa en pruebas y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

var (
	_ repository.PersonRepository     = (*Store)(nil)
	_ repository.DepartmentRepository = (*Departments)(nil)
	_ repository.AuditLogRepository   = (*AuditLogs)(nil)
	_ repository.TemplateRepository   = (*Templates)(nil)
	_ repository.UserRepository       = (*Users)(nil)
)

// folded clave de comparación sin mayúsculas. Un Caser tiene estado: uno por llamada.
func folded(s string) string { return cases.Fold().String(s) }

// Store repositorio de personas thread-safe. Guarda copias profundas.
type Store struct {
	mu      sync.RWMutex
	persons map[string]*entity.Person
	order   []string // orden de inserción
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{persons: make(map[string]*entity.Person)}
}

// Create inserta validando los índices únicos.
func (s *Store) Create(_ context.Context, p *entity.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(p); err != nil {
		return err
	}
	c := p.Clone()
	c.Version = 1
	p.Version = 1
	s.persons[c.ID] = c
	s.order = append(s.order, c.ID)
	return nil
}

// checkUnique recorre en orden de inserción y revisa email, luego móvil, luego código.
func (s *Store) checkUnique(p *entity.Person) error {
	email := folded(p.Email)
	checks := []struct {
		field string
		clash func(other *entity.Person) bool
	}{
		{repository.FieldEmail, func(o *entity.Person) bool { return folded(o.Email) == email }},
		{repository.FieldPrimaryMobile, func(o *entity.Person) bool { return o.PrimaryMobile == p.PrimaryMobile }},
		{repository.FieldEmployeeCode, func(o *entity.Person) bool { return p.EmployeeCode != "" && o.EmployeeCode == p.EmployeeCode }},
	}
	for _, c := range checks {
		for _, id := range s.order {
			if id == p.ID {
				continue
			}
			if c.clash(s.persons[id]) {
				return &repository.DuplicateError{Field: c.field}
			}
		}
	}
	return nil
}

// GetByID devuelve una copia o nil si no existe.
func (s *Store) GetByID(_ context.Context, id string) (*entity.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persons[id].Clone(), nil
}

// GetByEmail busca sin distinguir mayúsculas.
func (s *Store) GetByEmail(_ context.Context, email string) (*entity.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := folded(email)
	for _, p := range s.persons {
		if folded(p.Email) == want {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

// GetByPrimaryMobile busca por móvil principal exacto.
func (s *Store) GetByPrimaryMobile(_ context.Context, mobile string) (*entity.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.persons {
		if p.PrimaryMobile == mobile {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

// UpdateIfStatus reemplaza la persona si estado y versión coinciden.
func (s *Store) UpdateIfStatus(_ context.Context, p *entity.Person, expected entity.PersonStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.persons[p.ID]
	if !ok || current.CurrentStatus != expected || current.Version != p.Version {
		return repository.ErrStaleWrite
	}
	if current.EmployeeCode != "" && current.EmployeeCode != p.EmployeeCode {
		// el código es inmutable una vez persistido
		return repository.ErrStaleWrite
	}
	if err := s.checkUnique(p); err != nil {
		return err
	}
	c := p.Clone()
	c.Version = current.Version + 1
	s.persons[c.ID] = c
	p.Version = c.Version
	return nil
}

// List filtra y pagina, más recientes primero.
func (s *Store) List(_ context.Context, f repository.PersonFilter) ([]*entity.Person, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*entity.Person
	for i := len(s.order) - 1; i >= 0; i-- {
		p := s.persons[s.order[i]]
		if f.Status != "" && p.CurrentStatus != f.Status {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.OwningDepartmentID != "" && p.OwningDepartmentID != f.OwningDepartmentID {
			continue
		}
		matched = append(matched, p)
	}
	total := len(matched)
	out := make([]*entity.Person, 0, f.Limit)
	for i := f.Offset; i < total && len(out) < f.Limit; i++ {
		out = append(out, matched[i].Clone())
	}
	return out, total, nil
}

// LatestEmployeeCode mayor código (orden lexicográfico) con el prefijo.
func (s *Store) LatestEmployeeCode(_ context.Context, prefix string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	latest := ""
	for _, p := range s.persons {
		if strings.HasPrefix(p.EmployeeCode, prefix) && p.EmployeeCode > latest {
			latest = p.EmployeeCode
		}
	}
	return latest, nil
}

// EmployeeCodeExists informa si algún registro ya tiene el código.
func (s *Store) EmployeeCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.persons {
		if p.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

// Departments repositorio de departamentos en memoria.
type Departments struct {
	mu   sync.RWMutex
	byID map[string]*entity.Department
}

// NewDepartments crea el repositorio, opcionalmente con filas iniciales.
func NewDepartments(initial ...*entity.Department) *Departments {
	d := &Departments{byID: make(map[string]*entity.Department)}
	for _, dep := range initial {
		c := *dep
		d.byID[c.ID] = &c
	}
	return d
}

// Create inserta; nombre y código son únicos.
func (d *Departments) Create(_ context.Context, dep *entity.Department) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, other := range d.byID {
		if other.Code == dep.Code {
			return &repository.DuplicateError{Field: "code"}
		}
		if folded(other.Name) == folded(dep.Name) {
			return &repository.DuplicateError{Field: "name"}
		}
	}
	c := *dep
	d.byID[c.ID] = &c
	return nil
}

// GetByID devuelve una copia o nil.
func (d *Departments) GetByID(_ context.Context, id string) (*entity.Department, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dep, ok := d.byID[id]
	if !ok {
		return nil, nil
	}
	c := *dep
	return &c, nil
}

// FindByCodeOrName código exacto o nombre con case folding Unicode.
func (d *Departments) FindByCodeOrName(_ context.Context, code, name string) (*entity.Department, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	want := folded(name)
	var deps []*entity.Department
	for _, dep := range d.byID {
		deps = append(deps, dep)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].CreatedAt.Before(deps[j].CreatedAt) })
	for _, dep := range deps {
		if dep.Code == code || (name != "" && folded(dep.Name) == want) {
			c := *dep
			return &c, nil
		}
	}
	return nil, nil
}

// List ordenado por nombre.
func (d *Departments) List(_ context.Context) ([]*entity.Department, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*entity.Department, 0, len(d.byID))
	for _, dep := range d.byID {
		c := *dep
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update reemplaza la fila.
func (d *Departments) Update(_ context.Context, dep *entity.Department) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[dep.ID]; !ok {
		return nil
	}
	c := *dep
	d.byID[c.ID] = &c
	return nil
}

// AuditLogs repositorio append-only en memoria.
type AuditLogs struct {
	mu   sync.RWMutex
	logs []*entity.AuditLog
}

// NewAuditLogs crea el repositorio vacío.
func NewAuditLogs() *AuditLogs { return &AuditLogs{} }

// Append agrega el registro.
func (a *AuditLogs) Append(_ context.Context, log *entity.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	c := *log
	a.logs = append(a.logs, &c)
	return nil
}

// List filtra y pagina, más recientes primero.
func (a *AuditLogs) List(_ context.Context, f repository.AuditLogFilter) ([]*entity.AuditLog, int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var matched []*entity.AuditLog
	for i := len(a.logs) - 1; i >= 0; i-- {
		l := a.logs[i]
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.TargetEntity != "" && l.TargetEntity != f.TargetEntity {
			continue
		}
		if f.TargetID != "" && l.TargetID != f.TargetID {
			continue
		}
		if f.PerformedBy != "" && l.PerformedBy != f.PerformedBy {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && l.CreatedAt.After(*f.To) {
			continue
		}
		matched = append(matched, l)
	}
	total := len(matched)
	limit := f.Limit
	if limit <= 0 {
		limit = total
	}
	out := make([]*entity.AuditLog, 0)
	for i := f.Offset; i < total && len(out) < limit; i++ {
		c := *matched[i]
		out = append(out, &c)
	}
	return out, total, nil
}

// All devuelve todos los registros en orden de inserción (útil en pruebas).
func (a *AuditLogs) All() []*entity.AuditLog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*entity.AuditLog, len(a.logs))
	for i, l := range a.logs {
		c := *l
		out[i] = &c
	}
	return out
}

// Templates repositorio de plantillas en memoria.
type Templates struct {
	mu   sync.RWMutex
	byID map[string]*entity.Template
}

// NewTemplates crea el repositorio con filas iniciales.
func NewTemplates(initial ...*entity.Template) *Templates {
	t := &Templates{byID: make(map[string]*entity.Template)}
	for _, tpl := range initial {
		c := *tpl
		t.byID[c.ID] = &c
	}
	return t
}

// Create inserta la plantilla.
func (t *Templates) Create(_ context.Context, tpl *entity.Template) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := *tpl
	t.byID[c.ID] = &c
	return nil
}

// GetByID devuelve una copia o nil.
func (t *Templates) GetByID(_ context.Context, id string) (*entity.Template, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tpl, ok := t.byID[id]
	if !ok {
		return nil, nil
	}
	c := *tpl
	return &c, nil
}

// FindPublishedByType primera plantilla publicada y activa del tipo.
func (t *Templates) FindPublishedByType(_ context.Context, typ entity.HRDocumentType) (*entity.Template, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, tpl := range t.byID {
		if tpl.Type == typ && tpl.IsPublished && tpl.IsActive {
			c := *tpl
			return &c, nil
		}
	}
	return nil, nil
}

// Users repositorio de usuarios en memoria.
type Users struct {
	mu   sync.RWMutex
	byID map[string]*entity.User
}

// NewUsers crea el repositorio con filas iniciales.
func NewUsers(initial ...*entity.User) *Users {
	u := &Users{byID: make(map[string]*entity.User)}
	for _, usr := range initial {
		c := *usr
		u.byID[c.ID] = &c
	}
	return u
}

// Create inserta; el email es único sin distinguir mayúsculas.
func (u *Users) Create(_ context.Context, usr *entity.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, other := range u.byID {
		if folded(other.Email) == folded(usr.Email) {
			return &repository.DuplicateError{Field: repository.FieldEmail}
		}
	}
	c := *usr
	c.Permissions = append([]string(nil), usr.Permissions...)
	u.byID[c.ID] = &c
	return nil
}

// GetByID devuelve una copia o nil.
func (u *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	usr, ok := u.byID[id]
	if !ok {
		return nil, nil
	}
	c := *usr
	return &c, nil
}

// GetByEmail busca sin distinguir mayúsculas.
func (u *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, usr := range u.byID {
		if folded(usr.Email) == folded(email) {
			c := *usr
			return &c, nil
		}
	}
	return nil, nil
}

// ListByIDs devuelve los usuarios encontrados (ignora ids inexistentes).
func (u *Users) ListByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if usr, ok := u.byID[id]; ok {
			c := *usr
			out = append(out, &c)
		}
	}
	return out, nil
}

// CountActiveByDepartment cuenta usuarios activos del departamento.
func (u *Users) CountActiveByDepartment(_ context.Context, departmentID string) (int, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	n := 0
	for _, usr := range u.byID {
		if usr.DepartmentID == departmentID && usr.IsActive {
			n++
		}
	}
	return n, nil
}
