package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

var _ repository.PersonRepository = (*PersonRepo)(nil)

// PersonRepo implementación del puerto PersonRepository sobre PostgreSQL.
// Los sub-registros (historial, finanzas, documentos, RR.HH.) se guardan como JSONB;
// salary_amount va en su propia columna NUMERIC.
type PersonRepo struct {
	db DBTX
}

// NewPersonRepository construye el adaptador de persistencia para personas.
func NewPersonRepository(db DBTX) *PersonRepo {
	return &PersonRepo{db: db}
}

const personColumns = `id, full_name, email, primary_mobile, COALESCE(alternate_mobile, ''), employment_type,
	COALESCE(company_name, ''), category, COALESCE(experience, ''), COALESCE(current_location, ''), cv_file,
	qualification_certificates, COALESCE(ndt_certificate, ''), owning_department_id, current_status,
	status_history, finance_details, salary_amount, finance_documents, COALESCE(employee_code, ''),
	employee_code_assigned_at, COALESCE(employee_code_assigned_by::text, ''), hr_details, created_by,
	is_active, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*entity.Person, error) {
	var (
		p                            entity.Person
		history, fin, docs, hr       []byte
		salary                       decimal.NullDecimal
		employeeCodeAt               sql.NullTime
		status, employment, category string
	)
	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.PrimaryMobile, &p.AlternateMobile, &employment,
		&p.CompanyName, &category, &p.Experience, &p.CurrentLocation, &p.CVFile,
		&p.QualificationCertificates, &p.NDTCertificate, &p.OwningDepartmentID, &status,
		&history, &fin, &salary, &docs, &p.EmployeeCode,
		&employeeCodeAt, &p.EmployeeCodeAssignedBy, &hr, &p.CreatedBy,
		&p.IsActive, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.EmploymentType = entity.EmploymentType(employment)
	p.Category = entity.Category(category)
	p.CurrentStatus = entity.PersonStatus(status)
	if employeeCodeAt.Valid {
		at := employeeCodeAt.Time
		p.EmployeeCodeAssignedAt = &at
	}

	if err := unmarshalOptional(history, &p.StatusHistory); err != nil {
		return nil, fmt.Errorf("decodificar status_history: %w", err)
	}
	if len(fin) > 0 {
		p.FinanceDetails = &entity.FinanceDetails{}
		if err := json.Unmarshal(fin, p.FinanceDetails); err != nil {
			return nil, fmt.Errorf("decodificar finance_details: %w", err)
		}
		if salary.Valid {
			amt := salary.Decimal
			p.FinanceDetails.SalaryAmount = &amt
		}
	}
	if len(docs) > 0 {
		p.FinanceDocuments = &entity.FinanceDocuments{}
		if err := json.Unmarshal(docs, p.FinanceDocuments); err != nil {
			return nil, fmt.Errorf("decodificar finance_documents: %w", err)
		}
	}
	if len(hr) > 0 {
		p.HRDetails = &entity.HRDetails{}
		if err := json.Unmarshal(hr, p.HRDetails); err != nil {
			return nil, fmt.Errorf("decodificar hr_details: %w", err)
		}
	}
	return &p, nil
}

func unmarshalOptional(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// personDocs columnas derivadas de los sub-registros, listas para escribir.
type personDocs struct {
	history []byte
	fin     []byte
	salary  decimal.NullDecimal
	docs    []byte
	hr      []byte
}

func encodePersonDocs(p *entity.Person) (personDocs, error) {
	var out personDocs
	history := p.StatusHistory
	if history == nil {
		history = []entity.StatusChange{}
	}
	var err error
	if out.history, err = json.Marshal(history); err != nil {
		return out, fmt.Errorf("codificar status_history: %w", err)
	}
	if p.FinanceDetails != nil {
		fd := *p.FinanceDetails
		if fd.SalaryAmount != nil {
			out.salary = decimal.NullDecimal{Decimal: *fd.SalaryAmount, Valid: true}
		}
		fd.SalaryAmount = nil
		if out.fin, err = json.Marshal(fd); err != nil {
			return out, fmt.Errorf("codificar finance_details: %w", err)
		}
	}
	if p.FinanceDocuments != nil {
		if out.docs, err = json.Marshal(p.FinanceDocuments); err != nil {
			return out, fmt.Errorf("codificar finance_documents: %w", err)
		}
	}
	if p.HRDetails != nil {
		if out.hr, err = json.Marshal(p.HRDetails); err != nil {
			return out, fmt.Errorf("codificar hr_details: %w", err)
		}
	}
	return out, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserta la persona con versión 1.
func (r *PersonRepo) Create(ctx context.Context, p *entity.Person) error {
	d, err := encodePersonDocs(p)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO persons (id, full_name, email, primary_mobile, alternate_mobile, employment_type,
			company_name, category, experience, current_location, cv_file, qualification_certificates,
			ndt_certificate, owning_department_id, current_status, status_history, finance_details,
			salary_amount, finance_documents, employee_code, employee_code_assigned_at,
			employee_code_assigned_by, hr_details, created_by, is_active, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25, 1, $26, $27)`
	_, err = r.db.Exec(ctx, query,
		p.ID, p.FullName, strings.ToLower(p.Email), p.PrimaryMobile, nullString(p.AlternateMobile),
		string(p.EmploymentType), nullString(p.CompanyName), string(p.Category), nullString(p.Experience),
		nullString(p.CurrentLocation), p.CVFile, p.QualificationCertificates, nullString(p.NDTCertificate),
		p.OwningDepartmentID, string(p.CurrentStatus), d.history, d.fin, d.salary, d.docs,
		nullString(p.EmployeeCode), p.EmployeeCodeAssignedAt, nullString(p.EmployeeCodeAssignedBy), d.hr,
		p.CreatedBy, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("insert person: %w", err)
	}
	p.Version = 1
	return nil
}

// UpdateIfStatus escritura condicional por estado y versión. Un código de empleado ya
// persistido no puede cambiar.
func (r *PersonRepo) UpdateIfStatus(ctx context.Context, p *entity.Person, expected entity.PersonStatus) error {
	d, err := encodePersonDocs(p)
	if err != nil {
		return err
	}
	query := `
		UPDATE persons SET
			full_name = $4, alternate_mobile = $5, company_name = $6, experience = $7,
			current_location = $8, owning_department_id = $9, current_status = $10,
			status_history = $11, finance_details = $12, salary_amount = $13, finance_documents = $14,
			employee_code = $15, employee_code_assigned_at = $16, employee_code_assigned_by = $17,
			hr_details = $18, is_active = $19, updated_at = $20, version = version + 1
		WHERE id = $1 AND current_status = $2 AND version = $3
			AND (employee_code IS NULL OR employee_code = $15)`
	tag, err := r.db.Exec(ctx, query,
		p.ID, string(expected), p.Version,
		p.FullName, nullString(p.AlternateMobile), nullString(p.CompanyName), nullString(p.Experience),
		nullString(p.CurrentLocation), p.OwningDepartmentID, string(p.CurrentStatus),
		d.history, d.fin, d.salary, d.docs,
		nullString(p.EmployeeCode), p.EmployeeCodeAssignedAt, nullString(p.EmployeeCodeAssignedBy),
		d.hr, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		if isEmployeeCodeLocked(err) {
			return repository.ErrStaleWrite
		}
		return fmt.Errorf("update person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrStaleWrite
	}
	p.Version++
	return nil
}

func (r *PersonRepo) getOne(ctx context.Context, where string, arg any) (*entity.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE ` + where
	p, err := scanPerson(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

// GetByID obtiene una persona por ID.
func (r *PersonRepo) GetByID(ctx context.Context, id string) (*entity.Person, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail sin distinguir mayúsculas.
func (r *PersonRepo) GetByEmail(ctx context.Context, email string) (*entity.Person, error) {
	return r.getOne(ctx, "lower(email) = lower($1)", email)
}

// GetByPrimaryMobile coincidencia exacta.
func (r *PersonRepo) GetByPrimaryMobile(ctx context.Context, mobile string) (*entity.Person, error) {
	return r.getOne(ctx, "primary_mobile = $1", mobile)
}

// List filtra y pagina, más reciente primero. Devuelve también el total sin paginar.
func (r *PersonRepo) List(ctx context.Context, f repository.PersonFilter) ([]*entity.Person, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("current_status = $%d", string(f.Status))
	}
	if f.Category != "" {
		add("category = $%d", string(f.Category))
	}
	if f.OwningDepartmentID != "" {
		add("owning_department_id = $%d", f.OwningDepartmentID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM persons`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count persons: %w", err)
	}

	query := `SELECT ` + personColumns + ` FROM persons` + where + ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()
	var list []*entity.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan person: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// LatestEmployeeCode mayor código con el prefijo; los códigos tienen ancho fijo, así que
// el máximo lexicográfico es el de mayor secuencia.
func (r *PersonRepo) LatestEmployeeCode(ctx context.Context, prefix string) (string, error) {
	var code string
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(max(employee_code), '') FROM persons WHERE employee_code LIKE $1`,
		prefix+"%",
	).Scan(&code)
	if err != nil {
		return "", fmt.Errorf("latest employee code: %w", err)
	}
	return code, nil
}

// EmployeeCodeExists informa si el código ya está asignado.
func (r *PersonRepo) EmployeeCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM persons WHERE employee_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("employee code exists: %w", err)
	}
	return exists, nil
}
