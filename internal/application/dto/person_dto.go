package dto

import (
	"time"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// CreatePersonRequest entrada de Operación para registrar una persona.
type CreatePersonRequest struct {
	FullName                  string   `json:"fullName"`
	Email                     string   `json:"email"`
	PrimaryMobile             string   `json:"primaryMobile"`
	AlternateMobile           string   `json:"alternateMobile,omitempty"`
	EmploymentType            string   `json:"employmentType"`
	CompanyName               string   `json:"companyName,omitempty"`
	Category                  string   `json:"category"`
	Experience                string   `json:"experience,omitempty"`
	CurrentLocation           string   `json:"currentLocation,omitempty"`
	CVFile                    string   `json:"cvFile"`
	QualificationCertificates []string `json:"qualificationCertificates"`
	NDTCertificate            string   `json:"ndtCertificate,omitempty"`
}

// PersonFilterRequest filtros de GET /persons.
type PersonFilterRequest struct {
	Status           string `query:"status"`
	Category         string `query:"category"`
	OwningDepartment string `query:"owningDepartment"`
	PageRequest
}

// UserRef usuario embebido en proyecciones.
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// DepartmentRef departamento embebido en proyecciones.
type DepartmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

// StatusChangeResponse entrada hidratada del historial.
type StatusChangeResponse struct {
	Status    entity.PersonStatus `json:"status"`
	ChangedBy UserRef             `json:"changedBy"`
	ChangedAt time.Time           `json:"changedAt"`
}

// PersonResponse proyección de lectura de una persona.
type PersonResponse struct {
	ID                        string                   `json:"id"`
	FullName                  string                   `json:"fullName"`
	Email                     string                   `json:"email"`
	PrimaryMobile             string                   `json:"primaryMobile"`
	AlternateMobile           string                   `json:"alternateMobile,omitempty"`
	EmploymentType            entity.EmploymentType    `json:"employmentType"`
	CompanyName               string                   `json:"companyName,omitempty"`
	Category                  entity.Category          `json:"category"`
	Experience                string                   `json:"experience,omitempty"`
	CurrentLocation           string                   `json:"currentLocation,omitempty"`
	CVFile                    string                   `json:"cvFile"`
	QualificationCertificates []string                 `json:"qualificationCertificates"`
	NDTCertificate            string                   `json:"ndtCertificate,omitempty"`
	OwningDepartment          DepartmentRef            `json:"owningDepartment"`
	CurrentStatus             entity.PersonStatus      `json:"currentStatus"`
	StatusHistory             []StatusChangeResponse   `json:"statusHistory"`
	FinanceDetails            *entity.FinanceDetails   `json:"financeDetails,omitempty"`
	FinanceDocuments          *entity.FinanceDocuments `json:"financeDocuments,omitempty"`
	EmployeeCode              string                   `json:"employeeCode,omitempty"`
	EmployeeCodeAssignedAt    *time.Time               `json:"employeeCodeAssignedAt,omitempty"`
	EmployeeCodeAssignedBy    *UserRef                 `json:"employeeCodeAssignedBy,omitempty"`
	HRDetails                 *entity.HRDetails        `json:"hrDetails,omitempty"`
	CreatedBy                 UserRef                  `json:"createdBy"`
	IsActive                  bool                     `json:"isActive"`
	CreatedAt                 time.Time                `json:"createdAt"`
	UpdatedAt                 time.Time                `json:"updatedAt"`
}

// PersonListResponse página de personas.
type PersonListResponse struct {
	Items []PersonResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
