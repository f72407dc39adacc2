package dto

import (
	"time"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// GenerateHRDocumentRequest generar carta oferta o declaración desde una plantilla.
type GenerateHRDocumentRequest struct {
	DocumentType string `json:"documentType"`
	TemplateID   string `json:"templateId"`
}

// UploadSignedHRDocumentRequest referencia del documento firmado.
type UploadSignedHRDocumentRequest struct {
	DocumentType string `json:"documentType"`
	SignedFile   string `json:"signedFile"`
}

// HRDocumentsResponse documentos de RR.HH. de una persona.
type HRDocumentsResponse struct {
	PersonID      string              `json:"personId"`
	FullName      string              `json:"fullName"`
	Email         string              `json:"email"`
	EmployeeCode  string              `json:"employeeCode,omitempty"`
	CurrentStatus entity.PersonStatus `json:"currentStatus"`
	OfferLetter   *entity.HRDocument  `json:"offerLetter"`
	Declaration   *entity.HRDocument  `json:"declaration"`
	HRCompleted   bool                `json:"hrCompleted"`
	HRCompletedAt *time.Time          `json:"hrCompletedAt,omitempty"`
}
