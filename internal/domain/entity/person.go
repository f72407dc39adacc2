package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PersonStatus estados del flujo de incorporación (orden terminal fijo).
type PersonStatus string

const (
	StatusOperationStageA      PersonStatus = "OPERATION_STAGE_A"
	StatusFinanceStage         PersonStatus = "FINANCE_STAGE"
	StatusFinanceCompleted     PersonStatus = "FINANCE_COMPLETED"
	StatusEmployeeCodeAssigned PersonStatus = "EMPLOYEE_CODE_ASSIGNED"
	StatusHRStage              PersonStatus = "HR_STAGE"
	StatusHRCompleted          PersonStatus = "HR_COMPLETED"
)

// EmploymentType tipo de vinculación.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentContract EmploymentType = "CONTRACT"
	EmploymentIntern   EmploymentType = "INTERN"
)

// Valid informa si el tipo pertenece al enum cerrado.
func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentContract, EmploymentIntern:
		return true
	}
	return false
}

// Category área técnica de la persona. MECHANICAL exige certificado NDT.
type Category string

const (
	CategoryMechanical Category = "MECHANICAL"
	CategoryElectrical Category = "ELECTRICAL"
	CategoryCivil      Category = "CIVIL"
	CategoryIT         Category = "IT"
	CategoryOther      Category = "OTHER"
)

// Valid informa si la categoría pertenece al enum cerrado.
func (c Category) Valid() bool {
	switch c {
	case CategoryMechanical, CategoryElectrical, CategoryCivil, CategoryIT, CategoryOther:
		return true
	}
	return false
}

// PaymentMode forma de pago de nómina.
type PaymentMode string

const (
	PaymentBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentCheque       PaymentMode = "CHEQUE"
	PaymentCash         PaymentMode = "CASH"
)

// Valid informa si el modo pertenece al enum cerrado.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentBankTransfer, PaymentCheque, PaymentCash:
		return true
	}
	return false
}

// SalaryType periodicidad del salario.
type SalaryType string

const (
	SalaryMonthly SalaryType = "MONTHLY"
	SalaryDaily   SalaryType = "DAILY"
	SalaryHourly  SalaryType = "HOURLY"
)

// Valid informa si el tipo pertenece al enum cerrado.
func (s SalaryType) Valid() bool {
	switch s {
	case SalaryMonthly, SalaryDaily, SalaryHourly:
		return true
	}
	return false
}

// StatusChange entrada del historial de estados (append-only).
type StatusChange struct {
	Status    PersonStatus `json:"status"`
	ChangedBy string       `json:"changedBy"`
	ChangedAt time.Time    `json:"changedAt"`
}

// FinanceDetails datos KYC capturados por Finanzas. Nil hasta la etapa de Finanzas.
type FinanceDetails struct {
	BankName          string           `json:"bankName,omitempty"`
	AccountHolderName string           `json:"accountHolderName,omitempty"`
	AccountNumber     string           `json:"accountNumber,omitempty"`
	IFSCCode          string           `json:"ifscCode,omitempty"`
	PANNumber         string           `json:"panNumber,omitempty"`
	PaymentMode       PaymentMode      `json:"paymentMode,omitempty"`
	SalaryType        SalaryType       `json:"salaryType,omitempty"`
	SalaryAmount      *decimal.Decimal `json:"salaryAmount,omitempty"`
	FinanceRemarks    string           `json:"financeRemarks,omitempty"`
	KYCCompleted      bool             `json:"kycCompleted"`
	CompletedAt       *time.Time       `json:"completedAt,omitempty"`
}

// FinanceDocuments referencias opacas a los documentos de Finanzas.
type FinanceDocuments struct {
	BankProof       string `json:"bankProof,omitempty"`
	PANCard         string `json:"panCard,omitempty"`
	SalaryStructure string `json:"salaryStructure,omitempty"`
}

// HRDocumentType tipo de documento de RR.HH. (coincide con Template.Type).
type HRDocumentType string

const (
	DocOfferLetter HRDocumentType = "OFFER_LETTER"
	DocDeclaration HRDocumentType = "DECLARATION"
)

// Valid informa si el tipo pertenece al enum cerrado.
func (t HRDocumentType) Valid() bool {
	return t == DocOfferLetter || t == DocDeclaration
}

// HRDocumentStatus estado de un slot de documento.
type HRDocumentStatus string

const (
	HRDocGenerated HRDocumentStatus = "GENERATED"
	HRDocSigned    HRDocumentStatus = "SIGNED"
)

// HRDocument slot de documento (carta oferta o declaración).
type HRDocument struct {
	TemplateID    string           `json:"templateId,omitempty"`
	GeneratedFile string           `json:"generatedFile,omitempty"`
	Status        HRDocumentStatus `json:"status,omitempty"`
	GeneratedAt   *time.Time       `json:"generatedAt,omitempty"`
	SignedFile    string           `json:"signedFile,omitempty"`
	SignedAt      *time.Time       `json:"signedAt,omitempty"`
}

// HRDetails sub-registro de RR.HH. Nil hasta la primera acción de RR.HH.
type HRDetails struct {
	OfferLetter   *HRDocument `json:"offerLetter,omitempty"`
	Declaration   *HRDocument `json:"declaration,omitempty"`
	HRCompleted   bool        `json:"hrCompleted"`
	HRCompletedAt *time.Time  `json:"hrCompletedAt,omitempty"`
}

// Slot devuelve el documento para el tipo, creándolo si no existe.
func (h *HRDetails) Slot(t HRDocumentType) *HRDocument {
	switch t {
	case DocOfferLetter:
		if h.OfferLetter == nil {
			h.OfferLetter = &HRDocument{}
		}
		return h.OfferLetter
	default:
		if h.Declaration == nil {
			h.Declaration = &HRDocument{}
		}
		return h.Declaration
	}
}

// Person sujeto del flujo de incorporación Operación → Finanzas → RR.HH.
type Person struct {
	ID                        string
	FullName                  string
	Email                     string // siempre en minúsculas
	PrimaryMobile             string
	AlternateMobile           string
	EmploymentType            EmploymentType
	CompanyName               string
	Category                  Category
	Experience                string
	CurrentLocation           string
	CVFile                    string
	QualificationCertificates []string
	NDTCertificate            string // sólo para MECHANICAL
	OwningDepartmentID        string
	CurrentStatus             PersonStatus
	StatusHistory             []StatusChange
	FinanceDetails            *FinanceDetails
	FinanceDocuments          *FinanceDocuments
	EmployeeCode              string
	EmployeeCodeAssignedAt    *time.Time
	EmployeeCodeAssignedBy    string
	HRDetails                 *HRDetails
	CreatedBy                 string
	IsActive                  bool
	Version                   int // control optimista; lo incrementa el repositorio
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// AppendStatus cambia el estado actual y agrega la entrada al historial.
func (p *Person) AppendStatus(status PersonStatus, by string, at time.Time) {
	p.CurrentStatus = status
	p.StatusHistory = append(p.StatusHistory, StatusChange{Status: status, ChangedBy: by, ChangedAt: at})
}

// KYCCompleted informa si Finanzas cerró el KYC.
func (p *Person) KYCCompleted() bool {
	return p.FinanceDetails != nil && p.FinanceDetails.KYCCompleted
}

// HRCompleted informa si RR.HH. cerró el proceso.
func (p *Person) HRCompleted() bool {
	return p.HRDetails != nil && p.HRDetails.HRCompleted
}

// Clone copia profunda; los stores la usan para que nadie mute su estado interno.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	c.QualificationCertificates = append([]string(nil), p.QualificationCertificates...)
	c.StatusHistory = append([]StatusChange(nil), p.StatusHistory...)
	c.EmployeeCodeAssignedAt = cloneTime(p.EmployeeCodeAssignedAt)
	if p.FinanceDetails != nil {
		fd := *p.FinanceDetails
		if p.FinanceDetails.SalaryAmount != nil {
			amt := *p.FinanceDetails.SalaryAmount
			fd.SalaryAmount = &amt
		}
		fd.CompletedAt = cloneTime(p.FinanceDetails.CompletedAt)
		c.FinanceDetails = &fd
	}
	if p.FinanceDocuments != nil {
		docs := *p.FinanceDocuments
		c.FinanceDocuments = &docs
	}
	if p.HRDetails != nil {
		hr := *p.HRDetails
		hr.OfferLetter = cloneHRDocument(p.HRDetails.OfferLetter)
		hr.Declaration = cloneHRDocument(p.HRDetails.Declaration)
		hr.HRCompletedAt = cloneTime(p.HRDetails.HRCompletedAt)
		c.HRDetails = &hr
	}
	return &c
}

func cloneHRDocument(d *HRDocument) *HRDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.GeneratedAt = cloneTime(d.GeneratedAt)
	c.SignedAt = cloneTime(d.SignedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
