package onboarding

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

var (
	mobilePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
	ifscPattern   = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	panPattern    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// Campos obligatorios para cerrar el KYC, en el orden en que se reportan.
var (
	requiredFinanceFields = []string{
		"bankName", "accountHolderName", "accountNumber", "ifscCode",
		"panNumber", "paymentMode", "salaryType", "salaryAmount",
	}
	requiredFinanceDocuments = []string{"bankProof", "panCard", "salaryStructure"}
)

func tooLong(s string, n int) bool { return utf8.RuneCountInString(s) > n }

func validMobile(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 10 && n <= 20 && mobilePattern.MatchString(s)
}

// normalizePerson limpia espacios y baja el email a minúsculas.
func normalizePerson(in *dto.CreatePersonRequest) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PrimaryMobile = strings.TrimSpace(in.PrimaryMobile)
	in.AlternateMobile = strings.TrimSpace(in.AlternateMobile)
	in.EmploymentType = strings.ToUpper(strings.TrimSpace(in.EmploymentType))
	in.Category = strings.ToUpper(strings.TrimSpace(in.Category))
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Experience = strings.TrimSpace(in.Experience)
	in.CurrentLocation = strings.TrimSpace(in.CurrentLocation)
	in.CVFile = strings.TrimSpace(in.CVFile)
	in.NDTCertificate = strings.TrimSpace(in.NDTCertificate)
}

// validatePersonFields formato de los campos de identidad y clasificación.
func validatePersonFields(in dto.CreatePersonRequest) error {
	var fe domain.FieldErrors
	switch {
	case in.FullName == "":
		fe.Add("fullName", "Full name is required")
	case tooLong(in.FullName, 200):
		fe.Add("fullName", "Full name cannot exceed 200 characters")
	}
	switch {
	case in.Email == "":
		fe.Add("email", "Email is required")
	case !govalidator.IsEmail(in.Email):
		fe.Add("email", "Please provide a valid email")
	}
	switch {
	case in.PrimaryMobile == "":
		fe.Add("primaryMobile", "Primary mobile is required")
	case !validMobile(in.PrimaryMobile):
		fe.Add("primaryMobile", "Please provide a valid mobile number")
	}
	if in.AlternateMobile != "" {
		switch {
		case !validMobile(in.AlternateMobile):
			fe.Add("alternateMobile", "Please provide a valid alternate mobile number")
		case in.AlternateMobile == in.PrimaryMobile:
			fe.Add("alternateMobile", "Alternate mobile must differ from primary mobile")
		}
	}
	if !entity.EmploymentType(in.EmploymentType).Valid() {
		fe.Add("employmentType", "Employment type must be FULL_TIME, CONTRACT or INTERN")
	}
	if !entity.Category(in.Category).Valid() {
		fe.Add("category", "Category must be MECHANICAL, ELECTRICAL, CIVIL, IT or OTHER")
	}
	if tooLong(in.CompanyName, 200) {
		fe.Add("companyName", "Company name cannot exceed 200 characters")
	}
	if tooLong(in.Experience, 100) {
		fe.Add("experience", "Experience cannot exceed 100 characters")
	}
	if tooLong(in.CurrentLocation, 200) {
		fe.Add("currentLocation", "Current location cannot exceed 200 characters")
	}
	for i, c := range in.QualificationCertificates {
		if strings.TrimSpace(c) == "" {
			fe.Add(fmt.Sprintf("qualificationCertificates[%d]", i), "Qualification certificate reference cannot be blank")
		}
	}
	return fe.Err()
}

// validateIntakeDocuments CV, certificados y NDT (obligatorio sólo para MECHANICAL).
func validateIntakeDocuments(in dto.CreatePersonRequest) *domain.Error {
	var missing []string
	var msgs []string
	if in.CVFile == "" {
		missing = append(missing, "cvFile")
		msgs = append(msgs, "CV file is required")
	}
	if len(in.QualificationCertificates) == 0 {
		missing = append(missing, "qualificationCertificates")
		msgs = append(msgs, "At least one qualification certificate is required")
	}
	if entity.Category(in.Category) == entity.CategoryMechanical && in.NDTCertificate == "" {
		missing = append(missing, "ndtCertificate")
		msgs = append(msgs, "NDT certificate is required for MECHANICAL category")
	}
	if len(missing) == 0 {
		return nil
	}
	return domain.Validation(strings.Join(msgs, "; "), nil, missing)
}

// applyFinancePatch aplica la actualización parcial sobre copias de los sub-registros
// y valida cada campo presente.
func applyFinancePatch(fd *entity.FinanceDetails, docs *entity.FinanceDocuments, in dto.UpdateFinanceRequest) ([]string, error) {
	var fe domain.FieldErrors
	var changed []string
	set := func(field string, dst *string, src *string, norm func(string) string, check func(string) string) {
		if src == nil {
			return
		}
		v := norm(*src)
		if v != "" && check != nil {
			if msg := check(v); msg != "" {
				fe.Add(field, msg)
				return
			}
		}
		*dst = v
		changed = append(changed, field)
	}
	trim := strings.TrimSpace
	upper := func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
	maxLen := func(n int, label string) func(string) string {
		return func(s string) string {
			if tooLong(s, n) {
				return fmt.Sprintf("%s cannot exceed %d characters", label, n)
			}
			return ""
		}
	}

	set("bankName", &fd.BankName, in.BankName, trim, maxLen(200, "Bank name"))
	set("accountHolderName", &fd.AccountHolderName, in.AccountHolderName, trim, maxLen(200, "Account holder name"))
	set("accountNumber", &fd.AccountNumber, in.AccountNumber, trim, func(s string) string {
		if tooLong(s, 50) || !govalidator.IsAlphanumeric(s) {
			return "Account number must be alphanumeric and at most 50 characters"
		}
		return ""
	})
	set("ifscCode", &fd.IFSCCode, in.IFSCCode, upper, func(s string) string {
		if !ifscPattern.MatchString(s) {
			return "Please provide a valid IFSC code"
		}
		return ""
	})
	set("panNumber", &fd.PANNumber, in.PANNumber, upper, func(s string) string {
		if !panPattern.MatchString(s) {
			return "Please provide a valid PAN number"
		}
		return ""
	})
	if in.PaymentMode != nil {
		v := entity.PaymentMode(upper(*in.PaymentMode))
		if v != "" && !v.Valid() {
			fe.Add("paymentMode", "Payment mode must be BANK_TRANSFER, CHEQUE or CASH")
		} else {
			fd.PaymentMode = v
			changed = append(changed, "paymentMode")
		}
	}
	if in.SalaryType != nil {
		v := entity.SalaryType(upper(*in.SalaryType))
		if v != "" && !v.Valid() {
			fe.Add("salaryType", "Salary type must be MONTHLY, DAILY or HOURLY")
		} else {
			fd.SalaryType = v
			changed = append(changed, "salaryType")
		}
	}
	if in.SalaryAmount != nil {
		if !in.SalaryAmount.IsPositive() {
			fe.Add("salaryAmount", "Salary amount must be greater than 0")
		} else {
			amt := *in.SalaryAmount
			fd.SalaryAmount = &amt
			changed = append(changed, "salaryAmount")
		}
	}
	set("financeRemarks", &fd.FinanceRemarks, in.FinanceRemarks, trim, maxLen(1000, "Finance remarks"))
	set("bankProof", &docs.BankProof, in.BankProof, trim, nil)
	set("panCard", &docs.PANCard, in.PANCard, trim, nil)
	set("salaryStructure", &docs.SalaryStructure, in.SalaryStructure, trim, nil)

	if err := fe.Err(); err != nil {
		return nil, err
	}
	return changed, nil
}

// missingFinance campos y documentos obligatorios ausentes (sub-registros nil cuentan
// como totalmente ausentes).
func missingFinance(fd *entity.FinanceDetails, docs *entity.FinanceDocuments) (fields, documents []string) {
	if fd == nil {
		fields = append(fields, requiredFinanceFields...)
	} else {
		values := map[string]bool{
			"bankName":          fd.BankName != "",
			"accountHolderName": fd.AccountHolderName != "",
			"accountNumber":     fd.AccountNumber != "",
			"ifscCode":          fd.IFSCCode != "",
			"panNumber":         fd.PANNumber != "",
			"paymentMode":       fd.PaymentMode != "",
			"salaryType":        fd.SalaryType != "",
			"salaryAmount":      fd.SalaryAmount != nil && fd.SalaryAmount.IsPositive(),
		}
		for _, f := range requiredFinanceFields {
			if !values[f] {
				fields = append(fields, f)
			}
		}
	}
	if docs == nil {
		documents = append(documents, requiredFinanceDocuments...)
	} else {
		values := map[string]bool{
			"bankProof":       docs.BankProof != "",
			"panCard":         docs.PANCard != "",
			"salaryStructure": docs.SalaryStructure != "",
		}
		for _, d := range requiredFinanceDocuments {
			if !values[d] {
				documents = append(documents, d)
			}
		}
	}
	return fields, documents
}
