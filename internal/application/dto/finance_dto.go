package dto

import "github.com/shopspring/decimal"

// UpdateFinanceRequest actualización parcial de KYC: nil = sin cambio, "" = borrar.
// SalaryAmount sólo admite reemplazo.
type UpdateFinanceRequest struct {
	BankName          *string          `json:"bankName"`
	AccountHolderName *string          `json:"accountHolderName"`
	AccountNumber     *string          `json:"accountNumber"`
	IFSCCode          *string          `json:"ifscCode"`
	PANNumber         *string          `json:"panNumber"`
	PaymentMode       *string          `json:"paymentMode"`
	SalaryType        *string          `json:"salaryType"`
	SalaryAmount      *decimal.Decimal `json:"salaryAmount"`
	FinanceRemarks    *string          `json:"financeRemarks"`
	BankProof         *string          `json:"bankProof"`
	PANCard           *string          `json:"panCard"`
	SalaryStructure   *string          `json:"salaryStructure"`
}

// Empty informa si la petición no trae ningún campo.
func (r UpdateFinanceRequest) Empty() bool {
	return r.BankName == nil && r.AccountHolderName == nil && r.AccountNumber == nil &&
		r.IFSCCode == nil && r.PANNumber == nil && r.PaymentMode == nil &&
		r.SalaryType == nil && r.SalaryAmount == nil && r.FinanceRemarks == nil &&
		r.BankProof == nil && r.PANCard == nil && r.SalaryStructure == nil
}
