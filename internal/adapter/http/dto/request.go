package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name                 string `json:"name"                 validate:"required,max=255"`
	Code                 string `json:"code"                 validate:"required,max=32"`
	Currency             string `json:"currency"             validate:"required,len=3"`
	Description          string `json:"description"          validate:"max=500"`
	AllowNegativeBalance bool   `json:"allowNegativeBalance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:                 strings.TrimSpace(r.Name),
		Code:                 r.Code,
		Currency:             r.Currency,
		Description:          r.Description,
		AllowNegativeBalance: r.AllowNegativeBalance,
	}
}

// AddFundsRequest is the body of POST /accounts/{id}/add-funds. Amount
// accepts a JSON number or a decimal string.
type AddFundsRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty" validate:"max=500"`
	Reference   string          `json:"reference,omitempty"   validate:"max=128"`
}

// ToUseCaseInput converts to use case input.
func (r *AddFundsRequest) ToUseCaseInput(accountID string) usecase.AddFundsInput {
	return usecase.AddFundsInput{
		AccountID:   accountID,
		Amount:      r.Amount,
		Description: r.Description,
		Reference:   r.Reference,
	}
}

// PayeeRequest is the payee snapshot supplied when raising a payment.
type PayeeRequest struct {
	Name          string `json:"name"                    validate:"required,max=255"`
	Email         string `json:"email,omitempty"         validate:"omitempty,email"`
	BankName      string `json:"bankName,omitempty"      validate:"max=255"`
	AccountNumber string `json:"accountNumber,omitempty" validate:"max=64"`
}

// PaymentItemRequest is one line of a payment.
type PaymentItemRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitAmount  decimal.Decimal `json:"unitAmount"`
}

// CreatePaymentRequest represents a request to raise a payment.
type CreatePaymentRequest struct {
	PayerAccountID string               `json:"payerAccountId,omitempty"`
	Currency       string               `json:"currency"  validate:"required,len=3"`
	Reference      string               `json:"reference" validate:"max=128"`
	Payee          PayeeRequest         `json:"payee"`
	Items          []PaymentItemRequest `json:"items"     validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePaymentRequest) ToUseCaseInput() usecase.CreatePaymentInput {
	items := make([]usecase.PaymentItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = usecase.PaymentItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitAmount:  item.UnitAmount,
		}
	}

	return usecase.CreatePaymentInput{
		PayerAccountID: r.PayerAccountID,
		Currency:       r.Currency,
		Reference:      r.Reference,
		Payee: domain.PayeeSnapshot{
			Name:          r.Payee.Name,
			Email:         r.Payee.Email,
			BankName:      r.Payee.BankName,
			AccountNumber: r.Payee.AccountNumber,
		},
		Items: items,
	}
}
