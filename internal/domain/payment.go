package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusDraft           PaymentStatus = "draft"
	PaymentStatusPendingApproval PaymentStatus = "pending_approval"
	PaymentStatusApproved        PaymentStatus = "approved"
	PaymentStatusScheduled       PaymentStatus = "scheduled"
	PaymentStatusPartiallyPaid   PaymentStatus = "partially_paid"
	PaymentStatusPaid            PaymentStatus = "paid"
	PaymentStatusVoided          PaymentStatus = "voided"
)

// Payment is a payable obligation, optionally tied to a payer account.
type Payment struct {
	ID             string
	PayerAccountID *string
	TotalAmount    decimal.Decimal
	Currency       string
	Status         PaymentStatus
	Reference      string
	Payee          PayeeSnapshot
	Items          []PaymentItem
	Approvals      []PaymentApproval
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PayeeSnapshot is the payee as it was when the payment was raised.
type PayeeSnapshot struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// PaymentItem is one line of a payment.
type PaymentItem struct {
	ID          string
	PaymentID   string
	Description string
	Quantity    decimal.Decimal
	UnitAmount  decimal.Decimal
	Amount      decimal.Decimal
	Position    int
}

// PaymentApproval records one approval level decision.
type PaymentApproval struct {
	ID           string
	PaymentID    string
	Level        int
	ApproverID   string
	ApproverName string
	Status       string
	Comment      string
	DecidedAt    *time.Time
	CreatedAt    time.Time
}

// CheckProcessable returns the reason a payment cannot be settled, if any.
// Checks run in the order callers observe them.
func (p *Payment) CheckProcessable() error {
	if p.Status == PaymentStatusPaid {
		return ErrPaymentAlreadyPaid
	}

	if p.Status == PaymentStatusVoided {
		return ErrPaymentVoided
	}

	if p.PayerAccountID == nil || *p.PayerAccountID == "" {
		return ErrPaymentPayerMissing
	}

	return nil
}

// SumItems computes item amounts and returns the payment total.
func SumItems(items []PaymentItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		items[i].Amount = items[i].Quantity.Mul(items[i].UnitAmount).Round(CurrencyPrecision)
		total = total.Add(items[i].Amount)
	}
	return total
}
