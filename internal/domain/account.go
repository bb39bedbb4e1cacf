package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a named ledger account holding a balance in one currency.
type Account struct {
	ID                   string
	Name                 string
	Code                 string
	Currency             string
	Balance              decimal.Decimal
	Version              int64
	AllowNegativeBalance bool
	IsActive             bool
	Description          string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ValidateDeposit checks the account can receive funds.
func (a *Account) ValidateDeposit() error {
	if !a.IsActive {
		return fmt.Errorf("%w: cannot add funds to inactive account", ErrAccountInactive)
	}
	return nil
}

// ValidateDebit checks the account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.AllowNegativeBalance {
		return nil
	}

	if a.Balance.LessThan(amount) {
		return fmt.Errorf("%w. Available: %s %s, required: %s",
			ErrInsufficientFunds, a.Currency, a.Balance.StringFixed(2), amount.String())
	}

	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
