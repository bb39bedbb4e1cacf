package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
	"github.com/iho/gosettle/internal/usecase"
	"github.com/iho/gosettle/internal/usecase/mocks"
)

type settlementFixture struct {
	accounts *mocks.MockAccountRepository
	txns     *mocks.MockAccountTransactionRepository
	payments *mocks.MockPaymentRepository
	outbox   *mocks.MockOutboxRepository
	audit    *mocks.MockAuditRecorder
	txm      *mocks.MockTransactionManager
	retrier  *mocks.MockRetrier
	metrics  *metrics.Metrics
	uc       *usecase.SettlementUseCase
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()

	f := &settlementFixture{
		accounts: mocks.NewMockAccountRepository(),
		txns:     mocks.NewMockAccountTransactionRepository(),
		payments: mocks.NewMockPaymentRepository(),
		outbox:   mocks.NewMockOutboxRepository(),
		audit:    mocks.NewMockAuditRecorder(),
		txm:      mocks.NewMockTransactionManager(),
		retrier:  mocks.NewMockRetrier(),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
	f.uc = usecase.NewSettlementUseCase(
		f.txm, f.retrier, f.accounts, f.txns, f.payments, f.outbox, f.audit, mocks.NewMockIDGenerator(), f.metrics,
	)
	return f
}

func (f *settlementFixture) seedAccount(t *testing.T, id, balance string, allowNegative, active bool) {
	t.Helper()
	require.NoError(t, f.accounts.Create(context.Background(), nil, &domain.Account{
		ID:                   id,
		Name:                 "Operating",
		Code:                 "OPS-" + id,
		Currency:             "NGN",
		Balance:              decimal.RequireFromString(balance),
		AllowNegativeBalance: allowNegative,
		IsActive:             active,
		CreatedAt:            time.Now().UTC(),
		UpdatedAt:            time.Now().UTC(),
	}))
}

func (f *settlementFixture) seedPayment(t *testing.T, id string, payer *string, total string, status domain.PaymentStatus) {
	t.Helper()
	require.NoError(t, f.payments.Create(context.Background(), nil, &domain.Payment{
		ID:             id,
		PayerAccountID: payer,
		TotalAmount:    decimal.RequireFromString(total),
		Currency:       "NGN",
		Status:         status,
		Reference:      "INV-" + id,
		Payee:          domain.PayeeSnapshot{Name: "Acme Supplies"},
	}))
}

func (f *settlementFixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	acc, err := f.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func strPtr(s string) *string { return &s }

func TestSettlementUseCase_AddFunds(t *testing.T) {
	f := newSettlementFixture(t)
	f.seedAccount(t, "acc-1", "100.00", false, true)

	ctx := domain.ContextWithActor(context.Background(), domain.Actor{
		ID:    "user-7",
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  domain.RoleFinance,
	})

	result, err := f.uc.AddFunds(ctx, usecase.AddFundsInput{
		AccountID:   "acc-1",
		Amount:      decimal.RequireFromString("50.00"),
		Description: "Top up",
		Reference:   "BANK-1",
	})
	require.NoError(t, err)

	assert.True(t, result.Account.Balance.Equal(decimal.RequireFromString("150.00")), "balance = %s", result.Account.Balance)
	assert.Equal(t, int64(1), result.Account.Version)
	assert.Equal(t, domain.TransactionTypeDeposit, result.Transaction.Type)
	assert.True(t, result.Transaction.Amount.Equal(decimal.RequireFromString("50")))
	assert.True(t, result.Transaction.BalanceAfter.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, "NGN", result.Transaction.Currency)
	require.NotNil(t, result.Transaction.CreatedBy)
	assert.Equal(t, "user-7", *result.Transaction.CreatedBy)

	rows := f.txns.ByAccount("acc-1")
	require.Len(t, rows, 1)
	assert.Equal(t, 1, f.txm.CommitCount())

	events := f.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeFundsAdded, events[0].EventType)

	logs := f.audit.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionCreate, logs[0].Action)
	assert.Equal(t, "user-7", logs[0].ActorID)
	assert.Equal(t, "Ada", logs[0].Actor.Name)
	assert.Equal(t, "100", logs[0].BeforeData["balance"])

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.FundsAdded))
}

func TestSettlementUseCase_AddFundsFailures(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		amount    string
		wantKind  domain.ErrorKind
		wantErr   error
	}{
		{name: "zero amount", accountID: "active", amount: "0", wantKind: domain.KindValidation},
		{name: "negative amount", accountID: "active", amount: "-5", wantKind: domain.KindValidation},
		{name: "too many decimals", accountID: "active", amount: "1.005", wantKind: domain.KindValidation},
		{name: "missing account", accountID: "nope", amount: "10", wantKind: domain.KindNotFound, wantErr: domain.ErrAccountNotFound},
		{name: "inactive account", accountID: "inactive", amount: "10", wantKind: domain.KindInvalidState, wantErr: domain.ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSettlementFixture(t)
			f.seedAccount(t, "active", "10", false, true)
			f.seedAccount(t, "inactive", "10", false, false)

			_, err := f.uc.AddFunds(context.Background(), usecase.AddFundsInput{
				AccountID: tt.accountID,
				Amount:    decimal.RequireFromString(tt.amount),
			})
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, domain.KindOf(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			assert.Empty(t, f.txns.ByAccount(tt.accountID))
			assert.Empty(t, f.audit.Logs())
			assert.Equal(t, 0, f.txm.CommitCount())
		})
	}
}

func TestSettlementUseCase_InactiveAccountMessage(t *testing.T) {
	f := newSettlementFixture(t)
	f.seedAccount(t, "acc-1", "0", false, false)

	_, err := f.uc.AddFunds(context.Background(), usecase.AddFundsInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot add funds to inactive account")
}

func TestSettlementUseCase_SettlementScenario(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	f.seedAccount(t, "A", "100.00", false, true)
	f.seedPayment(t, "P", strPtr("A"), "200.00", domain.PaymentStatusApproved)

	_, err := f.uc.AddFunds(ctx, usecase.AddFundsInput{AccountID: "A", Amount: decimal.RequireFromString("50.00")})
	require.NoError(t, err)
	assert.Equal(t, "150", f.balance(t, "A").String())

	_, err = f.uc.ProcessPayment(ctx, "P")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, domain.KindInsufficientFunds, domain.KindOf(err))
	assert.Contains(t, err.Error(), "Available: NGN 150.00, required: 200")
	assert.Equal(t, "150", f.balance(t, "A").String())

	p, err := f.payments.GetByID(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusApproved, p.Status)

	_, err = f.uc.AddFunds(ctx, usecase.AddFundsInput{AccountID: "A", Amount: decimal.RequireFromString("100.00")})
	require.NoError(t, err)
	assert.Equal(t, "250", f.balance(t, "A").String())

	paid, err := f.uc.ProcessPayment(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, paid.Status)
	assert.Equal(t, "50", f.balance(t, "A").String())

	rows := f.txns.ByAccount("A")
	require.Len(t, rows, 3)
	last := rows[2]
	assert.Equal(t, domain.TransactionTypePayment, last.Type)
	assert.Equal(t, "-200", last.Amount.String())
	require.NotNil(t, last.PaymentID)
	assert.Equal(t, "P", *last.PaymentID)

	_, err = f.uc.ProcessPayment(ctx, "P")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPaymentAlreadyPaid)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, "50", f.balance(t, "A").String())
	assert.Len(t, f.txns.ByAccount("A"), 3)

	logs := f.audit.Logs()
	require.Len(t, logs, 3)
	assert.Equal(t, domain.AuditActionPaymentProcessed, logs[2].Action)
	assert.Equal(t, domain.SystemActorID, logs[2].ActorID)
	assert.Equal(t, "approved", logs[2].BeforeData["status"])

	assert.Equal(t, float64(1), testutil.ToFloat64(
		f.metrics.SettlementErrors.WithLabelValues("process_payment", string(domain.KindInsufficientFunds))))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		f.metrics.SettlementErrors.WithLabelValues("process_payment", string(domain.KindConflict))))
}

func TestSettlementUseCase_ProcessPaymentPreconditions(t *testing.T) {
	tests := []struct {
		name      string
		paymentID string
		setup     func(t *testing.T, f *settlementFixture)
		wantErr   error
		wantKind  domain.ErrorKind
	}{
		{
			name:      "payment missing",
			paymentID: "missing",
			setup:     func(*testing.T, *settlementFixture) {},
			wantErr:   domain.ErrPaymentNotFound,
			wantKind:  domain.KindNotFound,
		},
		{
			name:      "already paid checked before payer",
			paymentID: "p",
			setup: func(t *testing.T, f *settlementFixture) {
				f.seedPayment(t, "p", nil, "10", domain.PaymentStatusPaid)
			},
			wantErr:  domain.ErrPaymentAlreadyPaid,
			wantKind: domain.KindConflict,
		},
		{
			name:      "voided",
			paymentID: "p",
			setup: func(t *testing.T, f *settlementFixture) {
				f.seedPayment(t, "p", strPtr("acc"), "10", domain.PaymentStatusVoided)
			},
			wantErr:  domain.ErrPaymentVoided,
			wantKind: domain.KindInvalidState,
		},
		{
			name:      "no payer account",
			paymentID: "p",
			setup: func(t *testing.T, f *settlementFixture) {
				f.seedPayment(t, "p", nil, "10", domain.PaymentStatusScheduled)
			},
			wantErr:  domain.ErrPaymentPayerMissing,
			wantKind: domain.KindInvalidState,
		},
		{
			name:      "payer account does not exist",
			paymentID: "p",
			setup: func(t *testing.T, f *settlementFixture) {
				f.seedPayment(t, "p", strPtr("ghost"), "10", domain.PaymentStatusDraft)
			},
			wantErr:  domain.ErrPayerAccountNotFound,
			wantKind: domain.KindInvalidState,
		},
		{
			name:      "insufficient funds",
			paymentID: "p",
			setup: func(t *testing.T, f *settlementFixture) {
				f.seedAccount(t, "acc", "9.99", false, true)
				f.seedPayment(t, "p", strPtr("acc"), "10", domain.PaymentStatusDraft)
			},
			wantErr:  domain.ErrInsufficientFunds,
			wantKind: domain.KindInsufficientFunds,
		},
		{
			name:      "empty id",
			paymentID: "",
			setup:     func(*testing.T, *settlementFixture) {},
			wantKind:  domain.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSettlementFixture(t)
			tt.setup(t, f)

			_, err := f.uc.ProcessPayment(context.Background(), tt.paymentID)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantKind, domain.KindOf(err))
			assert.Equal(t, 0, f.txm.CommitCount())
			assert.Empty(t, f.outbox.Events())
			assert.Empty(t, f.audit.Logs())
		})
	}
}

func TestSettlementUseCase_ProcessPaymentAllowsNegativeBalance(t *testing.T) {
	f := newSettlementFixture(t)
	f.seedAccount(t, "acc", "5", true, true)
	f.seedPayment(t, "p", strPtr("acc"), "20.50", domain.PaymentStatusScheduled)

	payment, err := f.uc.ProcessPayment(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, payment.Status)
	assert.Equal(t, "-15.5", f.balance(t, "acc").String())

	events := f.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypePaymentProcessed, events[0].EventType)
	assert.Equal(t, "scheduled", events[0].Payload["previous"])
}

func TestSettlementUseCase_CommitFailureSkipsAudit(t *testing.T) {
	f := newSettlementFixture(t)
	f.seedAccount(t, "acc", "0", false, true)

	commitErr := errors.New("connection reset")
	f.txm.BeginFunc = func(context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			CommitFunc: func(context.Context) error { return commitErr },
		}, nil
	}

	_, err := f.uc.AddFunds(context.Background(), usecase.AddFundsInput{AccountID: "acc", Amount: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, commitErr)
	assert.Equal(t, domain.KindUnexpected, domain.KindOf(err))
	assert.Empty(t, f.audit.Logs())
}

func TestSettlementUseCase_RunsInsideRetrier(t *testing.T) {
	f := newSettlementFixture(t)
	f.seedAccount(t, "acc", "0", false, true)

	attempts := 0
	f.retrier.RetryFunc = func(ctx context.Context, op func() error) error {
		var err error
		for range 3 {
			attempts++
			if err = op(); err == nil {
				return nil
			}
		}
		return err
	}

	failOnce := true
	f.accounts.UpdateBalanceFunc = func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error {
		if failOnce {
			failOnce = false
			return errors.New("deadlock detected")
		}
		f.accounts.UpdateBalanceFunc = nil
		return f.accounts.UpdateBalance(ctx, tx, id, balance, version, updatedAt)
	}

	result, err := f.uc.AddFunds(context.Background(), usecase.AddFundsInput{AccountID: "acc", Amount: decimal.NewFromInt(7)})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, f.retrier.Calls)
	assert.Equal(t, "7", result.Account.Balance.String())
	assert.Equal(t, 1, f.txm.CommitCount())
}

func TestSettlementUseCase_NilAuditRecorder(t *testing.T) {
	accounts := mocks.NewMockAccountRepository()
	require.NoError(t, accounts.Create(context.Background(), nil, &domain.Account{
		ID: "acc", Currency: "USD", IsActive: true,
	}))

	uc := usecase.NewSettlementUseCase(
		mocks.NewMockTransactionManager(), nil, accounts, mocks.NewMockAccountTransactionRepository(),
		mocks.NewMockPaymentRepository(), mocks.NewMockOutboxRepository(), nil, mocks.NewMockIDGenerator(), nil,
	)

	result, err := uc.AddFunds(context.Background(), usecase.AddFundsInput{AccountID: "acc", Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "1", result.Account.Balance.String())
}

func TestSettlementUseCase_AddFundsDoesNotRereadAfterCommit(t *testing.T) {
	f := newSettlementFixture(t)
	f.seedAccount(t, "acc", "100", false, true)

	locked, err := f.accounts.GetByID(context.Background(), "acc")
	require.NoError(t, err)

	f.accounts.GetByIDForUpdateFunc = func(context.Context, usecase.Transaction, string) (*domain.Account, error) {
		out := *locked
		return &out, nil
	}
	f.accounts.GetByIDFunc = func(context.Context, string) (*domain.Account, error) {
		return nil, errors.New("connection reset")
	}

	result, err := f.uc.AddFunds(context.Background(), usecase.AddFundsInput{AccountID: "acc", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	assert.Equal(t, "150", result.Account.Balance.String())
	assert.Equal(t, int64(1), result.Account.Version)
	assert.Equal(t, result.Transaction.CreatedAt, result.Account.UpdatedAt)

	logs := f.audit.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "100", logs[0].BeforeData["balance"])
	assert.Equal(t, "150", logs[0].AfterData["balance"])

	f.accounts.GetByIDFunc = nil
	assert.Equal(t, "150", f.balance(t, "acc").String())
	assert.Len(t, f.txns.ByAccount("acc"), 1)
}

func TestSettlementUseCase_ProcessPaymentDetailReadFailure(t *testing.T) {
	f := newSettlementFixture(t)
	f.seedAccount(t, "acc", "100", false, true)
	f.seedPayment(t, "p", strPtr("acc"), "40", domain.PaymentStatusApproved)

	f.payments.GetWithDetailsFunc = func(context.Context, string) (*domain.Payment, error) {
		return nil, errors.New("connection reset")
	}

	payment, err := f.uc.ProcessPayment(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "p", payment.ID)
	assert.Equal(t, domain.PaymentStatusPaid, payment.Status)
	assert.Equal(t, "60", f.balance(t, "acc").String())

	logs := f.audit.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionPaymentProcessed, logs[0].Action)
	assert.Equal(t, "paid", logs[0].AfterData["status"])
}

func TestSettlementUseCase_ProcessPaymentCurrencyMismatch(t *testing.T) {
	f := newSettlementFixture(t)
	f.seedAccount(t, "acc", "100", false, true)
	require.NoError(t, f.payments.Create(context.Background(), nil, &domain.Payment{
		ID:             "p",
		PayerAccountID: strPtr("acc"),
		TotalAmount:    decimal.NewFromInt(80),
		Currency:       "USD",
		Status:         domain.PaymentStatusApproved,
		Reference:      "INV-p",
		Payee:          domain.PayeeSnapshot{Name: "Acme Supplies"},
	}))

	_, err := f.uc.ProcessPayment(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	assert.Contains(t, err.Error(), "payment in USD, payer account in NGN")

	assert.Equal(t, "100", f.balance(t, "acc").String())
	assert.Empty(t, f.txns.ByAccount("acc"))
	assert.Equal(t, 0, f.txm.CommitCount())
	assert.Empty(t, f.audit.Logs())
}
