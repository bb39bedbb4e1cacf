package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

const (
	opAddFunds       = "add_funds"
	opProcessPayment = "process_payment"
)

// SettlementUseCase applies balance mutations together with their ledger rows.
type SettlementUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	accountRepo AccountRepository
	txnRepo     AccountTransactionRepository
	paymentRepo PaymentRepository
	outboxRepo  OutboxRepository
	audit       AuditRecorder
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	txnRepo AccountTransactionRepository,
	paymentRepo PaymentRepository,
	outboxRepo OutboxRepository,
	audit AuditRecorder,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:   txManager,
		retrier:     retrier,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		audit:       audit,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// AddFundsInput represents input for crediting an account.
type AddFundsInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Reference   string
}

// AddFundsResult is the committed deposit and the refreshed account.
type AddFundsResult struct {
	Transaction *domain.AccountTransaction
	Account     *domain.Account
}

func (in AddFundsInput) validate() error {
	verr := &domain.ValidationError{}

	if in.AccountID == "" {
		verr.Add("accountId", "is required")
	}

	if err := domain.ValidateAmount(in.Amount); err != nil {
		verr.Add("amount", err.Error())
	}

	if len(in.Description) > domain.MaxDescriptionLength {
		verr.Add("description", fmt.Sprintf("must be at most %d characters", domain.MaxDescriptionLength))
	}

	if len(in.Reference) > domain.MaxReferenceLength {
		verr.Add("reference", fmt.Sprintf("must be at most %d characters", domain.MaxReferenceLength))
	}

	return verr.OrNil()
}

// AddFunds credits an account and records a deposit transaction atomically.
func (uc *SettlementUseCase) AddFunds(ctx context.Context, input AddFundsInput) (*AddFundsResult, error) {
	start := time.Now()

	if err := input.validate(); err != nil {
		uc.observeError(opAddFunds, err)
		return nil, err
	}

	actor := domain.ActorFromContext(ctx)

	var deposit *fundsDeposit

	err := uc.retry(ctx, func() error {
		var err error
		deposit, err = uc.addFundsTx(ctx, actor, input)
		return err
	})
	if err != nil {
		uc.observeError(opAddFunds, err)
		return nil, err
	}

	// The deposit is committed from here on; nothing below may fail the call.
	account, txn := deposit.account, deposit.txn

	auditLog := domain.NewAuditLog(actor, domain.AuditActionCreate, domain.EntityTypeAccountTransaction, txn.ID,
		fmt.Sprintf("Added %s %s to account %s", input.Amount.StringFixed(domain.CurrencyPrecision), account.Currency, account.Code))
	auditLog.BeforeData = domain.JSON{"balance": deposit.previousBalance.String()}
	auditLog.AfterData = domain.JSON{
		"balance":     account.Balance.String(),
		"transaction": domain.MarshalState(txn),
	}
	uc.record(ctx, auditLog)

	if uc.metrics != nil {
		uc.metrics.FundsAdded.Inc()
		uc.metrics.FundsAddedAmount.Observe(input.Amount.InexactFloat64())
		uc.metrics.SettlementDuration.WithLabelValues(opAddFunds).Observe(time.Since(start).Seconds())
	}

	return &AddFundsResult{Transaction: txn, Account: account}, nil
}

// fundsDeposit is the committed state of a deposit: the account as written
// by the transaction and its ledger row.
type fundsDeposit struct {
	account         *domain.Account
	txn             *domain.AccountTransaction
	previousBalance decimal.Decimal
}

func (uc *SettlementUseCase) addFundsTx(ctx context.Context, actor domain.Actor, input AddFundsInput) (*fundsDeposit, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDeposit(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := account.ApplyCredit(input.Amount)

	txn := &domain.AccountTransaction{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Type:         domain.TransactionTypeDeposit,
		Amount:       input.Amount,
		BalanceAfter: newBalance,
		Currency:     account.Currency,
		Description:  optionalString(input.Description),
		Reference:    optionalString(input.Reference),
		CreatedBy:    actor.CreatedBy(),
		CreatedAt:    now,
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, account.Version+1, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeFundsAdded,
		Payload: map[string]any{
			"account_id":     account.ID,
			"transaction_id": txn.ID,
			"amount":         input.Amount.String(),
			"balance":        newBalance.String(),
			"currency":       account.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	committed := *account
	committed.Balance = newBalance
	committed.Version = account.Version + 1
	committed.UpdatedAt = now

	return &fundsDeposit{account: &committed, txn: txn, previousBalance: account.Balance}, nil
}

// ProcessPayment settles a payment against its payer account: one debit
// transaction, the balance decrement and the status change commit together.
func (uc *SettlementUseCase) ProcessPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	start := time.Now()

	if paymentID == "" {
		err := domain.NewValidationError("paymentId", "is required")
		uc.observeError(opProcessPayment, err)
		return nil, err
	}

	actor := domain.ActorFromContext(ctx)

	var settled *paymentSettlement

	err := uc.retry(ctx, func() error {
		var err error
		settled, err = uc.processPaymentTx(ctx, actor, paymentID)
		return err
	})
	if err != nil {
		uc.observeError(opProcessPayment, err)
		return nil, err
	}

	payment := settled.payment

	auditLog := domain.NewAuditLog(actor, domain.AuditActionPaymentProcessed, domain.EntityTypePayment, payment.ID,
		fmt.Sprintf("Processed payment %s for %s %s", payment.Reference,
			payment.TotalAmount.StringFixed(domain.CurrencyPrecision), settled.account.Currency))
	auditLog.BeforeData = domain.JSON{
		"status":  string(settled.previousStatus),
		"balance": settled.account.Balance.String(),
	}
	auditLog.AfterData = domain.JSON{
		"status":         string(payment.Status),
		"balance":        settled.txn.BalanceAfter.String(),
		"transaction_id": settled.txn.ID,
	}
	uc.record(ctx, auditLog)

	if uc.metrics != nil {
		uc.metrics.PaymentsProcessed.Inc()
		uc.metrics.PaymentAmount.Observe(payment.TotalAmount.InexactFloat64())
		uc.metrics.SettlementDuration.WithLabelValues(opProcessPayment).Observe(time.Since(start).Seconds())
	}

	// A failed detail read falls back to the settled payment without items.
	if detailed, err := uc.paymentRepo.GetWithDetails(ctx, paymentID); err == nil {
		return detailed, nil
	}

	return payment, nil
}

// paymentSettlement is what the settlement transaction hands back for auditing.
type paymentSettlement struct {
	payment        *domain.Payment
	account        *domain.Account
	txn            *domain.AccountTransaction
	previousStatus domain.PaymentStatus
}

func (uc *SettlementUseCase) processPaymentTx(ctx context.Context, actor domain.Actor, paymentID string) (*paymentSettlement, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.CheckProcessable(); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, *payment.PayerAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrPayerAccountNotFound
		}
		return nil, err
	}

	if account.Currency != payment.Currency {
		return nil, fmt.Errorf("%w: payment in %s, payer account in %s",
			domain.ErrCurrencyMismatch, payment.Currency, account.Currency)
	}

	if err := account.ValidateDebit(payment.TotalAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := account.ApplyDebit(payment.TotalAmount)

	description := fmt.Sprintf("Payment %s", payment.Reference)
	txn := &domain.AccountTransaction{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Type:         domain.TransactionTypePayment,
		Amount:       payment.TotalAmount.Neg(),
		BalanceAfter: newBalance,
		Currency:     account.Currency,
		Description:  &description,
		Reference:    optionalString(payment.Reference),
		PaymentID:    &payment.ID,
		CreatedBy:    actor.CreatedBy(),
		CreatedAt:    now,
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, account.Version+1, now); err != nil {
		return nil, err
	}

	if err := uc.paymentRepo.UpdateStatus(txCtx, tx, payment.ID, domain.PaymentStatusPaid, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentProcessed,
		Payload: map[string]any{
			"payment_id":     payment.ID,
			"account_id":     account.ID,
			"transaction_id": txn.ID,
			"amount":         payment.TotalAmount.String(),
			"currency":       account.Currency,
			"previous":       string(payment.Status),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	settled := *payment
	settled.Status = domain.PaymentStatusPaid
	settled.UpdatedAt = now

	return &paymentSettlement{payment: &settled, account: account, txn: txn, previousStatus: payment.Status}, nil
}

func (uc *SettlementUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

func (uc *SettlementUseCase) record(ctx context.Context, log *domain.AuditLog) {
	if uc.audit == nil {
		return
	}
	log.ID = uc.idGen.Generate()
	uc.audit.Record(ctx, log)
}

func (uc *SettlementUseCase) observeError(operation string, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.SettlementErrors.WithLabelValues(operation, string(domain.KindOf(err))).Inc()
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
