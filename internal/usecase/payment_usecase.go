package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// PaymentUseCase handles payment creation and lookup.
type PaymentUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	paymentRepo PaymentRepository
	outboxRepo  OutboxRepository
	audit       AuditRecorder
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	paymentRepo PaymentRepository,
	outboxRepo OutboxRepository,
	audit AuditRecorder,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		audit:       audit,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// PaymentItemInput is one line of a new payment.
type PaymentItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitAmount  decimal.Decimal
}

// CreatePaymentInput represents input for raising a payment.
type CreatePaymentInput struct {
	PayerAccountID string
	Currency       string
	Reference      string
	Payee          domain.PayeeSnapshot
	Items          []PaymentItemInput
}

func (in CreatePaymentInput) validate() error {
	verr := &domain.ValidationError{}

	if err := domain.ValidateCurrency(in.Currency); err != nil {
		verr.Add("currency", err.Error())
	}
	if len(in.Reference) > domain.MaxReferenceLength {
		verr.Add("reference", fmt.Sprintf("must be at most %d characters", domain.MaxReferenceLength))
	}
	if strings.TrimSpace(in.Payee.Name) == "" {
		verr.Add("payee.name", "is required")
	}
	if len(in.Items) == 0 {
		verr.Add("items", domain.ErrPaymentWithoutLineItem.Error())
	}

	for i, item := range in.Items {
		if strings.TrimSpace(item.Description) == "" {
			verr.Add(fmt.Sprintf("items[%d].description", i), "is required")
		}
		if !item.Quantity.IsPositive() {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "must be positive")
		}
		if err := domain.ValidateAmount(item.UnitAmount); err != nil {
			verr.Add(fmt.Sprintf("items[%d].unitAmount", i), err.Error())
		}
	}

	return verr.OrNil()
}

// CreatePayment raises a draft payment. The total is the sum of its items.
func (uc *PaymentUseCase) CreatePayment(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error) {
	input.Currency = domain.NormalizeCurrency(input.Currency)
	input.Reference = strings.TrimSpace(input.Reference)

	if err := input.validate(); err != nil {
		return nil, err
	}

	var payerID *string
	if input.PayerAccountID != "" {
		payer, err := uc.accountRepo.GetByID(ctx, input.PayerAccountID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, domain.NewValidationError("payerAccountId", "account not found")
			}
			return nil, err
		}
		if payer.Currency != input.Currency {
			return nil, domain.NewValidationError("payerAccountId",
				fmt.Sprintf("account currency %s does not match payment currency %s", payer.Currency, input.Currency))
		}
		id := input.PayerAccountID
		payerID = &id
	}

	now := time.Now().UTC()
	paymentID := uc.idGen.Generate()

	items := make([]domain.PaymentItem, len(input.Items))
	for i, in := range input.Items {
		items[i] = domain.PaymentItem{
			ID:          uc.idGen.Generate(),
			PaymentID:   paymentID,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitAmount:  in.UnitAmount,
			Position:    i + 1,
		}
	}

	total := domain.SumItems(items)
	if err := domain.ValidateAmount(total); err != nil {
		return nil, domain.NewValidationError("items", err.Error())
	}

	reference := input.Reference
	if reference == "" {
		reference = "PAY-" + paymentID
	}

	payment := &domain.Payment{
		ID:             paymentID,
		PayerAccountID: payerID,
		TotalAmount:    total,
		Currency:       input.Currency,
		Status:         domain.PaymentStatusDraft,
		Reference:      reference,
		Payee:          input.Payee,
		Items:          items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentCreated,
		Payload: map[string]any{
			"payment_id": payment.ID,
			"reference":  payment.Reference,
			"amount":     payment.TotalAmount.String(),
			"currency":   payment.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		actor := domain.ActorFromContext(ctx)
		auditLog := domain.NewAuditLog(actor, domain.AuditActionCreate, domain.EntityTypePayment, payment.ID,
			fmt.Sprintf("Created payment %s for %s %s", payment.Reference,
				payment.TotalAmount.StringFixed(domain.CurrencyPrecision), payment.Currency))
		auditLog.ID = uc.idGen.Generate()
		auditLog.AfterData = domain.JSON{
			"status":      string(payment.Status),
			"totalAmount": payment.TotalAmount.String(),
			"payee":       domain.MarshalState(payment.Payee),
		}
		uc.audit.Record(ctx, auditLog)
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsCreated.Inc()
	}

	return payment, nil
}

// GetPayment returns a payment with its items, approvals and payee.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return uc.paymentRepo.GetWithDetails(ctx, id)
}
