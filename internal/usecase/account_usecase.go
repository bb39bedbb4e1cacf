package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	audit       AuditRecorder
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	audit AuditRecorder,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		audit:       audit,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name                 string
	Code                 string
	Currency             string
	Description          string
	AllowNegativeBalance bool
}

func (in *CreateAccountInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Currency = domain.NormalizeCurrency(in.Currency)
	in.Description = strings.TrimSpace(in.Description)
}

func (in CreateAccountInput) validate() error {
	verr := &domain.ValidationError{}

	if err := domain.ValidateAccountName(in.Name); err != nil {
		verr.Add("name", err.Error())
	}
	if err := domain.ValidateAccountCode(in.Code); err != nil {
		verr.Add("code", err.Error())
	}
	if err := domain.ValidateCurrency(in.Currency); err != nil {
		verr.Add("currency", err.Error())
	}
	if len(in.Description) > domain.MaxDescriptionLength {
		verr.Add("description", fmt.Sprintf("must be at most %d characters", domain.MaxDescriptionLength))
	}

	return verr.OrNil()
}

// CreateAccount creates a new active account with a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	exists, err := uc.accountRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountCodeTaken, input.Code)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:                   uc.idGen.Generate(),
		Name:                 input.Name,
		Code:                 input.Code,
		Currency:             input.Currency,
		Balance:              decimal.Zero,
		Version:              0,
		AllowNegativeBalance: input.AllowNegativeBalance,
		IsActive:             true,
		Description:          input.Description,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: map[string]any{
			"account_id": account.ID,
			"code":       account.Code,
			"currency":   account.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	actor := domain.ActorFromContext(ctx)
	auditLog := domain.NewAuditLog(actor, domain.AuditActionCreate, domain.EntityTypeAccount, account.ID,
		fmt.Sprintf("Created account %s (%s)", account.Code, account.Currency))
	auditLog.AfterData = domain.MarshalState(account)
	uc.record(ctx, auditLog)

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = defaultAccountListLimit
	}
	if input.Limit > maxAccountListLimit {
		input.Limit = maxAccountListLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// DeactivateAccount marks an account inactive. Accounts are never deleted.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, id string) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if !account.IsActive {
		return account, nil
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.SetActive(txCtx, tx, id, false, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   id,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountDeactivated,
		Payload: map[string]any{
			"account_id": id,
			"balance":    account.Balance.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	before := *account
	account.IsActive = false
	account.UpdatedAt = now

	actor := domain.ActorFromContext(ctx)
	auditLog := domain.NewAuditLog(actor, domain.AuditActionDeactivate, domain.EntityTypeAccount, id,
		fmt.Sprintf("Deactivated account %s", account.Code))
	auditLog.BeforeData = domain.JSON{"isActive": before.IsActive}
	auditLog.AfterData = domain.JSON{"isActive": account.IsActive}
	uc.record(ctx, auditLog)

	if uc.metrics != nil {
		uc.metrics.AccountsDeactivated.Inc()
	}

	return account, nil
}

func (uc *AccountUseCase) record(ctx context.Context, log *domain.AuditLog) {
	if uc.audit == nil {
		return
	}
	log.ID = uc.idGen.Generate()
	uc.audit.Record(ctx, log)
}
