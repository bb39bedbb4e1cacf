package postgres

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx
}

func TestAccountRepositoryCreateMapsUniqueViolation(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	pool.ExpectExec("INSERT INTO accounts").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	repo := NewAccountRepository(pool)
	err := repo.Create(context.Background(), tx, &domain.Account{
		ID:       "acc-1",
		Name:     "Operating",
		Code:     "OPS",
		Currency: "NGN",
		Balance:  decimal.Zero,
		IsActive: true,
	})
	if !errors.Is(err, domain.ErrAccountCodeTaken) {
		t.Fatalf("expected ErrAccountCodeTaken, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	pool.ExpectExec("INSERT INTO accounts").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewAccountRepository(pool)
	err := repo.Create(context.Background(), tx, &domain.Account{
		ID:       "acc-1",
		Name:     "Operating",
		Code:     "OPS",
		Currency: "NGN",
		Balance:  decimal.RequireFromString("10.50"),
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM accounts WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewAccountRepository(pool)
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByID(t *testing.T) {
	pool := newMockPool(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "name", "code", "currency", "balance", "version",
		"allow_negative_balance", "is_active", "description", "created_at", "updated_at",
	}).AddRow(
		"acc-1", "Operating", "OPS", "NGN", decimalToNumeric(decimal.RequireFromString("150.25")), int64(3),
		false, true, "main", pgtype.Timestamptz{Time: now, Valid: true}, pgtype.Timestamptz{Time: now, Valid: true},
	)
	pool.ExpectQuery("FROM accounts WHERE id").WithArgs("acc-1").WillReturnRows(rows)

	repo := NewAccountRepository(pool)
	account, err := repo.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Code != "OPS" || account.Version != 3 || !account.IsActive {
		t.Fatalf("unexpected account: %+v", account)
	}
	if !account.Balance.Equal(decimal.RequireFromString("150.25")) {
		t.Fatalf("expected balance 150.25, got %s", account.Balance)
	}
	if !account.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, account.CreatedAt)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryExistsByCode(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT EXISTS").
		WithArgs("OPS").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewAccountRepository(pool)
	exists, err := repo.ExistsByCode(context.Background(), "OPS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatalf("expected code to exist")
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryUpdateBalance(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	pool.ExpectExec("UPDATE accounts SET balance").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewAccountRepository(pool)
	err := repo.UpdateBalance(context.Background(), tx, "acc-1", decimal.NewFromInt(50), 4, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryCreateDuplicatePaymentDebit(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	pool.ExpectExec("INSERT INTO account_transactions").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	paymentID := "pay-1"
	repo := NewAccountTransactionRepository(pool)
	err := repo.Create(context.Background(), tx, &domain.AccountTransaction{
		ID:        "txn-1",
		AccountID: "acc-1",
		Type:      domain.TransactionTypePayment,
		Amount:    decimal.NewFromInt(-250),
		Currency:  "NGN",
		PaymentID: &paymentID,
	})
	if !errors.Is(err, domain.ErrPaymentAlreadyPaid) {
		t.Fatalf("expected ErrPaymentAlreadyPaid, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryCountByAccount(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT COUNT").
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	repo := NewAccountTransactionRepository(pool)
	count, err := repo.CountByAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7, got %d", count)
	}

	assertExpectations(t, pool)
}

func TestListOffsetBeyondInt32ReturnsEmptyPage(t *testing.T) {
	pool := newMockPool(t)
	offset := (domain.MaxPage - 1) * domain.MaxPageSize

	txns, err := NewAccountTransactionRepository(pool).ListByAccount(context.Background(), "acc-1", domain.MaxPageSize, offset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected empty page, got %d rows", len(txns))
	}

	accounts, err := NewAccountRepository(pool).List(context.Background(), 10, math.MaxInt32+1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("expected empty page, got %d rows", len(accounts))
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryListPassesWindow(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM account_transactions").
		WithArgs("acc-1", int32(50), int32(100)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "account_id", "type", "amount", "balance_after", "currency",
			"description", "reference", "payment_id", "created_by", "created_at",
		}))

	txns, err := NewAccountTransactionRepository(pool).ListByAccount(context.Background(), "acc-1", 50, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected no rows, got %d", len(txns))
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryRunningBalanceBreaks(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SUM\\(amount\\) OVER").
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"breaks", "first_break_id"}).AddRow(int64(2), "txn-9"))

	check, err := NewAccountTransactionRepository(pool).RunningBalanceBreaks(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Breaks != 2 || check.FirstBreakID != "txn-9" {
		t.Fatalf("unexpected check: %+v", check)
	}

	assertExpectations(t, pool)
}

func TestPaymentRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM payments WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewPaymentRepository(pool)
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestPaymentRepositoryCreateWritesItems(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	pool.ExpectExec("INSERT INTO payments").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO payment_items").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO payment_items").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	payer := "acc-1"
	repo := NewPaymentRepository(pool)
	err := repo.Create(context.Background(), tx, &domain.Payment{
		ID:             "pay-1",
		PayerAccountID: &payer,
		TotalAmount:    decimal.NewFromInt(250),
		Currency:       "NGN",
		Status:         domain.PaymentStatusDraft,
		Reference:      "INV-1",
		Payee:          domain.PayeeSnapshot{Name: "Vendor"},
		Items: []domain.PaymentItem{
			{ID: "item-1", Description: "a", Quantity: decimal.NewFromInt(1), UnitAmount: decimal.NewFromInt(200)},
			{ID: "item-2", Description: "b", Quantity: decimal.NewFromInt(1), UnitAmount: decimal.NewFromInt(50), Position: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestPaymentRepositoryCountPaidByPayer(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM payments WHERE payer_account_id").
		WithArgs(pgtype.Text{String: "acc-1", Valid: true}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	repo := NewPaymentRepository(pool)
	count, err := repo.CountPaidByPayer(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}

	assertExpectations(t, pool)
}

func TestOutboxRepositoryMarkPublished(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE outbox_events SET published").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewOutboxRepository(pool)
	if err := repo.MarkPublished(context.Background(), "evt-1", time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestAuditRepositoryCreateAssignsID(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewAuditRepository(pool)
	log := &domain.AuditLog{
		ActorID:    "user-1",
		Action:     domain.AuditActionCreate,
		EntityType: domain.EntityTypeAccount,
		EntityID:   "acc-1",
		AfterData:  domain.JSON{"code": "OPS"},
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.ID == "" {
		t.Fatalf("expected generated id")
	}

	assertExpectations(t, pool)
}

func TestAuditRepositoryListBuildsFilter(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(`WHERE entity_type = \$1 AND entity_id = \$2 ORDER BY created_at DESC, id DESC LIMIT \$3`).
		WithArgs(domain.EntityTypeAccount, "acc-1", 10).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "actor_id", "actor", "action", "entity_type", "entity_id", "description",
			"before_data", "after_data", "ip_address", "user_agent", "request_id", "created_at",
		}))

	repo := NewAuditRepository(pool)
	logs, err := repo.List(context.Background(), domain.AuditFilter{
		EntityType: domain.EntityTypeAccount,
		EntityID:   "acc-1",
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logs == nil || len(logs) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", logs)
	}

	assertExpectations(t, pool)
}
