package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
	"github.com/iho/gosettle/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	queries *generated.Queries
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db generated.DBTX) *PaymentRepository {
	return &PaymentRepository{
		queries: generated.New(db),
	}
}

// Create inserts a payment and its items within a transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	payee, err := json.Marshal(payment.Payee)
	if err != nil {
		return err
	}

	err = queries.CreatePayment(ctx, generated.CreatePaymentParams{
		ID:             payment.ID,
		PayerAccountID: stringPtrToText(payment.PayerAccountID),
		TotalAmount:    decimalToNumeric(payment.TotalAmount),
		Currency:       payment.Currency,
		Status:         string(payment.Status),
		Reference:      payment.Reference,
		Payee:          payee,
		CreatedAt:      timeToPgTimestamptz(payment.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(payment.UpdatedAt),
	})
	if err != nil {
		return err
	}

	for _, item := range payment.Items {
		if err := queries.CreatePaymentItem(ctx, generated.CreatePaymentItemParams{
			ID:          item.ID,
			PaymentID:   payment.ID,
			Description: item.Description,
			Quantity:    decimalToNumeric(item.Quantity),
			UnitAmount:  decimalToNumeric(item.UnitAmount),
			Amount:      decimalToNumeric(item.Amount),
			Position:    int32(item.Position),
		}); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a payment without its items or approvals.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row, err := r.queries.GetPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return rowToPayment(row), nil
}

// GetByIDForUpdate retrieves a payment with a FOR UPDATE lock.
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetPaymentByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return rowToPayment(row), nil
}

// GetWithDetails retrieves a payment with its items and approvals.
func (r *PaymentRepository) GetWithDetails(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := r.queries.ListPaymentItems(ctx, id)
	if err != nil {
		return nil, err
	}

	payment.Items = make([]domain.PaymentItem, 0, len(items))
	for _, item := range items {
		payment.Items = append(payment.Items, domain.PaymentItem{
			ID:          item.ID,
			PaymentID:   item.PaymentID,
			Description: item.Description,
			Quantity:    numericToDecimal(item.Quantity),
			UnitAmount:  numericToDecimal(item.UnitAmount),
			Amount:      numericToDecimal(item.Amount),
			Position:    int(item.Position),
		})
	}

	approvals, err := r.queries.ListPaymentApprovals(ctx, id)
	if err != nil {
		return nil, err
	}

	payment.Approvals = make([]domain.PaymentApproval, 0, len(approvals))
	for _, a := range approvals {
		var decidedAt *time.Time
		if a.DecidedAt.Valid {
			t := a.DecidedAt.Time
			decidedAt = &t
		}

		payment.Approvals = append(payment.Approvals, domain.PaymentApproval{
			ID:           a.ID,
			PaymentID:    a.PaymentID,
			Level:        int(a.Level),
			ApproverID:   a.ApproverID,
			ApproverName: a.ApproverName,
			Status:       a.Status,
			Comment:      a.Comment,
			DecidedAt:    decidedAt,
			CreatedAt:    a.CreatedAt.Time,
		})
	}

	return payment, nil
}

// UpdateStatus sets the payment status within a transaction.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.PaymentStatus, updatedAt time.Time) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.UpdatePaymentStatus(ctx, generated.UpdatePaymentStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// CountPaidByPayer counts paid payments drawn on an account.
func (r *PaymentRepository) CountPaidByPayer(ctx context.Context, accountID string) (int64, error) {
	return r.queries.CountPaidPaymentsByPayer(ctx, pgtype.Text{String: accountID, Valid: true})
}

func rowToPayment(row generated.Payment) *domain.Payment {
	var payee domain.PayeeSnapshot
	if len(row.Payee) > 0 {
		_ = json.Unmarshal(row.Payee, &payee)
	}

	return &domain.Payment{
		ID:             row.ID,
		PayerAccountID: textToStringPtr(row.PayerAccountID),
		TotalAmount:    numericToDecimal(row.TotalAmount),
		Currency:       row.Currency,
		Status:         domain.PaymentStatus(row.Status),
		Reference:      row.Reference,
		Payee:          payee,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
