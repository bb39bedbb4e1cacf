package handler

import (
	"context"
	"net/http"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// SettlementService defines the balance-changing operations.
type SettlementService interface {
	AddFunds(ctx context.Context, input usecase.AddFundsInput) (*usecase.AddFundsResult, error)
	ProcessPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
}

// SettlementHandler handles add-funds and payment processing.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// AddFunds credits the account in the path.
func (h *SettlementHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "accountId")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.AddFundsRequest
	if err := decodeAndValidate(r, &req, false); err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.settlementUC.AddFunds(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AddFundsFromResult(result))
}

// ProcessPayment settles the payment in the path. The request has no body.
func (h *SettlementHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "paymentId")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	payment, err := h.settlementUC.ProcessPayment(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}
