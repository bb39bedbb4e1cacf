package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{ErrAccountNotFound, KindNotFound},
		{ErrPaymentNotFound, KindNotFound},
		{fmt.Errorf("%w: cannot add funds to inactive account", ErrAccountInactive), KindInvalidState},
		{ErrPaymentPayerMissing, KindInvalidState},
		{ErrPayerAccountNotFound, KindInvalidState},
		{ErrCurrencyMismatch, KindInvalidState},
		{ErrPaymentAlreadyPaid, KindConflict},
		{ErrAccountCodeTaken, KindConflict},
		{fmt.Errorf("%w. Available: NGN 1.00, required: 2", ErrInsufficientFunds), KindInsufficientFunds},
		{ErrInvalidAmount, KindValidation},
		{NewValidationError("amount", "is required"), KindValidation},
		{errors.New("connection reset"), KindUnexpected},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	if verr.OrNil() != nil {
		t.Fatal("expected nil for empty validation error")
	}

	verr.Add("amount", "must be greater than 0")
	verr.Add("reference", "too long")

	want := "validation failed: amount: must be greater than 0; reference: too long"
	if verr.Error() != want {
		t.Fatalf("expected %q, got %q", want, verr.Error())
	}

	var target *ValidationError
	if !errors.As(fmt.Errorf("wrapped: %w", verr.OrNil()), &target) {
		t.Fatal("expected wrapped validation error to be detectable")
	}
}

func TestActorFromContext(t *testing.T) {
	ctx := t.Context()

	if got := ActorFromContext(ctx); got.ID != SystemActorID || !got.IsSystem() || got.CreatedBy() != nil {
		t.Fatalf("expected system actor, got %+v", got)
	}

	ctx = ContextWithActor(ctx, Actor{ID: "user-7", Name: "Ada", Role: RoleFinance})
	got := ActorFromContext(ctx)
	if got.ID != "user-7" || got.Snapshot().Role != "finance" {
		t.Fatalf("unexpected actor %+v", got)
	}
	if got.CreatedBy() == nil || *got.CreatedBy() != "user-7" {
		t.Fatalf("expected created by user-7")
	}
}
