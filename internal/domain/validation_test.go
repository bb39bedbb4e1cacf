package domain

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateAccountName("Operating Account"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateAccountName("   ")
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxAccountNameLength+1)
		err := ValidateAccountName(tooLong)
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})
}

func TestValidateAccountCode(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"OPS-001", "PAYROLL_NGN", "A1"} {
		if err := ValidateAccountCode(code); err != nil {
			t.Fatalf("expected %q to be valid, got %v", code, err)
		}
	}

	for _, code := range []string{"", "ops-001", "-LEADING", strings.Repeat("A", MaxAccountCodeLength+1)} {
		if err := ValidateAccountCode(code); !errors.Is(err, ErrInvalidAccountCode) {
			t.Fatalf("expected %q to be rejected, got %v", code, err)
		}
	}
}

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	if err := ValidateCurrency("ngn"); err != nil {
		t.Fatalf("expected uppercase conversion to succeed, got %v", err)
	}

	if err := ValidateCurrency("XYZ"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{"two decimal places", "100.25", nil},
		{"whole number", "50", nil},
		{"zero", "0", ErrInvalidAmount},
		{"negative", "-10", ErrInvalidAmount},
		{"three decimal places", "10.001", ErrAmountPrecision},
		{"too large", "1000000000000.01", ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNormalizePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, DefaultPageSize},
		{-3, 10, 1, 10},
		{2, 500, 2, MaxPageSize},
		{4, 100, 4, 100},
		{math.MaxInt, 100, MaxPage, 100},
	}

	for _, tt := range tests {
		page, limit := NormalizePage(tt.page, tt.limit)
		if page != tt.wantPage || limit != tt.wantLimit {
			t.Fatalf("NormalizePage(%d, %d) = (%d, %d), want (%d, %d)",
				tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	if got := TotalPages(0, 50); got != 0 {
		t.Fatalf("expected 0 pages, got %d", got)
	}
	if got := TotalPages(101, 50); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if got := TotalPages(100, 100); got != 1 {
		t.Fatalf("expected 1 page, got %d", got)
	}
}
