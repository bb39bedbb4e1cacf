package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long a successful response is replayed for a
	// repeated Idempotency-Key when no TTL is configured.
	IdempotencyKeyTTL = 24 * time.Hour

	maxAccountListLimit     = 100
	defaultAccountListLimit = 20
)
