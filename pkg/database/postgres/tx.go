package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// RetryPolicy bounds how often a transaction is replayed after transient
// contention. Backoff doubles after every failed attempt.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 100 * time.Millisecond}

// ErrRetriesExhausted wraps the last transient error once the policy gives up.
var ErrRetriesExhausted = errors.New("postgres: transaction retries exhausted")

// Postgres SQLSTATE codes that signal the transaction can simply be replayed.
var transientCodes = map[pq.ErrorCode]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
}

func IsTransient(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		_, ok := transientCodes[pqErr.Code]
		return ok
	}
	return false
}

// RunInTx runs fn inside a transaction, committing on nil and rolling back
// otherwise. Transient failures replay fn from scratch, so fn must not keep
// state between attempts.
func RunInTx(ctx context.Context, db *sqlx.DB, policy RetryPolicy, fn func(tx *sqlx.Tx) error) error {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	delay := policy.Backoff

	var err error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		err = runOnce(ctx, db, fn)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt == policy.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
}

func runOnce(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
