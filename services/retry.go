package services

import (
	"context"
	"fmt"

	"github.com/shitcodegenerator/touching-backend/repositories"
)

const createAttempts = 3

// retryOnConflict runs op up to attempts times, retrying only when it fails
// with a unique violation. Any other error is returned at once. onConflict,
// if set, is called after each collision.
func retryOnConflict[T any](ctx context.Context, attempts int, op func(attempt int) (T, error), onConflict func(attempt int, err error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := op(attempt)
		if err == nil {
			return v, nil
		}
		if !repositories.IsUniqueViolation(err) {
			return zero, err
		}
		lastErr = err
		if onConflict != nil {
			onConflict(attempt, err)
		}
	}
	return zero, fmt.Errorf("%w after %d attempts: %v", ErrShortIDExhausted, attempts, lastErr)
}
