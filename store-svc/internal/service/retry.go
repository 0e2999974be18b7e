package service

import (
	"context"
	"time"

	"curry-craft/store-svc/internal/domain"

	"go.uber.org/zap"
)

// Retrier repeats calls that failed with a DependencyError, at most Attempts times.
type Retrier struct {
	Attempts int
	Backoff  time.Duration
	Logger   *zap.Logger
}

func NewRetrier(attempts int, backoff time.Duration, logger *zap.Logger) Retrier {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Retrier{Attempts: attempts, Backoff: backoff, Logger: logger}
}

func (r Retrier) Do(ctx context.Context, op string, fn func() error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = domain.AsDependency(op, fn())
		if err == nil || !domain.IsDependency(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if r.Logger != nil {
			r.Logger.Warn("retrying dependency call",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return &domain.DependencyError{Op: op, Err: ctx.Err()}
		case <-time.After(r.Backoff * time.Duration(attempt)):
		}
	}
	return err
}
