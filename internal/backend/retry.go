package backend

import (
	"context"
	"errors"
	"log"
	"time"

	"insureport/internal/port"
)

// InvokeWithRetry calls the backend, retrying only rate-limit failures with
// exponential backoff (base delay doubling per attempt) up to maxAttempts.
// All other failures surface immediately; there is no generic retry loop.
func InvokeWithRetry(ctx context.Context, b port.ModelBackend, input port.InvokeInput, maxAttempts int, baseDelay time.Duration) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	delay := baseDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := b.Invoke(ctx, input)
		if err == nil {
			return text, nil
		}
		lastErr = err

		var rlErr *RateLimitError
		if !errors.As(err, &rlErr) {
			return "", err
		}
		if attempt == maxAttempts {
			break
		}

		log.Printf("backend.InvokeWithRetry: %s rate limited, attempt %d/%d, backing off %s", b.ID(), attempt, maxAttempts, delay)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return "", lastErr
}
