package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"talkbill/internal/domain"
	"talkbill/internal/domain/ports/adapter"
	"talkbill/internal/infra/metrics"
)

// Invoker wraps every inference call in a bounded retry policy: up to
// MaxRetries additional attempts after the first, a fixed delay between
// attempts, no backoff, no jitter. The delay blocks only the invoking
// job's goroutine. After the last attempt the failure is re-raised
// wrapped in domain.ErrInference, never swallowed.
type Invoker struct {
	client     adapter.InferenceClient
	maxRetries int
	delay      time.Duration
	log        *zerolog.Logger
}

func NewInvoker(client adapter.InferenceClient, maxRetries int, delay time.Duration, logger *zerolog.Logger) *Invoker {
	if maxRetries < 0 {
		maxRetries = 0
	}
	l := logger.With().Str("component", "Invoker").Logger()
	return &Invoker{client: client, maxRetries: maxRetries, delay: delay, log: &l}
}

// Invoke calls the inference capability and decodes its JSON result into
// out. A decode failure counts as a failed attempt, the same as a
// transport failure: a result that does not fit the expected shape is
// garbage and must not leak to the caller.
func (v *Invoker) Invoke(ctx context.Context, req adapter.InferenceRequest, out any) error {
	var lastErr error

	for attempt := 0; attempt <= v.maxRetries; attempt++ {
		metrics.IncInferenceAttempt(string(req.Kind))
		start := time.Now()
		raw, err := v.client.Infer(ctx, req)
		if err == nil {
			err = json.Unmarshal(raw, out)
		}
		metrics.ObserveInferenceLatency(string(req.Kind), int(time.Since(start)/time.Millisecond), err == nil)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < v.maxRetries {
			v.log.Warn().
				Err(err).
				Str("kind", string(req.Kind)).
				Int("attempt", attempt+1).
				Int("max_retries", v.maxRetries).
				Dur("retry_delay", v.delay).
				Msg("inference invoke failed, retrying")
			if err := sleepCtx(ctx, v.delay); err != nil {
				return fmt.Errorf("%w: %v (interrupted: %v)", domain.ErrInference, lastErr, err)
			}
			continue
		}

		metrics.IncInferenceExhausted(string(req.Kind))
		v.log.Warn().
			Err(err).
			Str("kind", string(req.Kind)).
			Int("total_attempts", v.maxRetries+1).
			Msg("inference invoke failed after all attempts")
	}

	return fmt.Errorf("%w: %v", domain.ErrInference, lastErr)
}

// sleepCtx waits for d without blocking other in-flight invocations.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
