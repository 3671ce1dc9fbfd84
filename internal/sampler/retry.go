package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"codeberg.org/snonux/wikifreq/internal/corpus"
)

// ErrRetriesExhausted is returned when every attempt of a fetch failed
var ErrRetriesExhausted = errors.New("retries exhausted")

// RetryConfig describes the back-off between failed fetches
type RetryConfig struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64
}

// DefaultRetryConfig starts with a two second pause and gives up after
// eight attempts
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    8,
		InitialDelay:   2 * time.Second,
		MaxDelay:       time.Minute,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func (cfg RetryConfig) withDefaults() RetryConfig {
	defaults := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = defaults.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaults.MaxDelay
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = defaults.Multiplier
	}
	if cfg.JitterFraction < 0 {
		cfg.JitterFraction = 0
	}
	return cfg
}

// retry calls fn until it succeeds, the attempts run out or ctx is done.
// Waits go through sleep so that tests need no real time.
func (s *Sampler) retry(ctx context.Context, name string, cfg RetryConfig, fn func() error) error {
	cfg = cfg.withDefaults()
	log := s.log.With("operation", name)

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				log.Info("succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := s.backoff(attempt, cfg, lastErr)
		log.Warn("fetch failed, retrying", "attempt", attempt, "max_attempts", cfg.MaxAttempts, "error", lastErr, "next_delay", delay)

		if err := s.sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
	}

	log.Error("giving up", "attempts", cfg.MaxAttempts, "error", lastErr)
	return fmt.Errorf("%w: %s after %d attempts: %w", ErrRetriesExhausted, name, cfg.MaxAttempts, lastErr)
}

// backoff grows the delay exponentially and honours a server Retry-After
func (s *Sampler) backoff(attempt int, cfg RetryConfig, err error) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	delay += delay * cfg.JitterFraction * (2*s.rand.Float64() - 1)
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if delay < 0 {
		delay = float64(cfg.InitialDelay)
	}

	var fetchErr *corpus.TransientFetchError
	if errors.As(err, &fetchErr) && fetchErr.RetryAfter > time.Duration(delay) {
		return fetchErr.RetryAfter
	}
	return time.Duration(delay)
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
