package corpus

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/wikifreq/internal/logger"
)

// BreakerConfig controls when the corpus circuit opens and how long it stays open
type BreakerConfig struct {
	ConsecutiveFailures uint32        // Failures in a row that trip the breaker
	OpenTimeout         time.Duration // Time spent open before a probe is allowed
	HalfOpenRequests    uint32        // Probes allowed while half-open

	// OnStateChange is called after every transition, may be nil
	OnStateChange func(from, to gobreaker.State)
}

// DefaultBreakerConfig trips after five failures and probes again after 30s
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
	}
}

// BreakerSource wraps a Source with a circuit breaker. Rejected calls are
// reported as TransientFetchError so that callers keep backing off.
type BreakerSource struct {
	source Source
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerSource guards source with a circuit breaker
func NewBreakerSource(source Source, cfg BreakerConfig) *BreakerSource {
	defaults := DefaultBreakerConfig()
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = defaults.ConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = defaults.HalfOpenRequests
	}

	log := logger.WithComponent("circuit-breaker")
	threshold := cfg.ConsecutiveFailures
	onChange := cfg.OnStateChange

	settings := gobreaker.Settings{
		Name:        source.Name(),
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("corpus circuit changed state", "source", name, "from", from.String(), "to", to.String())
			if onChange != nil {
				onChange(from, to)
			}
		},
	}

	return &BreakerSource{
		source: source,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

// Name returns the name of the wrapped source
func (b *BreakerSource) Name() string {
	return b.source.Name()
}

// State returns the current breaker state
func (b *BreakerSource) State() gobreaker.State {
	return b.cb.State()
}

// RandomTitle forwards to the wrapped source when the circuit allows it
func (b *BreakerSource) RandomTitle(ctx context.Context) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.source.RandomTitle(ctx)
	})
	if err != nil {
		return "", b.wrap("random", "", err)
	}
	return out.(string), nil
}

// Extract forwards to the wrapped source when the circuit allows it
func (b *BreakerSource) Extract(ctx context.Context, title string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.source.Extract(ctx, title)
	})
	if err != nil {
		return "", b.wrap("extract", title, err)
	}
	return out.(string), nil
}

func (b *BreakerSource) wrap(op, title string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &TransientFetchError{Op: op, Title: title, Err: err}
	}
	return err
}
