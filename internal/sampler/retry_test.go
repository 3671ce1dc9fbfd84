package sampler

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeberg.org/snonux/wikifreq/internal/corpus"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	s, sleeps := newTestSampler(&fakeSource{}, nil)
	cfg := RetryConfig{MaxAttempts: 4, InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	calls := 0
	err := s.retry(context.Background(), "test", cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(*sleeps) != len(want) {
		t.Fatalf("expected sleeps %v, got %v", want, *sleeps)
	}
	for i := range want {
		if (*sleeps)[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, (*sleeps)[i], want[i])
		}
	}
}

func TestRetryExhausted(t *testing.T) {
	s, sleeps := newTestSampler(&fakeSource{}, nil)
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond}

	cause := errors.New("still down")
	calls := 0
	err := s.retry(context.Background(), "extract", cfg, func() error {
		calls++
		return cause
	})

	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("last error should be wrapped, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(*sleeps) != 2 {
		t.Errorf("no sleep after the last attempt, got %v", *sleeps)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	s, _ := newTestSampler(&fakeSource{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := s.retry(ctx, "random title", RetryConfig{MaxAttempts: 5}, func() error {
		calls++
		return errors.New("down")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestBackoff(t *testing.T) {
	s, _ := newTestSampler(&fakeSource{}, nil)
	cfg := RetryConfig{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}.withDefaults()
	cfg.JitterFraction = 0

	tests := []struct {
		name    string
		attempt int
		err     error
		want    time.Duration
	}{
		{"first", 1, errors.New("x"), time.Second},
		{"second", 2, errors.New("x"), 2 * time.Second},
		{"capped", 6, errors.New("x"), 5 * time.Second},
		{"retry after wins", 1, &corpus.TransientFetchError{StatusCode: 429, RetryAfter: 30 * time.Second}, 30 * time.Second},
		{"shorter retry after ignored", 3, &corpus.TransientFetchError{StatusCode: 429, RetryAfter: time.Second}, 4 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.backoff(tt.attempt, cfg, tt.err); got != tt.want {
				t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestBackoffJitterStaysInBounds(t *testing.T) {
	s, _ := newTestSampler(&fakeSource{}, nil)
	cfg := RetryConfig{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2, JitterFraction: 0.1}

	for i := 0; i < 100; i++ {
		d := s.backoff(1, cfg, errors.New("x"))
		if d < 900*time.Millisecond || d > 1100*time.Millisecond {
			t.Fatalf("jittered delay %v outside 10%% of 1s", d)
		}
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled sleep must return immediately")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no target", func(c *Config) { c.TargetWords = 0 }, false},
		{"negative target", func(c *Config) { c.TargetWords = -1 }, true},
		{"zero max documents", func(c *Config) { c.MaxDocuments = 0 }, true},
		{"zero top n", func(c *Config) { c.TopN = 0 }, true},
		{"negative min words", func(c *Config) { c.MinDocumentWords = -5 }, true},
		{"inverted delay", func(c *Config) { c.DelayMin, c.DelayMax = 2*time.Second, time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
