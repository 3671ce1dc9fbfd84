package corpus

import (
	"context"
	"fmt"
	"time"
)

// Source is an external corpus that can hand out random documents
type Source interface {
	// RandomTitle returns the title of a random content-namespace document
	RandomTitle(ctx context.Context) (string, error)

	// Extract returns the plain-text extract for title. An empty string
	// with a nil error means the service has no extract for it.
	Extract(ctx context.Context, title string) (string, error)

	// Name returns the name of the corpus
	Name() string
}

// TransientFetchError reports a failed request to the corpus service.
// Network errors, non-OK statuses and malformed responses all map to it;
// callers are expected to retry.
type TransientFetchError struct {
	Op         string        // "random" or "extract"
	Title      string        // Document title for extract requests
	StatusCode int           // HTTP status, 0 when no response was received
	RetryAfter time.Duration // Server supplied back-off, if any
	Err        error
}

func (e *TransientFetchError) Error() string {
	msg := e.Op
	if e.Title != "" {
		msg += fmt.Sprintf(" %q", e.Title)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// APIError is an error object returned by the MediaWiki API
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return "mediawiki: " + e.Code + ": " + e.Info
}
