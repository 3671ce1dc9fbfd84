package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"codeberg.org/snonux/wikifreq/internal/corpus"
	"codeberg.org/snonux/wikifreq/internal/freq"
	"codeberg.org/snonux/wikifreq/internal/logger"
	"codeberg.org/snonux/wikifreq/internal/tokenize"
)

// StopReason tells why a run ended
type StopReason string

const (
	StopNone              StopReason = ""
	StopTargetReached     StopReason = "target-reached"
	StopMaxDocuments      StopReason = "max-documents"
	StopInterrupted       StopReason = "interrupted"
	StopSourceUnavailable StopReason = "source-unavailable"
)

// RunState holds the counters of one run. All counters only grow.
type RunState struct {
	TotalWords         int
	DocumentsAccepted  int
	DocumentsAttempted int // Every fetched document, accepted or not
	DocumentsEmpty     int // Fetched documents without an extract
	DocumentsShort     int // Fetched documents below the minimum word count
	FetchFailures      int // Failed requests, retried
	StopReason         StopReason
	StartedAt          time.Time
	FinishedAt         time.Time
}

// Result is the outcome of a run
type Result struct {
	State   RunState
	Table   *freq.Table
	Ranking []freq.Entry
}

// EmptyResultError is returned when a run collected no words at all
type EmptyResultError struct {
	State RunState
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no words collected from %d fetched documents (stopped: %s)", e.State.DocumentsAttempted, e.State.StopReason)
}

// Sampler runs the sampling loop against a corpus source
type Sampler struct {
	source    corpus.Source
	tokenizer *tokenize.Tokenizer
	observer  Observer
	log       *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	rand  *rand.Rand
}

// New creates a sampler. A nil tokenizer means English, a nil observer
// discards progress.
func New(source corpus.Source, tokenizer *tokenize.Tokenizer, observer Observer) *Sampler {
	if tokenizer == nil {
		tokenizer = tokenize.New(tokenize.English, "en")
	}
	if observer == nil {
		observer = nopObserver{}
	}

	return &Sampler{
		source:    source,
		tokenizer: tokenizer,
		observer:  observer,
		log:       logger.WithComponent("sampler"),
		sleep:     sleepContext,
		now:       time.Now,
		rand:      newRand(),
	}
}

// Run samples documents until a stopping condition holds and ranks the
// collected words. Cancelling ctx stops the loop between documents and
// keeps the partial table; requests already in flight run to completion.
// A run without any collected word returns *EmptyResultError.
func (s *Sampler) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table := freq.NewTable()
	state := RunState{StartedAt: s.now()}
	fetchCtx := context.WithoutCancel(ctx)

	s.log.Info("sampling started",
		"source", s.source.Name(),
		"target_words", cfg.TargetWords,
		"max_documents", cfg.MaxDocuments,
		"min_document_words", cfg.MinDocumentWords,
		"tokenizer", s.tokenizer.Mode(),
	)

	for {
		if reason, done := shouldStop(cfg, state); done {
			state.StopReason = reason
			break
		}
		if ctx.Err() != nil {
			state.StopReason = StopInterrupted
			break
		}

		var title string
		err := s.retry(ctx, "random title", cfg.Retry, func() error {
			var err error
			title, err = s.source.RandomTitle(fetchCtx)
			if err != nil {
				state.FetchFailures++
			}
			return err
		})
		if err != nil {
			state.StopReason = stopReasonFor(err)
			break
		}

		var text string
		err = s.retry(ctx, "extract", cfg.Retry, func() error {
			var err error
			text, err = s.source.Extract(fetchCtx, title)
			if err != nil {
				state.FetchFailures++
			}
			return err
		})
		if err != nil {
			state.StopReason = stopReasonFor(err)
			break
		}

		state.DocumentsAttempted++

		if text == "" {
			state.DocumentsEmpty++
			s.log.Debug("skipping document without extract", "title", title)
			continue
		}

		tokens := s.tokenizer.Tokenize(text)
		if len(tokens) < cfg.MinDocumentWords {
			state.DocumentsShort++
			s.log.Debug("skipping short document", "title", title, "words", len(tokens), "min", cfg.MinDocumentWords)
			continue
		}

		table.Add(tokens)
		state.TotalWords += len(tokens)
		state.DocumentsAccepted++

		s.observer.Accepted(Progress{
			Title:        title,
			Words:        len(tokens),
			State:        state,
			TargetWords:  cfg.TargetWords,
			MaxDocuments: cfg.MaxDocuments,
			Table:        table,
		})

		if _, done := shouldStop(cfg, state); done {
			continue
		}
		if err := s.sleep(ctx, s.politenessDelay(cfg)); err != nil {
			state.StopReason = StopInterrupted
			break
		}
	}

	state.FinishedAt = s.now()
	s.log.Info("sampling finished",
		"reason", state.StopReason,
		"words", state.TotalWords,
		"accepted", state.DocumentsAccepted,
		"attempted", state.DocumentsAttempted,
		"fetch_failures", state.FetchFailures,
		"duration", state.FinishedAt.Sub(state.StartedAt),
	)

	result := &Result{State: state, Table: table}
	if state.TotalWords == 0 {
		return result, &EmptyResultError{State: state}
	}

	result.Ranking = table.Top(cfg.TopN)
	return result, nil
}

// shouldStop checks the word target before the document cap
func shouldStop(cfg Config, state RunState) (StopReason, bool) {
	if cfg.TargetWords > 0 && state.TotalWords >= cfg.TargetWords {
		return StopTargetReached, true
	}
	if state.DocumentsAttempted >= cfg.MaxDocuments {
		return StopMaxDocuments, true
	}
	return StopNone, false
}

func stopReasonFor(err error) StopReason {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return StopInterrupted
	}
	return StopSourceUnavailable
}

// politenessDelay draws a uniform delay from [DelayMin, DelayMax]
func (s *Sampler) politenessDelay(cfg Config) time.Duration {
	span := cfg.DelayMax - cfg.DelayMin
	if span <= 0 {
		return cfg.DelayMin
	}
	return cfg.DelayMin + time.Duration(s.rand.Int63n(int64(span)+1))
}
