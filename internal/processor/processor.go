package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"codeberg.org/snonux/wikifreq/internal"
	"codeberg.org/snonux/wikifreq/internal/archive"
	"codeberg.org/snonux/wikifreq/internal/cli"
	"codeberg.org/snonux/wikifreq/internal/corpus"
	"codeberg.org/snonux/wikifreq/internal/freq"
	"codeberg.org/snonux/wikifreq/internal/logger"
	"codeberg.org/snonux/wikifreq/internal/metrics"
	"codeberg.org/snonux/wikifreq/internal/progress"
	"codeberg.org/snonux/wikifreq/internal/sampler"
	"codeberg.org/snonux/wikifreq/internal/store"
	"codeberg.org/snonux/wikifreq/internal/tokenize"
	"codeberg.org/snonux/wikifreq/internal/translation"
	"codeberg.org/snonux/wikifreq/internal/wordlist"
)

// listRunsTopWords is how many words --list-runs shows per run
const listRunsTopWords = 5

// Report describes what a run produced
type Report struct {
	Result          *sampler.Result
	CSVPath         string
	ArchivedPath    string // Previous output moved away by --archive
	RunID           string // Set when the run was stored in a database
	TranslationPath string
}

// Processor handles the main processing logic
type Processor struct {
	flags    *cli.Flags
	out      io.Writer // User-facing summaries
	progress io.Writer // Progress lines, nil disables them
	log      *slog.Logger

	// Built from flags when nil
	source     corpus.Source
	translator translation.Translator
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags:    flags,
		out:      os.Stdout,
		progress: os.Stderr,
		log:      logger.WithComponent("processor"),
	}
}

// Run samples the corpus and writes the ranked word list. An interrupted
// run still writes what it collected. A run without any word returns
// *sampler.EmptyResultError and writes nothing.
func (p *Processor) Run(ctx context.Context) (*Report, error) {
	cfg := p.flags.SamplerConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	mode, err := tokenize.ParseMode(p.flags.Tokenizer)
	if err != nil {
		return nil, err
	}
	tokenizer := tokenize.New(mode, p.flags.Language)

	// Fail before sampling when translation cannot work
	targets := translation.ParseLanguages(p.flags.Translate, p.flags.Language)
	var tr translation.Translator
	if len(targets) > 0 {
		if tr, err = p.getTranslator(ctx); err != nil {
			return nil, err
		}
	}

	var m *metrics.Metrics
	if p.flags.MetricsAddr != "" {
		m = metrics.New()
		srv, err := metrics.StartServer(p.flags.MetricsAddr, m)
		if err != nil {
			return nil, err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	observers := sampler.MultiObserver{}
	var reporter *progress.Reporter
	if !p.flags.NoProgress && p.progress != nil {
		reporter = progress.New(p.progress)
		observers = append(observers, reporter)
	}
	if m != nil {
		observers = append(observers, m)
	}

	s := sampler.New(p.buildSource(m), tokenizer, observers)
	result, err := s.Run(ctx, cfg)
	if reporter != nil {
		reporter.Done()
	}
	if m != nil && result != nil {
		m.RecordState(result.State)
	}
	if err != nil {
		return nil, err
	}

	report := &Report{Result: result}
	if err := p.writeRanking(report); err != nil {
		return nil, err
	}

	if p.flags.DBPath != "" {
		if err := p.storeRun(ctx, report, cfg); err != nil {
			return nil, err
		}
	}

	if len(targets) > 0 {
		if ctx.Err() != nil {
			p.log.Warn("translation skipped after interrupt", "targets", targets)
			fmt.Fprintln(p.out, "Run interrupted, skipping translation.")
			return report, nil
		}
		words := make([]string, len(result.Ranking))
		for i, e := range result.Ranking {
			words[i] = e.Word
		}
		path, err := p.translate(ctx, tr, words, targets, translation.TablePath(report.CSVPath))
		if err != nil {
			return nil, err
		}
		report.TranslationPath = path
	}

	return report, nil
}

// writeRanking archives the previous list if asked to and writes the CSV
func (p *Processor) writeRanking(report *Report) error {
	state := report.Result.State
	report.CSVPath = filepath.Join(p.flags.OutputDir, internal.OutputFileName(p.flags.Language, p.flags.TopN))

	if p.flags.Archive {
		archived, err := archive.ArchiveFile(report.CSVPath)
		switch {
		case err == nil:
			report.ArchivedPath = archived
			fmt.Fprintf(p.out, "Archived previous list to %s\n", archived)
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}

	if err := freq.WriteCSV(report.CSVPath, report.Result.Ranking); err != nil {
		return err
	}

	if state.StopReason == sampler.StopInterrupted {
		fmt.Fprintln(p.out, "Run interrupted, writing partial results.")
	}
	fmt.Fprintf(p.out, "Collected %s words from %s articles.\n",
		humanize.Comma(int64(state.TotalWords)), humanize.Comma(int64(state.DocumentsAccepted)))
	fmt.Fprintf(p.out, "Wrote top %s words to %s\n", humanize.Comma(int64(len(report.Result.Ranking))), report.CSVPath)
	return nil
}

func (p *Processor) storeRun(ctx context.Context, report *Report, cfg sampler.Config) error {
	db, err := store.Open(p.flags.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	state := report.Result.State
	run := store.Run{
		Language:           p.flags.Language,
		Source:             p.sourceName(),
		TargetWords:        cfg.TargetWords,
		MaxDocuments:       cfg.MaxDocuments,
		TopN:               cfg.TopN,
		MinDocumentWords:   cfg.MinDocumentWords,
		TotalWords:         state.TotalWords,
		DocumentsAccepted:  state.DocumentsAccepted,
		DocumentsAttempted: state.DocumentsAttempted,
		StopReason:         string(state.StopReason),
		StartedAt:          state.StartedAt,
		FinishedAt:         state.FinishedAt,
	}

	// The run itself is done, so storing it should not be cut short
	id, err := db.SaveRun(context.WithoutCancel(ctx), run, report.Result.Ranking)
	if err != nil {
		return err
	}
	report.RunID = id
	p.log.Debug("run stored", "id", id, "db", p.flags.DBPath, "words", len(report.Result.Ranking))
	fmt.Fprintf(p.out, "Stored run %s in %s\n", id, p.flags.DBPath)
	return nil
}

// TranslateWordList translates a ranked CSV or plain word list and returns
// the path of the written translation table
func (p *Processor) TranslateWordList(ctx context.Context, path string) (string, error) {
	targets := translation.ParseLanguages(p.flags.Translate, p.flags.Language)
	if len(targets) == 0 {
		return "", fmt.Errorf("no target languages given, use --translate (e.g. --translate ar,fr,de)")
	}

	words, err := wordlist.Read(path)
	if err != nil {
		return "", err
	}
	words = wordlist.Limit(words, p.flags.TranslateLimit)
	if len(words) == 0 {
		return "", fmt.Errorf("word list %s is empty", path)
	}

	tr, err := p.getTranslator(ctx)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(p.out, "Translating %s words into %d languages...\n", humanize.Comma(int64(len(words))), len(targets))
	return p.translate(ctx, tr, words, targets, translation.TablePath(path))
}

func (p *Processor) translate(ctx context.Context, tr translation.Translator, words, targets []string, outPath string) (string, error) {
	cached := translation.NewCachedTranslator(tr, nil)
	table, err := translation.BuildTable(ctx, cached, words, p.flags.Language, targets, p.flags.TranslateParallel)
	if err != nil {
		return "", err
	}

	if err := table.WriteCSV(outPath); err != nil {
		return "", err
	}

	failures := table.Failures()
	for _, lang := range targets {
		if failures[lang] > 0 {
			fmt.Fprintf(p.out, "  %s: %d of %d words could not be translated\n", lang, failures[lang], len(words))
		}
	}
	fmt.Fprintf(p.out, "Wrote translations to %s\n", outPath)
	return outPath, nil
}

// getTranslator returns the injected translator or builds one from flags
func (p *Processor) getTranslator(ctx context.Context) (translation.Translator, error) {
	if p.translator != nil {
		return p.translator, nil
	}

	provider := p.flags.TranslateProvider
	apiKey := cli.GetAPIKey(provider)
	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider %q", translation.ErrMissingAPIKey, provider)
	}

	tr, err := translation.New(ctx, translation.Config{
		Provider: provider,
		APIKey:   apiKey,
		Model:    p.flags.TranslateModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}
	p.log.Debug("translator created", "provider", tr.Name(), "model", p.flags.TranslateModel)
	p.translator = tr
	return tr, nil
}

// buildSource returns the injected source or a MediaWiki client behind a
// circuit breaker, instrumented when m is not nil
func (p *Processor) buildSource(m *metrics.Metrics) corpus.Source {
	if p.source != nil {
		return p.source
	}

	var source corpus.Source = corpus.NewMediaWikiClient(corpus.ClientConfig{
		Language:          p.flags.Language,
		Endpoint:          p.flags.Endpoint,
		UserAgent:         p.flags.UserAgent,
		RequestsPerSecond: p.flags.RequestsPerSecond,
	})

	breakerCfg := corpus.DefaultBreakerConfig()
	if m != nil {
		source = m.Instrument(source)
		breakerCfg.OnStateChange = m.BreakerStateFunc(source.Name())
	}
	return corpus.NewBreakerSource(source, breakerCfg)
}

func (p *Processor) sourceName() string {
	if p.source != nil {
		return p.source.Name()
	}
	return "mediawiki"
}

// ListRuns prints the runs stored in the --db database, newest first, with
// their most frequent words
func (p *Processor) ListRuns(ctx context.Context) error {
	if p.flags.DBPath == "" {
		return fmt.Errorf("--list-runs needs a database, use --db")
	}
	if _, err := os.Stat(p.flags.DBPath); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db, err := store.Open(p.flags.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(p.out, "No runs stored in %s\n", p.flags.DBPath)
		return nil
	}

	for _, run := range runs {
		top, err := db.Words(ctx, run.ID, listRunsTopWords)
		if err != nil {
			return err
		}
		words := make([]string, len(top))
		for i, e := range top {
			words[i] = e.Word
		}

		fmt.Fprintf(p.out, "%s  %s  %-3s %s words, %s/%s articles, %s\n",
			run.ID, run.StartedAt.Local().Format("2006-01-02 15:04"), run.Language,
			humanize.Comma(int64(run.TotalWords)),
			humanize.Comma(int64(run.DocumentsAccepted)), humanize.Comma(int64(run.DocumentsAttempted)),
			run.StopReason)
		fmt.Fprintf(p.out, "    top: %s\n", strings.Join(words, ", "))
	}
	return nil
}
