package cli

import (
	"time"

	"codeberg.org/snonux/wikifreq/internal/sampler"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile     string
	OutputDir   string
	Archive     bool
	DBPath      string
	ListModels  bool
	ListRuns    bool
	NoProgress  bool
	LogLevel    string
	LogFormat   string
	MetricsAddr string

	// Corpus flags
	Language          string
	Endpoint          string
	UserAgent         string
	RequestsPerSecond float64
	Tokenizer         string

	// Sampler flags
	TargetWords      int
	MaxDocuments     int
	TopN             int
	MinDocumentWords int
	DelayMin         time.Duration
	DelayMax         time.Duration
	RetryAttempts    int

	// Translation flags
	Translate         string
	TranslateProvider string
	TranslateModel    string
	TranslateParallel int
	TranslateLimit    int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	defaults := sampler.DefaultConfig()
	return &Flags{
		OutputDir:         ".",
		LogLevel:          "info",
		LogFormat:         "text",
		Language:          "en",
		RequestsPerSecond: 5,
		Tokenizer:         "auto",
		TargetWords:       defaults.TargetWords,
		MaxDocuments:      defaults.MaxDocuments,
		TopN:              defaults.TopN,
		MinDocumentWords:  defaults.MinDocumentWords,
		DelayMin:          defaults.DelayMin,
		DelayMax:          defaults.DelayMax,
		RetryAttempts:     defaults.Retry.MaxAttempts,
		TranslateProvider: "openai",
		TranslateParallel: 3,
	}
}

// SamplerConfig converts the sampler flags into a run configuration
func (f *Flags) SamplerConfig() sampler.Config {
	retry := sampler.DefaultRetryConfig()
	if f.RetryAttempts > 0 {
		retry.MaxAttempts = f.RetryAttempts
	}

	return sampler.Config{
		TargetWords:      f.TargetWords,
		MaxDocuments:     f.MaxDocuments,
		TopN:             f.TopN,
		MinDocumentWords: f.MinDocumentWords,
		DelayMin:         f.DelayMin,
		DelayMax:         f.DelayMax,
		Retry:            retry,
	}
}
