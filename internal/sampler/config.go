package sampler

import (
	"fmt"
	"time"
)

// Config holds the parameters of a sampling run
type Config struct {
	TargetWords      int           // Stop once this many words were merged, 0 disables
	MaxDocuments     int           // Cap on fetched documents (accepted, short or empty)
	TopN             int           // Size of the ranked output
	MinDocumentWords int           // Documents with fewer tokens are discarded
	DelayMin         time.Duration // Lower bound of the politeness delay
	DelayMax         time.Duration // Upper bound of the politeness delay
	Retry            RetryConfig   // Back-off for failed fetches
}

// DefaultConfig returns the settings used for the published word lists
func DefaultConfig() Config {
	return Config{
		TargetWords:      2_000_000,
		MaxDocuments:     20_000,
		TopN:             10_000,
		MinDocumentWords: 50,
		DelayMin:         500 * time.Millisecond,
		DelayMax:         1500 * time.Millisecond,
		Retry:            DefaultRetryConfig(),
	}
}

// Validate checks the configuration before any request is made
func (c Config) Validate() error {
	if c.TargetWords < 0 {
		return fmt.Errorf("target words must not be negative, got %d", c.TargetWords)
	}
	if c.MaxDocuments <= 0 {
		return fmt.Errorf("max documents must be positive, got %d", c.MaxDocuments)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top N must be positive, got %d", c.TopN)
	}
	if c.MinDocumentWords < 0 {
		return fmt.Errorf("minimum document words must not be negative, got %d", c.MinDocumentWords)
	}
	if c.DelayMin < 0 || c.DelayMax < c.DelayMin {
		return fmt.Errorf("invalid politeness delay range [%v, %v]", c.DelayMin, c.DelayMax)
	}
	return nil
}
