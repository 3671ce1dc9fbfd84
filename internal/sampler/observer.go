package sampler

import "codeberg.org/snonux/wikifreq/internal/freq"

// Progress is passed to observers after every accepted document
type Progress struct {
	Title        string    // Title of the accepted document
	Words        int       // Tokens contributed by the document
	State        RunState  // Counters after merging the document
	TargetWords  int       // Configured word target, 0 when unset
	MaxDocuments int       // Configured document cap
	Table        freq.View // Read-only view of the table
}

// Observer is notified about sampling progress. It is informational only
// and cannot influence the run.
type Observer interface {
	Accepted(p Progress)
}

// ObserverFunc adapts a plain function to Observer
type ObserverFunc func(p Progress)

// Accepted calls f(p)
func (f ObserverFunc) Accepted(p Progress) {
	f(p)
}

// MultiObserver fans progress out to several observers
type MultiObserver []Observer

// Accepted notifies every non-nil observer in order
func (m MultiObserver) Accepted(p Progress) {
	for _, o := range m {
		if o != nil {
			o.Accepted(p)
		}
	}
}

type nopObserver struct{}

func (nopObserver) Accepted(Progress) {}
