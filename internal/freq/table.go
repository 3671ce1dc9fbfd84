package freq

import (
	"math"
	"sort"
)

// PerMillion is the corpus size counts are normalized to
const PerMillion = 1_000_000.0

// View is the read-only side of a Table
type View interface {
	Len() int
	Total() int
	Sum() int
	Count(word string) int
}

// Entry is one row of a ranked frequency list
type Entry struct {
	Rank           int
	Word           string
	Count          int
	FreqPerMillion float64
}

// Table counts word occurrences and remembers the order in which words
// were first seen. It has a single writer and is not safe for concurrent use.
type Table struct {
	counts map[string]int
	order  []string
	total  int
}

// NewTable creates an empty frequency table
func NewTable() *Table {
	return &Table{
		counts: make(map[string]int),
	}
}

// Add merges tokens into the table
func (t *Table) Add(tokens []string) {
	for _, tok := range tokens {
		if _, seen := t.counts[tok]; !seen {
			t.order = append(t.order, tok)
		}
		t.counts[tok]++
	}
	t.total += len(tokens)
}

// Len returns the number of distinct words
func (t *Table) Len() int {
	return len(t.order)
}

// Total returns the number of tokens merged so far
func (t *Table) Total() int {
	return t.total
}

// Sum recomputes the total from the individual counts
func (t *Table) Sum() int {
	sum := 0
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// Count returns the occurrences of word
func (t *Table) Count(word string) int {
	return t.counts[word]
}

// Top returns the n most frequent words. Equal counts keep first-seen
// order, and n <= 0 or n > Len() returns every word.
func (t *Table) Top(n int) []Entry {
	words := make([]string, len(t.order))
	copy(words, t.order)

	sort.SliceStable(words, func(i, j int) bool {
		return t.counts[words[i]] > t.counts[words[j]]
	})

	if n > 0 && n < len(words) {
		words = words[:n]
	}

	entries := make([]Entry, len(words))
	for i, w := range words {
		c := t.counts[w]
		entries[i] = Entry{
			Rank:           i + 1,
			Word:           w,
			Count:          c,
			FreqPerMillion: PerMillionRate(c, t.total),
		}
	}
	return entries
}

// PerMillionRate scales count to a corpus of one million words, rounded
// to six decimal digits
func PerMillionRate(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	factor := PerMillion / float64(total)
	return math.Round(float64(count)*factor*1e6) / 1e6
}
