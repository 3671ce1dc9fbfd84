// Package sampler implements the corpus sampling loop. It draws random
// documents from a corpus.Source one at a time, tokenizes them, merges
// accepted documents into a frequency table and stops on a word target, a
// document cap, cancellation or an unavailable source.
package sampler
