// Package processor wires one wikifreq invocation together: it builds the
// corpus client, runs the sampler with its observers, writes the ranked
// list and optionally archives, stores and translates it.
package processor
