// Package corpus fetches documents from an external text corpus. The
// MediaWiki client draws random main-namespace articles from Wikipedia and
// retrieves their plain-text extracts; BreakerSource guards any Source with
// a circuit breaker.
package corpus
