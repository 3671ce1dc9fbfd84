// Package freq holds the word frequency table built during a sampling run,
// ranks it, and writes the ranked list as CSV.
package freq
