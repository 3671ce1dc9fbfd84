// Package wordlist reads word lists to translate. A list is either a ranked
// frequency CSV as written by wikifreq or a plain text file with one word
// per line.
package wordlist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read loads the words of a ranked CSV or plain word list file
func Read(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return Parse(content)
}

// Parse detects the format of content and returns its words in file order.
// Duplicates are dropped, keeping the first occurrence.
func Parse(content []byte) ([]string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	if isRankedCSV(content) {
		return parseCSV(content)
	}
	return parseLines(string(content)), nil
}

// isRankedCSV reports whether the first line is a header with a word column
func isRankedCSV(content []byte) bool {
	first, _, _ := bytes.Cut(content, []byte("\n"))
	header := strings.Split(strings.TrimSpace(string(first)), ",")
	return len(header) > 1 && wordColumn(header) >= 0
}

func wordColumn(header []string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "word") {
			return i
		}
	}
	return -1
}

func parseCSV(content []byte) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := wordColumn(header)

	var words []string
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV line %d: %w", line, err)
		}
		if col >= len(record) {
			continue
		}
		word := strings.TrimSpace(record[col])
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	return words, nil
}

// parseLines reads one word per line. Blank lines and lines starting with
// '#' are skipped; "word = translation" lines contribute the word.
func parseLines(content string) []string {
	var words []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if word, _, found := strings.Cut(line, "="); found {
			line = strings.TrimSpace(word)
		}
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		words = append(words, line)
	}
	return words
}

// Limit returns at most n words, or all of them when n <= 0
func Limit(words []string, n int) []string {
	if n > 0 && n < len(words) {
		return words[:n]
	}
	return words
}
