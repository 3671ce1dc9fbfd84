package translation

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/wikifreq/internal/logger"
)

// DefaultParallelism bounds how many target languages are translated at once
const DefaultParallelism = 3

// Table holds a word list and its translations. Rows follow the order of
// Words; a failed lookup leaves an empty cell.
type Table struct {
	Source  string              // Language code of Words
	Targets []string            // Target language codes, in column order
	Words   []string            // Source words
	Columns map[string][]string // Target language code to translations
}

// Row returns the source word and its translations in column order
func (t *Table) Row(i int) []string {
	row := make([]string, 0, len(t.Targets)+1)
	row = append(row, t.Words[i])
	for _, lang := range t.Targets {
		row = append(row, t.Columns[lang][i])
	}
	return row
}

// Failures counts empty cells per target language
func (t *Table) Failures() map[string]int {
	failures := make(map[string]int, len(t.Targets))
	for _, lang := range t.Targets {
		for _, cell := range t.Columns[lang] {
			if cell == "" {
				failures[lang]++
			}
		}
	}
	return failures
}

// ParseLanguages splits a comma separated list of language codes, dropping
// blanks, duplicates and the source language
func ParseLanguages(list, source string) []string {
	var langs []string
	seen := map[string]bool{strings.ToLower(source): true}
	for _, part := range strings.Split(list, ",") {
		lang := strings.ToLower(strings.TrimSpace(part))
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	return langs
}

// BuildTable translates words into every target language. Languages are
// processed concurrently, at most parallel at a time; words within one
// language are translated in order. Individual failures are logged and
// leave an empty cell. Only cancellation of ctx aborts the build.
func BuildTable(ctx context.Context, tr Translator, words []string, source string, targets []string, parallel int) (*Table, error) {
	if parallel <= 0 {
		parallel = DefaultParallelism
	}

	log := logger.WithComponent("translation")
	table := &Table{
		Source:  source,
		Targets: targets,
		Words:   words,
		Columns: make(map[string][]string, len(targets)),
	}

	columns := make([][]string, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, lang := range targets {
		g.Go(func() error {
			column := make([]string, len(words))
			for j, word := range words {
				if err := gctx.Err(); err != nil {
					return err
				}
				translated, err := tr.Translate(gctx, word, source, lang)
				if err != nil {
					log.Warn("translation failed", "provider", tr.Name(), "word", word, "to", lang, "error", err)
					continue
				}
				column[j] = translated
			}
			columns[i] = column
			log.Info("language translated", "to", lang, "words", len(words))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("translation aborted: %w", err)
	}

	for i, lang := range targets {
		table.Columns[lang] = columns[i]
	}
	return table, nil
}

// WriteCSV writes the table with a header of language codes
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create translation file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := append([]string{t.Source}, t.Targets...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := range t.Words {
		if err := writer.Write(t.Row(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return file.Close()
}

// TablePath derives the translation file name from a ranked CSV path
func TablePath(csvPath string) string {
	ext := filepath.Ext(csvPath)
	return strings.TrimSuffix(csvPath, ext) + "_translations" + ext
}
