package translation

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseLanguages(t *testing.T) {
	tests := []struct {
		list   string
		source string
		want   []string
	}{
		{"ar,fr,de", "en", []string{"ar", "fr", "de"}},
		{" FR , de ,,fr", "en", []string{"fr", "de"}},
		{"en,fr", "en", []string{"fr"}},
		{"", "en", nil},
	}

	for _, tt := range tests {
		got := ParseLanguages(tt.list, tt.source)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseLanguages(%q, %q) = %v, want %v", tt.list, tt.source, got, tt.want)
		}
	}
}

func TestBuildTable(t *testing.T) {
	tr := &countingTranslator{fail: map[string]bool{"of": true}}
	words := []string{"the", "of", "and"}

	table, err := BuildTable(context.Background(), tr, words, "en", []string{"ar", "fr", "de"}, 2)
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	wantRows := [][]string{
		{"the", "ar:the", "fr:the", "de:the"},
		{"of", "", "", ""},
		{"and", "ar:and", "fr:and", "de:and"},
	}
	for i, want := range wantRows {
		if got := table.Row(i); !reflect.DeepEqual(got, want) {
			t.Errorf("Row(%d) = %v, want %v", i, got, want)
		}
	}

	if tr.calls != 9 {
		t.Errorf("expected 9 lookups, got %d", tr.calls)
	}

	failures := table.Failures()
	for _, lang := range []string{"ar", "fr", "de"} {
		if failures[lang] != 1 {
			t.Errorf("expected one failure for %s, got %d", lang, failures[lang])
		}
	}
}

func TestBuildTableCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildTable(ctx, &countingTranslator{}, []string{"a"}, "en", []string{"fr"}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTableWriteCSV(t *testing.T) {
	table, err := BuildTable(context.Background(), &countingTranslator{}, []string{"it's", "word"}, "en", []string{"fr"}, 0)
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "wiki_wordfreq_top2_translations.csv")
	if err := table.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open CSV: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}

	want := [][]string{
		{"en", "fr"},
		{"it's", "fr:it's"},
		{"word", "fr:word"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestTablePath(t *testing.T) {
	tests := map[string]string{
		"out/wiki_wordfreq_top100.csv": "out/wiki_wordfreq_top100_translations.csv",
		"words.txt":                    "words_translations.txt",
		"words":                        "words_translations",
	}
	for in, want := range tests {
		if got := TablePath(in); got != want {
			t.Errorf("TablePath(%q) = %q, want %q", in, got, want)
		}
	}
}
