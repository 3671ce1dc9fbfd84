package tokenize

import (
	"reflect"
	"testing"
)

func TestTokenizeEnglish(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"sentence", "Hello, World! It's a test.", []string{"hello", "world", "it's", "a", "test"}},
		{"empty", "", nil},
		{"only punctuation", "... --- !!!", nil},
		{"numbers are not tokens", "In 1990 there were 42 cats", []string{"in", "there", "were", "cats"}},
		{"alphanumeric mixes are dropped", "the 1990s and mp3 files", []string{"the", "and", "files"}},
		{"underscores join runs", "foo_bar baz", []string{"baz"}},
		{"edge apostrophes are trimmed", "'quoted' dogs' 'tis", []string{"quoted", "dogs", "tis"}},
		{"inner apostrophes are kept", "rock'n'roll o'clock don't", []string{"rock'n'roll", "o'clock", "don't"}},
		{"typographic apostrophe folds", "It’s fine", []string{"it's", "fine"}},
		{"lone apostrophes", "' '' '''", nil},
		{"hyphen splits", "well-known state-of-the-art", []string{"well", "known", "state", "of", "the", "art"}},
		{"non ascii letters drop the run", "café naïve plain", []string{"plain"}},
		{"newlines and tabs", "one\ntwo\tthree\r\nfour", []string{"one", "two", "three", "four"}},
		{"uppercase", "NASA and UNESCO", []string{"nasa", "and", "unesco"}},
		{"elision before non ascii drops the run", "l'été was hot", []string{"was", "hot"}},
		{"apostrophe before digits drops the run", "abc'123 end", []string{"end"}},
		{"modifier letter apostrophe folds", "itʼs", []string{"it's"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeUnicode(t *testing.T) {
	tests := []struct {
		name  string
		lang  string
		input string
		want  []string
	}{
		{"bulgarian", "bg", "Ябълка и КОТКА, 3 кучета.", []string{"ябълка", "и", "котка", "кучета"}},
		{"french elision", "fr", "L’été est là", []string{"l'été", "est", "là"}},
		{"decomposed accents are composed", "fr", "e\u0301te\u0301", []string{"\u00e9t\u00e9"}},
		{"turkish casing", "tr", "IŞIK İstanbul", []string{"ışık", "istanbul"}},
		{"german", "de", "Straße GROSS", []string{"straße", "gross"}},
		{"digits still drop the run", "fr", "Louis14 roi", []string{"roi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(Unicode, tt.lang)
			got := tok.Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	text := "The cat sat on the mat. The end."
	first := Tokenize(text)
	for i := 0; i < 10; i++ {
		if got := Tokenize(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %q vs %q", i, got, first)
		}
	}
}

func TestNewResolvesAuto(t *testing.T) {
	tests := []struct {
		mode Mode
		lang string
		want Mode
	}{
		{Auto, "en", English},
		{Auto, "EN", English},
		{Auto, "", English},
		{Auto, "fr", Unicode},
		{"", "bg", Unicode},
		{English, "fr", English},
		{Unicode, "en", Unicode},
	}

	for _, tt := range tests {
		if got := New(tt.mode, tt.lang).Mode(); got != tt.want {
			t.Errorf("New(%q, %q).Mode() = %q, want %q", tt.mode, tt.lang, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"english", English, false},
		{"Unicode", Unicode, false},
		{" auto ", Auto, false},
		{"", Auto, false},
		{"klingon", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
