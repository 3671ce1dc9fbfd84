// Package tokenize splits article text into lowercase word tokens.
//
// A token is a run of letters that may contain apostrophes. Candidate runs
// are maximal sequences of letters, digits, underscores and apostrophes; a
// run is kept only when, after trimming apostrophes at its edges, it
// consists of letters and apostrophes alone. Numbers, punctuation and
// alphanumeric mixes such as "1990s" therefore never produce tokens.
// Typographic apostrophes fold to ASCII in every mode.
package tokenize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Mode selects which letters a token may contain
type Mode string

const (
	// English accepts ASCII letters only
	English Mode = "english"
	// Unicode accepts letters and combining marks of any script
	Unicode Mode = "unicode"
	// Auto picks English for "en" and Unicode for every other language
	Auto Mode = "auto"
)

// Tokenizer is a stateless, deterministic word splitter, safe for
// concurrent use
type Tokenizer struct {
	mode Mode
	tag  language.Tag
}

var english = New(English, "en")

// Tokenize splits text with the English tokenizer
func Tokenize(text string) []string {
	return english.Tokenize(text)
}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case English, Unicode, Auto:
		return m, nil
	case "":
		return Auto, nil
	default:
		return "", fmt.Errorf("unknown tokenizer mode: %s", s)
	}
}

// New creates a tokenizer for the given mode and language code. The
// language drives case folding in Unicode mode (e.g. Turkish dotted I).
func New(mode Mode, lang string) *Tokenizer {
	if mode == Auto || mode == "" {
		if lang == "" || strings.EqualFold(lang, "en") {
			mode = English
		} else {
			mode = Unicode
		}
	}

	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}

	return &Tokenizer{
		mode: mode,
		tag:  tag,
	}
}

// Mode returns the effective mode after Auto resolution
func (t *Tokenizer) Mode() Mode {
	return t.mode
}

// Tokenize returns the tokens of text in order of appearance
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	if t.mode == Unicode {
		text = norm.NFC.String(text)
	}

	var tokens []string
	runStart := -1

	flush := func(end int) {
		if runStart < 0 {
			return
		}
		if tok, ok := t.accept(text[runStart:end]); ok {
			tokens = append(tokens, tok)
		}
		runStart = -1
	}

	for i, r := range text {
		if isRunRune(r) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	return tokens
}

// accept checks a candidate run and returns its normalized token
func (t *Tokenizer) accept(run string) (string, bool) {
	run = strings.TrimFunc(run, isApostrophe)
	if run == "" {
		return "", false
	}

	for _, r := range run {
		if isApostrophe(r) {
			continue
		}
		if !t.isTokenLetter(r) {
			return "", false
		}
	}

	run = foldApostrophes(run)
	if t.mode == English {
		return strings.ToLower(run), true
	}
	// Casers keep state between calls, so each call gets its own
	return cases.Lower(t.tag).String(run), true
}

func (t *Tokenizer) isTokenLetter(r rune) bool {
	if t.mode == English {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

// isRunRune reports whether r can be part of a candidate run
func isRunRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || isApostrophe(r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == 'ʼ'
}

func foldApostrophes(s string) string {
	return strings.Map(func(r rune) rune {
		if isApostrophe(r) {
			return '\''
		}
		return r
	}, s)
}
