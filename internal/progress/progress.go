// Package progress reports sampling progress on the terminal. On a TTY a
// single status line is redrawn after every accepted document; otherwise a
// plain line is printed every few documents.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"codeberg.org/snonux/wikifreq/internal/sampler"
)

// DefaultEvery is how many documents pass between lines when not on a TTY
const DefaultEvery = 25

// Reporter implements sampler.Observer
type Reporter struct {
	w           io.Writer
	interactive bool
	every       int
	lastWidth   int
}

// New creates a reporter writing to w. The redrawing mode is chosen when
// w is a terminal.
func New(w io.Writer) *Reporter {
	interactive := false
	if f, ok := w.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Reporter{
		w:           w,
		interactive: interactive,
		every:       DefaultEvery,
	}
}

// Accepted implements sampler.Observer
func (r *Reporter) Accepted(p sampler.Progress) {
	line := Format(p)

	if r.interactive {
		pad := ""
		if n := r.lastWidth - len(line); n > 0 {
			pad = strings.Repeat(" ", n)
		}
		fmt.Fprintf(r.w, "\r%s%s", line, pad)
		r.lastWidth = len(line)
		return
	}

	if p.State.DocumentsAccepted == 1 || p.State.DocumentsAccepted%r.every == 0 {
		fmt.Fprintln(r.w, line)
	}
}

// Done ends the status line of an interactive reporter
func (r *Reporter) Done() {
	if r.interactive && r.lastWidth > 0 {
		fmt.Fprintln(r.w)
		r.lastWidth = 0
	}
}

// Format renders one progress line. With a word target the percentage is
// relative to it, otherwise to the document cap.
func Format(p sampler.Progress) string {
	s := p.State
	var b strings.Builder

	if p.TargetWords > 0 {
		fmt.Fprintf(&b, "[%5.1f%%] ", percent(s.TotalWords, p.TargetWords))
		fmt.Fprintf(&b, "%s/%s words", humanize.Comma(int64(s.TotalWords)), humanize.Comma(int64(p.TargetWords)))
	} else {
		fmt.Fprintf(&b, "[%5.1f%%] ", percent(s.DocumentsAttempted, p.MaxDocuments))
		fmt.Fprintf(&b, "%s words", humanize.Comma(int64(s.TotalWords)))
	}

	fmt.Fprintf(&b, ", %s/%s articles", humanize.Comma(int64(s.DocumentsAccepted)), humanize.Comma(int64(s.DocumentsAttempted)))
	if p.Table != nil {
		fmt.Fprintf(&b, ", %s distinct", humanize.Comma(int64(p.Table.Len())))
	}
	return b.String()
}

func percent(n, of int) float64 {
	if of <= 0 {
		return 0
	}
	v := 100 * float64(n) / float64(of)
	if v > 100 {
		v = 100
	}
	return v
}
