package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/varick/cfront/source"
)

// AnnotatingHandler emits rendered diagnostics as messages with annotated
// code snippets.
type AnnotatingHandler struct {
	out io.Writer
}

// NewAnnotatingHandler creates a handler writing to out, defaulting to
// stderr when out is nil.
func NewAnnotatingHandler(out io.Writer) *AnnotatingHandler {
	if out == nil {
		out = os.Stderr
	}
	return &AnnotatingHandler{out: out}
}

type displayable struct {
	level      Level
	msg        string
	ranges     *RenderedRanges
	suggestion *RenderedSuggestion
	includes   []source.Pos
}

// Handle implements Handler.
func (h *AnnotatingHandler) Handle(diag *RenderedDiagnostic, smap *source.Map) {
	subdiags := chainExpansions(displayable{
		level:      diag.Level,
		msg:        diag.Main.Msg,
		ranges:     diag.Main.Ranges,
		suggestion: diag.Main.Suggestion,
		includes:   diag.Includes,
	}, diag.Main)

	for _, note := range diag.Notes {
		subdiags = append(subdiags, chainExpansions(displayable{
			level:      Note,
			msg:        note.Msg,
			ranges:     note.Ranges,
			suggestion: note.Suggestion,
		}, note)...)
	}

	for _, sub := range subdiags {
		h.printSubDiag(&sub, smap)
	}
	fmt.Fprintln(h.out)
}

// chainExpansions lists primary followed by one "expanded from here" note per
// expansion in the subdiagnostic's trace.
func chainExpansions(primary displayable, sub *RenderedSubDiagnostic) []displayable {
	out := []displayable{primary}
	for _, exp := range sub.Expansions {
		out = append(out, displayable{
			level:  Note,
			msg:    "expanded from here",
			ranges: exp,
		})
	}
	return out
}

func (h *AnnotatingHandler) printSubDiag(sub *displayable, smap *source.Map) {
	fmt.Fprintf(h.out, "%s: %s\n", sub.level, sub.msg)

	if smap == nil || sub.ranges == nil {
		return
	}

	interp := smap.InterpretedRange(sub.ranges.PrimaryRange)
	snippets := interp.LineSnippets()
	if len(snippets) == 0 {
		return
	}
	gutterWidth := countDigits(snippets[len(snippets)-1].LineNum + 1)

	for _, includePos := range sub.includes {
		h.printFileLoc(smap.InterpretedRange(source.RangeAt(includePos)), "includer", gutterWidth)
	}
	h.printFileLoc(interp, "", gutterWidth)

	for _, snippet := range snippets {
		h.printGutter(fmt.Sprint(snippet.LineNum+1), gutterWidth)
		fmt.Fprintln(h.out, snippet.Line)

		caretLen := snippet.Len
		if caretLen == 0 {
			caretLen = 1
		}
		h.printGutter("", gutterWidth)
		fmt.Fprintf(h.out, "%s%s\n", strings.Repeat(" ", int(snippet.Off)), strings.Repeat("^", int(caretLen)))

		if sub.suggestion != nil {
			linecol := smap.InterpretedRange(sub.suggestion.ReplacementRange).StartLineCol()
			if linecol.Line == snippet.LineNum {
				h.printGutter("", gutterWidth)
				fmt.Fprintf(h.out, "%s%s\n", strings.Repeat(" ", int(linecol.Col)), sub.suggestion.InsertText)
			}
		}
	}
}

func (h *AnnotatingHandler) printFileLoc(interp *source.InterpretedRange, note string, gutterWidth int) {
	if note != "" {
		note = fmt.Sprintf(" (%s)", note)
	}
	linecol := interp.StartLineCol()
	fmt.Fprintf(h.out, "%*s--> %s:%d:%d%s\n", gutterWidth, "", interp.Name(), linecol.Line+1, linecol.Col+1, note)
}

func (h *AnnotatingHandler) printGutter(obj string, width int) {
	fmt.Fprintf(h.out, "%*s | ", width, obj)
}

func countDigits(val uint32) int {
	digits := 1
	for val /= 10; val > 0; val /= 10 {
		digits++
	}
	return digits
}
