package pp

import (
	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

// IncludeRequest asks the preprocessor driver to enter an included file.
type IncludeRequest struct {
	Name string
	Kind IncludeKind
	// NameRange covers the filename as written, for diagnostics and for
	// recording the include position of the new file.
	NameRange source.Range
}

// Event is a unit of progress within an active file: either a token or a
// request to include another file.
type Event struct {
	Tok     PpToken
	Include *IncludeRequest
}

// activeFile is a file currently being preprocessed, either the main file
// or a file it transitively includes.
type activeFile struct {
	parentDir string
	processor *Processor
}

func newActiveFile(contents *source.FileContents, basePos source.Pos, parentDir string) *activeFile {
	return &activeFile{
		parentDir: parentDir,
		processor: NewProcessor(contents.Src(), basePos),
	}
}

// nextEvent produces the next token or include request. An EOF token means
// the file is exhausted.
func (f *activeFile) nextEvent(ctx *lex.Context, state *MacroState) (Event, error) {
	lexer := &fileLexer{processor: f.processor}
	for {
		if ppt, ok, err := state.NextExpansionToken(ctx, lexer); err != nil {
			return Event{}, err
		} else if ok {
			return Event{Tok: ppt}, nil
		}

		tok, err := f.processor.NextToken(ctx)
		if err != nil {
			return Event{}, err
		}
		if tok.Newline {
			continue
		}

		ppt := tok.PpToken
		if ppt.Kind().Kind == lex.EOF {
			if err := f.reportUnterminatedConditionals(ctx); err != nil {
				return Event{}, err
			}
			return Event{Tok: ppt}, nil
		}

		if ppt.IsDirectiveStart() {
			ev, emitted, err := f.handleDirective(ctx, state)
			if err != nil {
				return Event{}, err
			}
			if emitted {
				return ev, nil
			}
			continue
		}

		began, err := state.BeginExpansion(ctx, ppt, lexer)
		if err != nil {
			return Event{}, err
		}
		if began {
			continue
		}
		return Event{Tok: ppt}, nil
	}
}

func (f *activeFile) reportUnterminatedConditionals(ctx *lex.Context) error {
	for _, p := range f.processor.pendingIfs {
		err := ctx.Reporter().
			Error(source.FragmentedRangeAt(p.pos), "unterminated conditional directive").
			Emit()
		if err != nil {
			return err
		}
	}
	f.processor.pendingIfs = nil
	return nil
}
