package pp

import (
	"github.com/varick/cfront/lex"
)

// fileLexer feeds macro expansion from ordinary file text. Newlines are
// skipped, since an invocation may span lines, but a directive inside a
// macro argument list is undefined behavior (§6.10.3p11) and is rejected.
type fileLexer struct {
	processor *Processor
}

func (l *fileLexer) Next(ctx *lex.Context) (PpToken, error) {
	return l.processor.NextRealToken(ctx)
}

func (l *fileLexer) NextMacroArg(ctx *lex.Context) (PpToken, error) {
	for {
		ppt, err := l.processor.NextRealToken(ctx)
		if err != nil {
			return PpToken{}, err
		}
		if !ppt.IsDirectiveStart() {
			return ppt, nil
		}

		err = ctx.Reporter().
			Error(ppt.Range().Fragmented(), "preprocessing directives in macro arguments are undefined behavior").
			Emit()
		if err != nil {
			return PpToken{}, err
		}
		if err := l.processor.AdvanceToEOD(ctx); err != nil {
			return PpToken{}, err
		}
	}
}

func (l *fileLexer) Peek(ctx *lex.Context) (PpToken, error) {
	for {
		tok, err := l.processor.PeekToken(ctx)
		if err != nil {
			return PpToken{}, err
		}
		if !tok.Newline {
			return tok.PpToken, nil
		}
		if _, err := l.processor.NextToken(ctx); err != nil {
			return PpToken{}, err
		}
	}
}

// directiveLexer feeds macro expansion from within a directive's tokens.
// The end of the directive reads as end of file, so an invocation can never
// escape its line.
type directiveLexer struct {
	processor *Processor
}

func (l *directiveLexer) Next(ctx *lex.Context) (PpToken, error) {
	return l.processor.NextDirectiveToken(ctx)
}

func (l *directiveLexer) NextMacroArg(ctx *lex.Context) (PpToken, error) {
	return l.Next(ctx)
}

func (l *directiveLexer) Peek(ctx *lex.Context) (PpToken, error) {
	tok, err := l.processor.PeekToken(ctx)
	if err != nil {
		return PpToken{}, err
	}
	return tok.AsDirectiveToken(), nil
}
