package pp

import (
	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

// FileToken is a preprocessor token lexed directly from a file. Unlike
// PpToken it can also represent a newline, which ends a directive.
type FileToken struct {
	PpToken
	// Newline reports whether the token is a line break rather than a real
	// token.
	Newline bool
}

// Real returns the underlying token, or false for newlines.
func (f FileToken) Real() (PpToken, bool) {
	if f.Newline {
		return PpToken{}, false
	}
	return f.PpToken, true
}

// NonEOD returns the underlying token, or false when the token ends a
// directive (a newline or end of file).
func (f FileToken) NonEOD() (PpToken, bool) {
	if f.IsEOD() {
		return PpToken{}, false
	}
	return f.PpToken, true
}

// AsDirectiveToken returns the token with directive-ending tokens mapped to
// end of file, so directive parsers can treat the end of the line uniformly.
func (f FileToken) AsDirectiveToken() PpToken {
	if ppt, ok := f.NonEOD(); ok {
		return ppt
	}
	ppt := f.PpToken
	ppt.Tok.Kind = lex.TokenKind{Kind: lex.EOF}
	return ppt
}

// IsEOD reports whether the token ends a directive.
func (f FileToken) IsEOD() bool {
	return f.Newline || f.Kind().Kind == lex.EOF
}

type pendingIf struct {
	pos      source.Pos
	elseSeen bool
}

// Processor reads preprocessor tokens and text from a single file, tracking
// line starts, one token of lookahead and the conditional stack.
type Processor struct {
	tokenizer *lex.Tokenizer
	basePos   source.Pos

	lineStart  bool
	lookahead  *FileToken
	pendingIfs []pendingIf
}

// NewProcessor creates a processor over src, whose first byte sits at
// basePos in the source map.
func NewProcessor(src string, basePos source.Pos) *Processor {
	return &Processor{
		tokenizer: lex.NewTokenizer(src),
		basePos:   basePos,
		lineStart: true,
	}
}

// NextToken consumes and returns the next file token.
func (p *Processor) NextToken(ctx *lex.Context) (FileToken, error) {
	if tok := p.lookahead; tok != nil {
		p.lookahead = nil
		return *tok, nil
	}
	return p.lexNextToken(ctx)
}

// PeekToken returns the next file token without consuming it.
func (p *Processor) PeekToken(ctx *lex.Context) (FileToken, error) {
	if p.lookahead == nil {
		tok, err := p.lexNextToken(ctx)
		if err != nil {
			return FileToken{}, err
		}
		p.lookahead = &tok
	}
	return *p.lookahead, nil
}

// NextRealToken consumes tokens until the next non-newline token.
func (p *Processor) NextRealToken(ctx *lex.Context) (PpToken, error) {
	for {
		tok, err := p.NextToken(ctx)
		if err != nil {
			return PpToken{}, err
		}
		if ppt, ok := tok.Real(); ok {
			return ppt, nil
		}
	}
}

// NextDirectiveToken consumes the next token, mapping end of directive to
// end of file.
func (p *Processor) NextDirectiveToken(ctx *lex.Context) (PpToken, error) {
	tok, err := p.NextToken(ctx)
	if err != nil {
		return PpToken{}, err
	}
	return tok.AsDirectiveToken(), nil
}

// ReportAndAdvance reports msg at ppt and skips to the end of the current
// directive.
func (p *Processor) ReportAndAdvance(ctx *lex.Context, ppt PpToken, msg string) error {
	if err := ctx.Reporter().Error(ppt.Range().Fragmented(), msg).Emit(); err != nil {
		return err
	}
	if ppt.Kind().Kind != lex.EOF {
		return p.AdvanceToEOD(ctx)
	}
	return nil
}

// AdvanceToEOD consumes tokens up to and including the end of the current
// directive.
func (p *Processor) AdvanceToEOD(ctx *lex.Context) error {
	for {
		tok, err := p.NextToken(ctx)
		if err != nil {
			return err
		}
		if tok.IsEOD() {
			return nil
		}
	}
}

// Reader exposes the underlying character reader, for directives that
// consume raw text such as include filenames. It must not be used with a
// pending lookahead.
func (p *Processor) Reader() *lex.Reader {
	p.checkLookahead()
	return p.tokenizer.Reader
}

// Pos returns the current position within the file.
func (p *Processor) Pos() source.Pos {
	p.checkLookahead()
	return p.basePos.Offset(p.tokenizer.Reader.Off())
}

func (p *Processor) lexNextToken(ctx *lex.Context) (FileToken, error) {
	leadingTrivia := false
	for {
		raw := p.tokenizer.NextToken()
		converted, err := ctx.ConvertRaw(&raw, p.basePos)
		if err != nil {
			return FileToken{}, err
		}

		switch converted.Class {
		case lex.ConvertedTrivia:
			leadingTrivia = true
			continue
		case lex.ConvertedNewline:
			lineStart := p.lineStart
			p.lineStart = true
			return FileToken{
				PpToken: PpToken{
					Tok:           lex.Token{Range: converted.Range},
					LineStart:     lineStart,
					LeadingTrivia: leadingTrivia,
				},
				Newline: true,
			}, nil
		default:
			lineStart := p.lineStart
			p.lineStart = false
			return FileToken{
				PpToken: PpToken{
					Tok:           converted.Token(),
					LineStart:     lineStart,
					LeadingTrivia: leadingTrivia,
				},
			}, nil
		}
	}
}

func (p *Processor) checkLookahead() {
	if p.lookahead != nil {
		panic("pp: accessing tokenizer with pending lookahead")
	}
}
