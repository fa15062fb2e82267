package lex

import (
	"fmt"

	"github.com/varick/cfront/diag"
	"github.com/varick/cfront/source"
)

// Token is a token kind attached to a source range.
type Token struct {
	Kind  TokenKind
	Range source.Range
}

// Display returns the token as it would be spelled in source.
func (t Token) Display(ctx *Context) string {
	switch t.Kind.Kind {
	case EOF:
		return ""
	case Unknown:
		return Clean(ctx.Map.Spelling(t.Range))
	case TokPunct:
		return t.Kind.Punct.String()
	default:
		return ctx.Interner.Resolve(t.Kind.Symbol)
	}
}

// ConvertedClass classifies the result of converting a raw token.
type ConvertedClass int

const (
	// ConvertedReal is an ordinary token.
	ConvertedReal ConvertedClass = iota
	// ConvertedNewline is a newline, reported separately for clients that
	// must react to line boundaries.
	ConvertedNewline
	// ConvertedTrivia is whitespace or a comment.
	ConvertedTrivia
)

// ConvertedToken is the result of validating a raw token.
type ConvertedToken struct {
	Class ConvertedClass
	// Kind is meaningful when Class is ConvertedReal.
	Kind  TokenKind
	Range source.Range
}

// Token returns the converted token as an ordinary token.
func (c ConvertedToken) Token() Token {
	return Token{Kind: c.Kind, Range: c.Range}
}

// Lexer produces a stream of tokens.
type Lexer interface {
	Next(ctx *Context) (Token, error)
}

// Context bundles the state shared by every lexing stage: the interner, the
// diagnostics engine and the source map.
type Context struct {
	Interner *Interner
	Diags    *diag.Manager
	Map      *source.Map
}

// NewContext creates a lexing context.
func NewContext(interner *Interner, diags *diag.Manager, smap *source.Map) *Context {
	return &Context{Interner: interner, Diags: diags, Map: smap}
}

// Reporter returns a diagnostic reporter resolving against the context's
// source map.
func (c *Context) Reporter() *diag.Reporter {
	return c.Diags.Reporter(c.Map)
}

// ConvertRaw validates raw and converts it into a token anchored at basePos,
// interning its text and reporting unterminated literals and comments.
func (c *Context) ConvertRaw(raw *RawToken, basePos source.Pos) (ConvertedToken, error) {
	pos := basePos.Offset(raw.Content.Off)

	checkTerminated := func(kind string) error {
		if !raw.Terminated {
			return c.Reporter().Error(source.FragmentedRangeAt(pos), fmt.Sprintf("unterminated %s", kind)).Emit()
		}
		return nil
	}

	var (
		class = ConvertedReal
		kind  TokenKind
	)
	switch raw.Kind {
	case RawUnknown:
		kind = TokenKind{Kind: Unknown}
	case RawEOF:
		kind = TokenKind{Kind: EOF}
	case RawNewline:
		class = ConvertedNewline
	case RawWs, RawLineComment:
		class = ConvertedTrivia
	case RawBlockComment:
		if err := checkTerminated("block comment"); err != nil {
			return ConvertedToken{}, err
		}
		class = ConvertedTrivia
	case RawPunct:
		kind = NewPunctKind(raw.Punct)
	case RawIdent:
		kind = NewIdentKind(c.Interner.Intern(raw.Content.Cleaned()))
	case RawNumber:
		kind = TokenKind{Kind: Number, Symbol: c.Interner.Intern(raw.Content.Cleaned())}
	case RawStr:
		if err := checkTerminated("string literal"); err != nil {
			return ConvertedToken{}, err
		}
		kind = TokenKind{Kind: Str, Symbol: c.Interner.Intern(raw.Content.Cleaned())}
	case RawChar:
		if err := checkTerminated("character literal"); err != nil {
			return ConvertedToken{}, err
		}
		kind = TokenKind{Kind: Char, Symbol: c.Interner.Intern(raw.Content.Cleaned())}
	}

	// Newlines are special: the range must not cover the newline character
	// itself, as that would make it end on the next line.
	r := source.RangeAt(pos)
	if class != ConvertedNewline {
		r = source.NewRange(pos, uint32(len(raw.Content.Str)))
	}

	return ConvertedToken{Class: class, Kind: kind, Range: r}, nil
}
