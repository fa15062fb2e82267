// Package pp implements the preprocessor: directive handling, macro
// expansion and include management on top of the raw lexer.
package pp

import (
	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

// PpToken is a token produced by the preprocessor, annotated with the layout
// information directive processing needs.
type PpToken struct {
	Tok lex.Token
	// LineStart reports whether this is the first token on its line.
	LineStart bool
	// LeadingTrivia reports whether whitespace or comments immediately
	// precede the token.
	LeadingTrivia bool
}

// Kind returns the underlying token kind.
func (p PpToken) Kind() lex.TokenKind { return p.Tok.Kind }

// Range returns the underlying token range.
func (p PpToken) Range() source.Range { return p.Tok.Range }

// IsDirectiveStart reports whether the token begins a preprocessing
// directive: a '#' that is first on its line.
func (p PpToken) IsDirectiveStart() bool {
	return p.LineStart && p.Kind().IsPunct(lex.PunctHash)
}

// Display returns the token as spelled, preceded by a space when trivia
// preceded it in the source.
func (p PpToken) Display(ctx *lex.Context) string {
	s := p.Tok.Display(ctx)
	if p.LeadingTrivia {
		return " " + s
	}
	return s
}

// ReplacementLexer supplies tokens to the macro expansion engine whenever a
// replacement needs more input, e.g. while collecting function-like macro
// arguments. Implementations differ in how they treat newlines and
// directives.
type ReplacementLexer interface {
	Next(ctx *lex.Context) (PpToken, error)
	NextMacroArg(ctx *lex.Context) (PpToken, error)
	Peek(ctx *lex.Context) (PpToken, error)
}
