package pp

import (
	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

// ReplacementToken is a token queued for rescanning during macro expansion.
type ReplacementToken struct {
	PpToken
	// AllowExpansion is cleared when the token was found ineligible for
	// expansion, e.g. because its macro is already being expanded. Such a
	// token can never be expanded again, even in enclosing rescans.
	AllowExpansion bool
}

func newReplacementToken(ppt PpToken) ReplacementToken {
	return ReplacementToken{PpToken: ppt, AllowExpansion: true}
}

type pendingReplacement struct {
	name   lex.Symbol
	tokens []ReplacementToken
}

func (p *pendingReplacement) nextToken() (ReplacementToken, bool) {
	if len(p.tokens) == 0 {
		return ReplacementToken{}, false
	}
	tok := p.tokens[0]
	p.tokens = p.tokens[1:]
	return tok, true
}

func (p *pendingReplacement) peekToken() (ReplacementToken, bool) {
	if len(p.tokens) == 0 {
		return ReplacementToken{}, false
	}
	return p.tokens[0], true
}

// PendingReplacements is the stack of macro replacements currently being
// rescanned. The names of all stacked replacements are tracked so that
// recursive expansion can be suppressed (§6.10.3.4p2).
type PendingReplacements struct {
	replacements []*pendingReplacement
	activeNames  map[lex.Symbol]struct{}
}

// NewPendingReplacements returns an empty replacement stack.
func NewPendingReplacements() *PendingReplacements {
	return &PendingReplacements{activeNames: map[lex.Symbol]struct{}{}}
}

// IsActive reports whether a replacement for name is currently on the stack.
func (p *PendingReplacements) IsActive(name lex.Symbol) bool {
	_, ok := p.activeNames[name]
	return ok
}

// Push stacks a new replacement for name consisting of tokens.
func (p *PendingReplacements) Push(name lex.Symbol, tokens []ReplacementToken) {
	p.activeNames[name] = struct{}{}
	p.replacements = append(p.replacements, &pendingReplacement{name: name, tokens: tokens})
}

// NextToken pops the next pending token, unwinding finished replacements.
func (p *PendingReplacements) NextToken() (ReplacementToken, bool) {
	return p.next((*pendingReplacement).nextToken)
}

// PeekToken returns the next pending token without consuming it.
func (p *PendingReplacements) PeekToken() (ReplacementToken, bool) {
	return p.next((*pendingReplacement).peekToken)
}

// EatOrLex peeks at the next token, preferring pending replacement tokens
// and falling back to lexer, and consumes it when pred holds on its kind.
func (p *PendingReplacements) EatOrLex(ctx *lex.Context, lexer ReplacementLexer, pred func(lex.TokenKind) bool) (bool, error) {
	var kind lex.TokenKind
	if tok, ok := p.PeekToken(); ok {
		kind = tok.Kind()
	} else {
		ppt, err := lexer.Peek(ctx)
		if err != nil {
			return false, err
		}
		kind = ppt.Kind()
	}

	if !pred(kind) {
		return false, nil
	}

	if _, ok := p.NextToken(); !ok {
		if _, err := lexer.Next(ctx); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (p *PendingReplacements) next(f func(*pendingReplacement) (ReplacementToken, bool)) (ReplacementToken, bool) {
	for len(p.replacements) > 0 {
		top := p.replacements[len(p.replacements)-1]
		if tok, ok := f(top); ok {
			return tok, true
		}
		p.popReplacement()
	}
	return ReplacementToken{}, false
}

func (p *PendingReplacements) popReplacement() {
	top := p.replacements[len(p.replacements)-1]
	p.replacements = p.replacements[:len(p.replacements)-1]
	delete(p.activeNames, top.name)
}

// moveSubrange translates subrange, which lies within oldRange, to the
// corresponding subrange of newRange.
func moveSubrange(subrange, oldRange, newRange source.Range) source.Range {
	off := subrange.Start().OffsetFrom(oldRange.Start())
	return newRange.Subrange(off, subrange.Len())
}
