package pp

import (
	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

// ReplacementList is the body of a macro definition.
type ReplacementList struct {
	tokens []PpToken
}

// NewReplacementList creates a replacement list from the body tokens. Any
// trivia before the first token is not part of the replacement.
func NewReplacementList(tokens []PpToken) ReplacementList {
	if len(tokens) > 0 {
		tokens[0].LeadingTrivia = false
	}
	return ReplacementList{tokens: tokens}
}

// Tokens returns the replacement tokens.
func (r ReplacementList) Tokens() []PpToken { return r.tokens }

// SpellingRange returns the contiguous range covering the entire replacement
// list, or false when the list is empty.
func (r ReplacementList) SpellingRange() (source.Range, bool) {
	if len(r.tokens) == 0 {
		return source.Range{}, false
	}
	first := r.tokens[0].Range()
	last := r.tokens[len(r.tokens)-1].Range()
	return source.NewRange(first.Start(), last.End().OffsetFrom(first.Start())), true
}

// IsIdenticalTo reports whether two replacement lists are identical in the
// sense of §6.10.3p2: same tokens with the same spacing.
func (r ReplacementList) IsIdenticalTo(rhs ReplacementList) bool {
	if len(r.tokens) != len(rhs.tokens) {
		return false
	}
	for i, tok := range r.tokens {
		other := rhs.tokens[i]
		if tok.Kind() != other.Kind() || tok.LeadingTrivia != other.LeadingTrivia {
			return false
		}
	}
	return true
}

// MacroDef is a single macro definition. Params is nil for object-like
// macros; note that a function-like macro with no parameters has a non-nil
// empty Params.
type MacroDef struct {
	Name      lex.Symbol
	NameRange source.Range
	// FunctionLike distinguishes `#define F()` from `#define F`.
	FunctionLike bool
	Params       []lex.Symbol
	Replacement  ReplacementList
}

// IsIdenticalTo reports whether two definitions are identical per §6.10.3p2.
func (d *MacroDef) IsIdenticalTo(rhs *MacroDef) bool {
	if d.FunctionLike != rhs.FunctionLike || len(d.Params) != len(rhs.Params) {
		return false
	}
	for i, param := range d.Params {
		if param != rhs.Params[i] {
			return false
		}
	}
	return d.Replacement.IsIdenticalTo(rhs.Replacement)
}

// MacroTable holds the macros currently defined.
type MacroTable struct {
	defs map[lex.Symbol]*MacroDef
}

// NewMacroTable returns an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{defs: map[lex.Symbol]*MacroDef{}}
}

// Define installs def. When a non-identical previous definition existed it
// is returned so the caller can report it; the standard allows redefinition
// iff the replacement lists are identical (§6.10.3p2). The new definition
// always wins, to keep later expansions accurate.
func (t *MacroTable) Define(def *MacroDef) *MacroDef {
	prev, ok := t.defs[def.Name]
	t.defs[def.Name] = def
	if ok && !prev.IsIdenticalTo(def) {
		return prev
	}
	return nil
}

// Undef removes any definition of name. Undefining an undefined macro is
// allowed and does nothing.
func (t *MacroTable) Undef(name lex.Symbol) {
	delete(t.defs, name)
}

// Lookup returns the definition of name, or nil.
func (t *MacroTable) Lookup(name lex.Symbol) *MacroDef {
	return t.defs[name]
}

// IsDefined reports whether name is currently defined.
func (t *MacroTable) IsDefined(name lex.Symbol) bool {
	return t.Lookup(name) != nil
}
