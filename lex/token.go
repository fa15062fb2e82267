package lex

// Kind identifies a token type.
type Kind int

const (
	Unknown Kind = iota
	EOF

	TokPunct
	Ident

	// Number is a preprocessing number; see §6.4.8.
	Number
	Str
	Char
)

// TokenKind is a token type together with its payload: the punctuator for
// punctuator tokens, the interned text for identifiers and literals.
type TokenKind struct {
	Kind   Kind
	Punct  Punct
	Symbol Symbol
}

// NewPunctKind returns a punctuator token kind.
func NewPunctKind(p Punct) TokenKind {
	return TokenKind{Kind: TokPunct, Punct: p}
}

// NewIdentKind returns an identifier token kind.
func NewIdentKind(sym Symbol) TokenKind {
	return TokenKind{Kind: Ident, Symbol: sym}
}

// IsPunct reports whether the kind is the specified punctuator.
func (k TokenKind) IsPunct(p Punct) bool {
	return k.Kind == TokPunct && k.Punct == p
}

// IsIdent reports whether the kind is the specified identifier.
func (k TokenKind) IsIdent(sym Symbol) bool {
	return k.Kind == Ident && k.Symbol == sym
}
