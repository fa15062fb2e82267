package lex

// Punct identifies a punctuator.
type Punct int

const (
	PunctHash Punct = iota
	PunctHashHash

	PunctComma
	PunctColon
	PunctSemi

	PunctLSquare
	PunctRSquare
	PunctLParen
	PunctRParen
	PunctLCurly
	PunctRCurly

	PunctDot
	PunctEllipsis
	PunctArrow

	PunctPlus
	PunctPlusPlus
	PunctMinus
	PunctMinusMinus
	PunctStar
	PunctSlash
	PunctPerc
	PunctAmp
	PunctAmpAmp
	PunctPipe
	PunctPipePipe
	PunctCaret
	PunctTilde
	PunctBang
	PunctQuestion
	PunctLess
	PunctLessLess
	PunctLessEq
	PunctGreater
	PunctGreaterGreater
	PunctGreaterEq

	PunctEq
	PunctEqEq
	PunctBangEq
	PunctPlusEq
	PunctMinusEq
	PunctStarEq
	PunctSlashEq
	PunctPercEq
	PunctAmpEq
	PunctPipeEq
	PunctCaretEq
	PunctLessLessEq
	PunctGreaterGreaterEq
)

var punctStrings = map[Punct]string{
	PunctHash:             "#",
	PunctHashHash:         "##",
	PunctComma:            ",",
	PunctColon:            ":",
	PunctSemi:             ";",
	PunctLSquare:          "[",
	PunctRSquare:          "]",
	PunctLParen:           "(",
	PunctRParen:           ")",
	PunctLCurly:           "{",
	PunctRCurly:           "}",
	PunctDot:              ".",
	PunctEllipsis:         "...",
	PunctArrow:            "->",
	PunctPlus:             "+",
	PunctPlusPlus:         "++",
	PunctMinus:            "-",
	PunctMinusMinus:       "--",
	PunctStar:             "*",
	PunctSlash:            "/",
	PunctPerc:             "%",
	PunctAmp:              "&",
	PunctAmpAmp:           "&&",
	PunctPipe:             "|",
	PunctPipePipe:         "||",
	PunctCaret:            "^",
	PunctTilde:            "~",
	PunctBang:             "!",
	PunctBangEq:           "!=",
	PunctQuestion:         "?",
	PunctLess:             "<",
	PunctLessLess:         "<<",
	PunctLessEq:           "<=",
	PunctGreater:          ">",
	PunctGreaterGreater:   ">>",
	PunctGreaterEq:        ">=",
	PunctEq:               "=",
	PunctEqEq:             "==",
	PunctPlusEq:           "+=",
	PunctMinusEq:          "-=",
	PunctStarEq:           "*=",
	PunctSlashEq:          "/=",
	PunctPercEq:           "%=",
	PunctAmpEq:            "&=",
	PunctPipeEq:           "|=",
	PunctCaretEq:          "^=",
	PunctLessLessEq:       "<<=",
	PunctGreaterGreaterEq: ">>=",
}

// String returns the punctuator as spelled in source.
func (p Punct) String() string {
	return punctStrings[p]
}
