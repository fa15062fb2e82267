package lex

import (
	"strings"
	"unicode/utf8"
)

// RawKind identifies a raw token type.
type RawKind int

const (
	RawUnknown RawKind = iota

	RawEOF
	RawNewline

	RawWs
	RawLineComment
	RawBlockComment

	RawPunct
	RawIdent

	// RawNumber is a preprocessing number. The definition of preprocessing
	// numbers is rather lax and matches many invalid numeric literals as
	// well; see §6.4.8.
	RawNumber

	RawStr
	RawChar
)

// RawContent is a slice of the actual source string.
type RawContent struct {
	// Off is the offset within the source at which the slice starts.
	Off uint32
	// Str is the relevant slice of the source string.
	Str string
	// Tainted indicates that the slice contains escaped newlines that
	// should be deleted before use, as per translation phase 2.
	Tainted bool
}

// Cleaned returns the content with escaped newlines deleted.
func (c RawContent) Cleaned() string {
	if c.Tainted {
		return Clean(c.Str)
	}
	return c.Str
}

// RawToken is a token lexed from a string. Raw tokens differ from ordinary
// tokens in that they are lossless and point back into the original source
// string: lexing them requires no auxiliary state and can never fail.
type RawToken struct {
	Kind    RawKind
	Content RawContent
	// Punct is meaningful when Kind is RawPunct.
	Punct Punct
	// Terminated is meaningful for block comments, string literals and
	// character literals, and reports whether the closing delimiter was
	// found.
	Terminated bool
}

// Clean deletes escaped newlines (a backslash immediately followed by a
// newline) from tok, as specified in translation phase 2 (§5.1.1.2).
func Clean(tok string) string {
	return strings.ReplaceAll(tok, "\\\n", "")
}

// isLineWs reports whether c is a non-newline whitespace character (§6.4).
func isLineWs(c rune) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

// isIdentStart reports whether c can start an identifier (§6.4.2.1).
func isIdentStart(c rune) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// isIdentContinue reports whether c can continue an identifier (§6.4.2.1).
func isIdentContinue(c rune) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// Reader reads characters from a source string. It implements translation
// phase 2 (§5.1.1.2), transparently skipping any backslash immediately
// followed by a newline, and tracks whether any were skipped since the last
// BeginTok.
type Reader struct {
	input   string
	off     uint32
	start   uint32
	tainted bool
}

// NewReader creates a reader over input.
func NewReader(input string) *Reader {
	return &Reader{input: input}
}

// Off returns the current offset within the source.
func (r *Reader) Off() uint32 { return r.off }

// CurContent returns all characters consumed since the last BeginTok.
func (r *Reader) CurContent() RawContent {
	return RawContent{
		Off:     r.start,
		Str:     r.input[r.start:r.off],
		Tainted: r.tainted,
	}
}

// BeginTok marks the current offset as the start of a new token.
func (r *Reader) BeginTok() {
	r.start = r.off
	r.tainted = false
}

// Bump consumes and returns the next character from the source.
func (r *Reader) Bump() (rune, bool) {
	for strings.HasPrefix(r.input[r.off:], "\\\n") {
		r.tainted = true
		r.off += 2
	}
	if r.off == uint32(len(r.input)) {
		return 0, false
	}
	c, size := utf8.DecodeRuneInString(r.input[r.off:])
	r.off += uint32(size)
	return c, true
}

// BumpIf consumes and returns the next character if pred evaluates to true
// on it.
func (r *Reader) BumpIf(pred func(rune) bool) (rune, bool) {
	saved := *r
	c, ok := r.Bump()
	if ok && pred(c) {
		return c, true
	}
	*r = saved
	return 0, false
}

// Eat consumes the next character if it is exactly c, reporting whether a
// character was consumed.
func (r *Reader) Eat(c rune) bool {
	return r.EatIf(func(cur rune) bool { return cur == c })
}

// EatIf consumes the next character if pred evaluates to true on it,
// reporting whether a character was consumed.
func (r *Reader) EatIf(pred func(rune) bool) bool {
	_, ok := r.BumpIf(pred)
	return ok
}

// EatWhile consumes characters as long as pred evaluates to true on them,
// returning the number consumed (excluding escaped newlines).
func (r *Reader) EatWhile(pred func(rune) bool) uint32 {
	var eaten uint32
	for r.EatIf(pred) {
		eaten++
	}
	return eaten
}

// EatToAfter consumes characters until just after the next occurrence of
// term, reporting whether term was found before the end of the source.
func (r *Reader) EatToAfter(term rune) bool {
	for {
		c, ok := r.Bump()
		if !ok {
			return false
		}
		if c == term {
			return true
		}
	}
}

// EatStr consumes the next characters if they match s exactly, ignoring
// escaped newlines, reporting whether there was a match.
func (r *Reader) EatStr(s string) bool {
	saved := *r
	for _, want := range s {
		c, ok := r.Bump()
		if !ok || c != want {
			*r = saved
			return false
		}
	}
	return true
}

// EatLineWs consumes a run of non-newline whitespace, reporting whether any
// was consumed.
func (r *Reader) EatLineWs() bool {
	return r.EatWhile(isLineWs) > 0
}

// Tokenizer reads raw tokens out of a string.
type Tokenizer struct {
	Reader *Reader
}

// NewTokenizer creates a tokenizer over input.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{Reader: NewReader(input)}
}

// NextToken reads the next raw token.
func (t *Tokenizer) NextToken() RawToken {
	t.Reader.BeginTok()

	c, ok := t.Reader.Bump()
	if !ok {
		return t.tok(RawEOF)
	}

	switch {
	case isLineWs(c):
		t.Reader.EatLineWs()
		return t.tok(RawWs)
	case c == '\n':
		return t.tok(RawNewline)
	case c == 'U' || c == 'L':
		return t.handleEncodingPrefix(true)
	case c == 'u':
		// u8 prefixes strings only; u prefixes both.
		allowChar := !t.Reader.Eat('8')
		return t.handleEncodingPrefix(allowChar)
	case c == '"':
		return t.handleStr()
	case c == '\'':
		return t.handleChar()
	case c == '.':
		if t.Reader.EatIf(isDigit) {
			return t.handleNumber()
		}
		if t.Reader.EatStr("..") {
			return t.punct(PunctEllipsis)
		}
		return t.punct(PunctDot)
	case isIdentStart(c):
		return t.handleIdent()
	case isDigit(c):
		return t.handleNumber()
	default:
		return t.handlePunct(c)
	}
}

func (t *Tokenizer) handleIdent() RawToken {
	t.Reader.EatWhile(isIdentContinue)
	return t.tok(RawIdent)
}

func (t *Tokenizer) handleNumber() RawToken {
	for t.eatNumberChar() {
	}
	return t.tok(RawNumber)
}

// eatNumberChar consumes the next character or pair of characters if they
// form part of a preprocessing number (§6.4.8), reporting whether any were
// consumed.
func (t *Tokenizer) eatNumberChar() bool {
	// When followed by a sign these designate an exponent; otherwise they
	// are part of the pp-number anyway.
	if t.Reader.EatIf(func(c rune) bool { return c == 'e' || c == 'E' || c == 'p' || c == 'P' }) {
		t.Reader.EatIf(func(c rune) bool { return c == '+' || c == '-' })
		return true
	}
	return t.Reader.EatIf(func(c rune) bool { return c == '.' || isIdentContinue(c) })
}

// handleEncodingPrefix reacts to a possible encoding prefix (L, u8, etc.)
// and returns a string, character (when allowChar) or identifier token.
func (t *Tokenizer) handleEncodingPrefix(allowChar bool) RawToken {
	if t.Reader.Eat('"') {
		return t.handleStr()
	}
	if allowChar && t.Reader.Eat('\'') {
		return t.handleChar()
	}
	return t.handleIdent()
}

func (t *Tokenizer) handleStr() RawToken {
	return t.handleStrLike('"', RawStr)
}

func (t *Tokenizer) handleChar() RawToken {
	return t.handleStrLike('\'', RawChar)
}

// handleStrLike consumes characters until after delim or the nearest
// newline, handling escapes of delim. A terminating newline is not consumed,
// so that it can be emitted as a separate token; this matters to clients
// that react specially to newlines, such as the preprocessor.
func (t *Tokenizer) handleStrLike(delim rune, kind RawKind) RawToken {
	escaped := false
	for {
		c, ok := t.Reader.BumpIf(func(c rune) bool { return c != '\n' })
		if !ok {
			break
		}
		switch {
		case c == '\\':
			escaped = !escaped
		case c == delim && !escaped:
			return t.terminatedTok(kind, true)
		default:
			escaped = false
		}
	}
	return t.terminatedTok(kind, false)
}

// handlePunct handles a suspected punctuator character c, returning either
// the appropriate punctuator or an unknown token. Digraphs (§6.4.6p3) are
// folded into their primary forms.
func (t *Tokenizer) handlePunct(c rune) RawToken {
	r := t.Reader
	switch c {
	case ',':
		return t.punct(PunctComma)
	case ':':
		return t.punct(PunctColon)
	case ';':
		return t.punct(PunctSemi)
	case '[':
		return t.punct(PunctLSquare)
	case ']':
		return t.punct(PunctRSquare)
	case '(':
		return t.punct(PunctLParen)
	case ')':
		return t.punct(PunctRParen)
	case '{':
		return t.punct(PunctLCurly)
	case '}':
		return t.punct(PunctRCurly)
	case '~':
		return t.punct(PunctTilde)
	case '?':
		return t.punct(PunctQuestion)
	case '#':
		if r.Eat('#') {
			return t.punct(PunctHashHash)
		}
		return t.punct(PunctHash)
	case '+':
		if r.Eat('+') {
			return t.punct(PunctPlusPlus)
		}
		if r.Eat('=') {
			return t.punct(PunctPlusEq)
		}
		return t.punct(PunctPlus)
	case '-':
		if r.Eat('-') {
			return t.punct(PunctMinusMinus)
		}
		if r.Eat('=') {
			return t.punct(PunctMinusEq)
		}
		if r.Eat('>') {
			return t.punct(PunctArrow)
		}
		return t.punct(PunctMinus)
	case '*':
		if r.Eat('=') {
			return t.punct(PunctStarEq)
		}
		return t.punct(PunctStar)
	case '/':
		if r.Eat('/') {
			return t.handleLineComment()
		}
		if r.Eat('*') {
			return t.handleBlockComment()
		}
		if r.Eat('=') {
			return t.punct(PunctSlashEq)
		}
		return t.punct(PunctSlash)
	case '%':
		if r.Eat(':') {
			if r.EatStr("%:") {
				return t.punct(PunctHashHash)
			}
			return t.punct(PunctHash)
		}
		if r.Eat('=') {
			return t.punct(PunctPercEq)
		}
		return t.punct(PunctPerc)
	case '&':
		if r.Eat('&') {
			return t.punct(PunctAmpAmp)
		}
		if r.Eat('=') {
			return t.punct(PunctAmpEq)
		}
		return t.punct(PunctAmp)
	case '|':
		if r.Eat('|') {
			return t.punct(PunctPipePipe)
		}
		if r.Eat('=') {
			return t.punct(PunctPipeEq)
		}
		return t.punct(PunctPipe)
	case '^':
		if r.Eat('=') {
			return t.punct(PunctCaretEq)
		}
		return t.punct(PunctCaret)
	case '!':
		if r.Eat('=') {
			return t.punct(PunctBangEq)
		}
		return t.punct(PunctBang)
	case '<':
		if r.Eat(':') {
			return t.punct(PunctLSquare)
		}
		if r.Eat('%') {
			return t.punct(PunctLCurly)
		}
		if r.Eat('<') {
			if r.Eat('=') {
				return t.punct(PunctLessLessEq)
			}
			return t.punct(PunctLessLess)
		}
		if r.Eat('=') {
			return t.punct(PunctLessEq)
		}
		return t.punct(PunctLess)
	case '>':
		if r.Eat(':') {
			return t.punct(PunctRSquare)
		}
		if r.Eat('%') {
			return t.punct(PunctRCurly)
		}
		if r.Eat('>') {
			if r.Eat('=') {
				return t.punct(PunctGreaterGreaterEq)
			}
			return t.punct(PunctGreaterGreater)
		}
		if r.Eat('=') {
			return t.punct(PunctGreaterEq)
		}
		return t.punct(PunctGreater)
	case '=':
		if r.Eat('=') {
			return t.punct(PunctEqEq)
		}
		return t.punct(PunctEq)
	default:
		return t.tok(RawUnknown)
	}
}

// handleLineComment consumes a line comment. The terminating newline is not
// consumed, so that it can be emitted as a separate token.
func (t *Tokenizer) handleLineComment() RawToken {
	t.Reader.EatWhile(func(c rune) bool { return c != '\n' })
	return t.tok(RawLineComment)
}

func (t *Tokenizer) handleBlockComment() RawToken {
	terminated := false
	for {
		if !t.Reader.EatToAfter('*') {
			break
		}
		c, ok := t.Reader.Bump()
		if !ok {
			break
		}
		if c == '/' {
			terminated = true
			break
		}
	}
	return t.terminatedTok(RawBlockComment, terminated)
}

func (t *Tokenizer) punct(kind Punct) RawToken {
	tok := t.tok(RawPunct)
	tok.Punct = kind
	return tok
}

func (t *Tokenizer) tok(kind RawKind) RawToken {
	return t.terminatedTok(kind, true)
}

func (t *Tokenizer) terminatedTok(kind RawKind, terminated bool) RawToken {
	return RawToken{Kind: kind, Content: t.Reader.CurContent(), Terminated: terminated}
}
