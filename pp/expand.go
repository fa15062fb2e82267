package pp

import (
	"fmt"
	"strings"

	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

// MacroState holds the macro table and the stack of expansions in progress.
type MacroState struct {
	defs    *MacroTable
	pending *PendingReplacements
}

// NewMacroState returns a state with no definitions.
func NewMacroState() *MacroState {
	return &MacroState{defs: NewMacroTable(), pending: NewPendingReplacements()}
}

// Defs returns the macro table.
func (s *MacroState) Defs() *MacroTable { return s.defs }

// NextExpansionToken returns the next token produced by pending expansions,
// or false when no expansion is in progress. Tokens that name macros are
// themselves expanded during the rescan (§6.10.3.4), pulling further input
// from lexer when a function-like invocation spans the replacement.
func (s *MacroState) NextExpansionToken(ctx *lex.Context, lexer ReplacementLexer) (PpToken, bool, error) {
	for {
		rt, ok := s.pending.NextToken()
		if !ok {
			return PpToken{}, false, nil
		}

		if rt.AllowExpansion {
			began, err := s.maybeExpand(ctx, rt.PpToken, lexer)
			if err != nil {
				return PpToken{}, false, err
			}
			if began {
				continue
			}
		}

		return rt.PpToken, true, nil
	}
}

// BeginExpansion attempts to start expanding ppt, reporting whether it named
// an expandable macro and was consumed.
func (s *MacroState) BeginExpansion(ctx *lex.Context, ppt PpToken, lexer ReplacementLexer) (bool, error) {
	return s.maybeExpand(ctx, ppt, lexer)
}

func (s *MacroState) maybeExpand(ctx *lex.Context, ppt PpToken, lexer ReplacementLexer) (bool, error) {
	kind := ppt.Kind()
	if kind.Kind != lex.Ident {
		return false, nil
	}

	name := kind.Symbol
	// A macro being replaced is not eligible for further replacement; the
	// name token is emitted as-is (§6.10.3.4p2).
	if s.pending.IsActive(name) {
		return false, nil
	}

	def := s.defs.Lookup(name)
	if def == nil {
		return false, nil
	}

	if !def.FunctionLike {
		return true, s.expandObject(ctx, ppt, def)
	}

	// A function-like macro name not followed by '(' is an ordinary token.
	isLParen := func(k lex.TokenKind) bool { return k.IsPunct(lex.PunctLParen) }
	ate, err := s.pending.EatOrLex(ctx, lexer, isLParen)
	if err != nil || !ate {
		return false, err
	}
	return true, s.expandFunction(ctx, ppt, def, lexer)
}

func (s *MacroState) expandObject(ctx *lex.Context, nameTok PpToken, def *MacroDef) error {
	spelling, ok := def.Replacement.SpellingRange()
	if !ok {
		// Expands to nothing.
		return nil
	}

	expRange, err := s.createExpansion(ctx, nameTok, spelling, nameTok.Range())
	if err != nil {
		return err
	}

	toks := make([]ReplacementToken, 0, len(def.Replacement.Tokens()))
	for i, tok := range def.Replacement.Tokens() {
		tok.LineStart = false
		if i == 0 {
			// The first replacement token stands where the macro name
			// stood.
			tok.LineStart = nameTok.LineStart
			tok.LeadingTrivia = nameTok.LeadingTrivia
		}
		tok.Tok.Range = moveSubrange(tok.Range(), spelling, expRange)
		toks = append(toks, newReplacementToken(tok))
	}

	toks, err = s.applyPaste(ctx, toks)
	if err != nil {
		return err
	}
	s.pending.Push(def.Name, toks)
	return nil
}

func (s *MacroState) expandFunction(ctx *lex.Context, nameTok PpToken, def *MacroDef, lexer ReplacementLexer) error {
	args, rparen, ok, err := s.collectArgs(ctx, nameTok, def, lexer)
	if err != nil || !ok {
		return err
	}

	invocation := nameTok.Range()
	if r, ok := ctx.Map.UnfragmentedRange(source.NewFragmentedRange(nameTok.Range().Start(), rparen.Range().End())); ok {
		invocation = r
	}

	spelling, ok := def.Replacement.SpellingRange()
	if !ok {
		return nil
	}

	expRange, err := s.createExpansion(ctx, nameTok, spelling, invocation)
	if err != nil {
		return err
	}

	paramIdx := make(map[lex.Symbol]int, len(def.Params))
	for i, param := range def.Params {
		paramIdx[param] = i
	}

	body := def.Replacement.Tokens()
	var toks []ReplacementToken
	for i := 0; i < len(body); i++ {
		tok := body[i]
		tok.LineStart = false
		movedRange := moveSubrange(tok.Range(), spelling, expRange)

		// '#' followed by a parameter stringizes the argument (§6.10.3.2).
		if tok.Kind().IsPunct(lex.PunctHash) && i+1 < len(body) {
			if idx, isParam := paramIdxOf(body[i+1], paramIdx); isParam {
				lit, err := s.stringizeArg(ctx, args[idx], movedRange)
				if err != nil {
					return err
				}
				lit.LeadingTrivia = tok.LeadingTrivia
				toks = append(toks, newReplacementToken(lit))
				i++
				continue
			}
		}

		if idx, isParam := paramIdxOf(tok, paramIdx); isParam {
			spliced, err := s.spliceArg(ctx, args[idx], tok, movedRange)
			if err != nil {
				return err
			}
			toks = append(toks, spliced...)
			continue
		}

		tok.Tok.Range = movedRange
		toks = append(toks, newReplacementToken(tok))
	}

	if len(toks) > 0 {
		toks[0].LineStart = nameTok.LineStart
		toks[0].LeadingTrivia = nameTok.LeadingTrivia
	}

	toks, err = s.applyPaste(ctx, toks)
	if err != nil {
		return err
	}
	s.pending.Push(def.Name, toks)
	return nil
}

func paramIdxOf(tok PpToken, paramIdx map[lex.Symbol]int) (int, bool) {
	if tok.Kind().Kind != lex.Ident {
		return 0, false
	}
	idx, ok := paramIdx[tok.Kind().Symbol]
	return idx, ok
}

// spliceArg substitutes the collected argument tokens into the position of
// the parameter token, attributing them to a new macro-argument expansion
// source when the argument spells a contiguous range.
func (s *MacroState) spliceArg(ctx *lex.Context, arg []ReplacementToken, paramTok PpToken, paramRange source.Range) ([]ReplacementToken, error) {
	if len(arg) == 0 {
		return nil, nil
	}

	argRange, remap := argSpellingRange(ctx.Map, arg)
	var expRange source.Range
	if remap {
		id, err := ctx.Map.CreateExpansion(argRange, paramRange, source.ExpansionMacroArg)
		if err != nil {
			return nil, s.tooLarge(ctx, paramTok.Range())
		}
		expRange = ctx.Map.Source(id).Range
	}

	out := make([]ReplacementToken, 0, len(arg))
	for i, tok := range arg {
		tok.LineStart = false
		if i == 0 {
			tok.LeadingTrivia = paramTok.LeadingTrivia
		}
		// Tokens produced by nested expansions may fall outside the
		// argument's spelled range; those keep their original attribution.
		if remap && argRange.ContainsRange(tok.Range()) {
			tok.Tok.Range = moveSubrange(tok.Range(), argRange, expRange)
		}
		out = append(out, tok)
	}
	return out, nil
}

// argSpellingRange returns the contiguous range spelled by the argument
// tokens, or false when they span sources.
func argSpellingRange(smap *source.Map, arg []ReplacementToken) (source.Range, bool) {
	first := arg[0].Range()
	last := arg[len(arg)-1].Range()
	return smap.UnfragmentedRange(source.NewFragmentedRange(first.Start(), last.End()))
}

// collectArgs reads a parenthesized argument list, splitting on top-level
// commas. The opening parenthesis has already been consumed.
func (s *MacroState) collectArgs(ctx *lex.Context, nameTok PpToken, def *MacroDef, lexer ReplacementLexer) (args [][]ReplacementToken, rparen PpToken, ok bool, err error) {
	nextArgToken := func() (ReplacementToken, error) {
		if rt, ok := s.pending.NextToken(); ok {
			return rt, nil
		}
		ppt, err := lexer.NextMacroArg(ctx)
		if err != nil {
			return ReplacementToken{}, err
		}
		return newReplacementToken(ppt), nil
	}

	depth := 0
	cur := []ReplacementToken{}
	for {
		rt, err := nextArgToken()
		if err != nil {
			return nil, PpToken{}, false, err
		}

		kind := rt.Kind()
		switch {
		case kind.Kind == lex.EOF:
			err := ctx.Reporter().
				Error(nameTok.Range().Fragmented(), fmt.Sprintf("unterminated invocation of macro '%s'", ctx.Interner.Resolve(def.Name))).
				Emit()
			return nil, PpToken{}, false, err

		case kind.IsPunct(lex.PunctLParen):
			depth++
			cur = append(cur, rt)

		case kind.IsPunct(lex.PunctRParen):
			if depth == 0 {
				args = append(args, cur)
				return s.checkArity(ctx, nameTok, def, args, rt.PpToken)
			}
			depth--
			cur = append(cur, rt)

		case kind.IsPunct(lex.PunctComma) && depth == 0:
			args = append(args, cur)
			cur = []ReplacementToken{}

		default:
			cur = append(cur, rt)
		}
	}
}

func (s *MacroState) checkArity(ctx *lex.Context, nameTok PpToken, def *MacroDef, args [][]ReplacementToken, rparen PpToken) ([][]ReplacementToken, PpToken, bool, error) {
	got := len(args)
	if got == 1 && len(args[0]) == 0 && len(def.Params) == 0 {
		got = 0
		args = nil
	}

	if got != len(def.Params) {
		msg := fmt.Sprintf(
			"macro '%s' requires %d arguments, but %d given",
			ctx.Interner.Resolve(def.Name), len(def.Params), got,
		)
		if err := ctx.Reporter().Error(nameTok.Range().Fragmented(), msg).Emit(); err != nil {
			return nil, PpToken{}, false, err
		}
		return nil, PpToken{}, false, nil
	}

	return args, rparen, true, nil
}

// stringizeArg produces the string literal for '#param' (§6.10.3.2). The
// literal is spelled in a synthesized source attributed back to opRange.
func (s *MacroState) stringizeArg(ctx *lex.Context, arg []ReplacementToken, opRange source.Range) (PpToken, error) {
	var sb strings.Builder
	sb.WriteByte('"')
	for i, tok := range arg {
		if i > 0 && tok.LeadingTrivia {
			sb.WriteByte(' ')
		}
		text := tok.Tok.Display(ctx)
		// Backslashes and quotes inside string and character literals are
		// escaped in the result.
		kind := tok.Kind().Kind
		if kind == lex.Str || kind == lex.Char {
			text = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(text)
		}
		sb.WriteString(text)
	}
	sb.WriteByte('"')
	lit := sb.String()

	expRange, err := s.synthSource(ctx, "stringize", lit, opRange)
	if err != nil {
		return PpToken{}, err
	}

	return PpToken{
		Tok: lex.Token{
			Kind:  lex.TokenKind{Kind: lex.Str, Symbol: ctx.Interner.Intern(lit)},
			Range: expRange.Subrange(0, uint32(len(lit))),
		},
	}, nil
}

// applyPaste resolves '##' operators in a replacement token list
// (§6.10.3.3), re-lexing the concatenated spelling in a synthesized source.
func (s *MacroState) applyPaste(ctx *lex.Context, toks []ReplacementToken) ([]ReplacementToken, error) {
	hasPaste := false
	for _, tok := range toks {
		if tok.Kind().IsPunct(lex.PunctHashHash) {
			hasPaste = true
			break
		}
	}
	if !hasPaste {
		return toks, nil
	}

	var out []ReplacementToken
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if !tok.Kind().IsPunct(lex.PunctHashHash) {
			out = append(out, tok)
			continue
		}

		if len(out) == 0 || i+1 == len(toks) {
			err := ctx.Reporter().
				Error(tok.Range().Fragmented(), "'##' cannot appear at either end of a macro expansion").
				Emit()
			if err != nil {
				return nil, err
			}
			continue
		}

		lhs := out[len(out)-1]
		rhs := toks[i+1]
		i++

		pasted, ok, err := s.pasteTokens(ctx, lhs, rhs, tok.Range())
		if err != nil {
			return nil, err
		}
		if ok {
			out[len(out)-1] = pasted
		} else {
			// Recovery: keep both operands unpasted.
			out = append(out, rhs)
		}
	}
	return out, nil
}

func (s *MacroState) pasteTokens(ctx *lex.Context, lhs, rhs ReplacementToken, opRange source.Range) (ReplacementToken, bool, error) {
	text := lhs.Tok.Display(ctx) + rhs.Tok.Display(ctx)

	expRange, err := s.synthSource(ctx, "paste", text, opRange)
	if err != nil {
		return ReplacementToken{}, false, err
	}

	tokenizer := lex.NewTokenizer(text)
	raw := tokenizer.NextToken()
	converted, err := ctx.ConvertRaw(&raw, expRange.Start())
	if err != nil {
		return ReplacementToken{}, false, err
	}
	rest := tokenizer.NextToken()

	if converted.Class != lex.ConvertedReal || converted.Kind.Kind == lex.EOF || rest.Kind != lex.RawEOF {
		msg := fmt.Sprintf("pasting formed '%s', an invalid preprocessing token", text)
		if err := ctx.Reporter().Error(opRange.Fragmented(), msg).Emit(); err != nil {
			return ReplacementToken{}, false, err
		}
		return ReplacementToken{}, false, nil
	}

	return ReplacementToken{
		PpToken: PpToken{
			Tok:           converted.Token(),
			LineStart:     lhs.LineStart,
			LeadingTrivia: lhs.LeadingTrivia,
		},
		AllowExpansion: true,
	}, true, nil
}

// synthSource creates a synthesized file holding text plus an expansion
// attributing it to opRange, returning the expansion's range.
func (s *MacroState) synthSource(ctx *lex.Context, name, text string, opRange source.Range) (source.Range, error) {
	fileID, err := ctx.Map.CreateFile(source.SynthFileName(name), source.NewFileContents(text), nil)
	if err != nil {
		return source.Range{}, s.tooLarge(ctx, opRange)
	}
	fileRange := ctx.Map.Source(fileID).Range

	expID, err := ctx.Map.CreateExpansion(fileRange.Subrange(0, uint32(len(text))), opRange, source.ExpansionSynth)
	if err != nil {
		return source.Range{}, s.tooLarge(ctx, opRange)
	}
	return ctx.Map.Source(expID).Range, nil
}

func (s *MacroState) createExpansion(ctx *lex.Context, nameTok PpToken, spelling, replacement source.Range) (source.Range, error) {
	id, err := ctx.Map.CreateExpansion(spelling, replacement, source.ExpansionMacro)
	if err != nil {
		return source.Range{}, s.tooLarge(ctx, nameTok.Range())
	}
	return ctx.Map.Source(id).Range, nil
}

func (s *MacroState) tooLarge(ctx *lex.Context, r source.Range) error {
	return ctx.Reporter().
		Fatal(r.Fragmented(), "translation unit too large for macro expansion").
		Emit()
}
