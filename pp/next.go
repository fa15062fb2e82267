package pp

import (
	"fmt"
	"strings"

	"github.com/varick/cfront/diag"
	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

// handleDirective processes the directive whose introducing '#' has just
// been consumed. It reports whether the directive produced an event, which
// only #include does.
func (f *activeFile) handleDirective(ctx *lex.Context, state *MacroState) (Event, bool, error) {
	tok, err := f.processor.NextDirectiveToken(ctx)
	if err != nil {
		return Event{}, false, err
	}

	kind := tok.Kind()
	if kind.Kind == lex.EOF {
		// The null directive (§6.10p7).
		return Event{}, false, nil
	}
	if kind.Kind != lex.Ident {
		return Event{}, false, f.processor.ReportAndAdvance(ctx, tok, "invalid preprocessing directive")
	}

	switch ctx.Interner.Resolve(kind.Symbol) {
	case "define":
		return Event{}, false, f.handleDefine(ctx, state)
	case "undef":
		return Event{}, false, f.handleUndef(ctx, state)
	case "include":
		return f.handleInclude(ctx, state)
	case "error":
		return Event{}, false, f.handleErrorDirective(ctx, tok)
	case "ifdef":
		return Event{}, false, f.handleIfdef(ctx, state, false)
	case "ifndef":
		return Event{}, false, f.handleIfdef(ctx, state, true)
	case "else":
		return Event{}, false, f.handleElse(ctx, tok)
	case "endif":
		return Event{}, false, f.handleEndif(ctx, tok)
	default:
		return Event{}, false, f.processor.ReportAndAdvance(ctx, tok, "invalid preprocessing directive")
	}
}

func (f *activeFile) handleDefine(ctx *lex.Context, state *MacroState) error {
	nameTok, err := f.processor.NextDirectiveToken(ctx)
	if err != nil {
		return err
	}
	if nameTok.Kind().Kind != lex.Ident {
		return f.processor.ReportAndAdvance(ctx, nameTok, "expected a macro name")
	}

	def := &MacroDef{Name: nameTok.Kind().Symbol, NameRange: nameTok.Range()}

	peeked, err := f.processor.PeekToken(ctx)
	if err != nil {
		return err
	}
	// A '(' spelled directly after the name begins a parameter list; with
	// whitespace in between it is part of the replacement (§6.10.3).
	if ppt, ok := peeked.Real(); ok && ppt.Kind().IsPunct(lex.PunctLParen) && !ppt.LeadingTrivia {
		if _, err := f.processor.NextToken(ctx); err != nil {
			return err
		}
		def.FunctionLike = true
		params, ok, err := f.parseMacroParams(ctx)
		if err != nil || !ok {
			return err
		}
		def.Params = params
	}

	body, err := f.directiveBody(ctx)
	if err != nil {
		return err
	}

	if !def.FunctionLike && len(body) > 0 && !body[0].LeadingTrivia {
		start := body[0].Range().Start()
		err := ctx.Reporter().
			Warn(body[0].Range().Fragmented(), "object-like macros require whitespace after the macro name").
			SetSuggestion(diag.NewSuggestion(source.FragmentedRangeAt(start), " ")).
			Emit()
		if err != nil {
			return err
		}
	}

	def.Replacement = NewReplacementList(body)
	if prev := state.Defs().Define(def); prev != nil {
		name := ctx.Interner.Resolve(def.Name)
		return ctx.Reporter().
			Error(nameTok.Range().Fragmented(), fmt.Sprintf("redefinition of macro '%s'", name)).
			AddNote(diag.NewSubDiagnostic("previous definition here", prev.NameRange.Fragmented())).
			Emit()
	}
	return nil
}

func (f *activeFile) parseMacroParams(ctx *lex.Context) ([]lex.Symbol, bool, error) {
	params := []lex.Symbol{}
	seen := map[lex.Symbol]struct{}{}

	tok, err := f.processor.NextDirectiveToken(ctx)
	if err != nil {
		return nil, false, err
	}
	if tok.Kind().IsPunct(lex.PunctRParen) {
		return params, true, nil
	}

	expected := "expected a parameter name or ')'"
	for {
		kind := tok.Kind()
		if kind.Kind != lex.Ident {
			return nil, false, f.processor.ReportAndAdvance(ctx, tok, expected)
		}
		if _, dup := seen[kind.Symbol]; dup {
			msg := fmt.Sprintf("duplicate macro parameter '%s'", ctx.Interner.Resolve(kind.Symbol))
			if err := ctx.Reporter().Error(tok.Range().Fragmented(), msg).Emit(); err != nil {
				return nil, false, err
			}
		} else {
			seen[kind.Symbol] = struct{}{}
			params = append(params, kind.Symbol)
		}

		tok, err = f.processor.NextDirectiveToken(ctx)
		if err != nil {
			return nil, false, err
		}
		switch {
		case tok.Kind().IsPunct(lex.PunctRParen):
			return params, true, nil
		case tok.Kind().IsPunct(lex.PunctComma):
			tok, err = f.processor.NextDirectiveToken(ctx)
			if err != nil {
				return nil, false, err
			}
			expected = "expected a parameter name"
		default:
			return nil, false, f.processor.ReportAndAdvance(ctx, tok, "expected a ')'")
		}
	}
}

func (f *activeFile) handleUndef(ctx *lex.Context, state *MacroState) error {
	nameTok, err := f.processor.NextDirectiveToken(ctx)
	if err != nil {
		return err
	}
	if nameTok.Kind().Kind != lex.Ident {
		return f.processor.ReportAndAdvance(ctx, nameTok, "expected a macro name")
	}
	state.Defs().Undef(nameTok.Kind().Symbol)
	return f.finishDirective(ctx)
}

func (f *activeFile) handleInclude(ctx *lex.Context, state *MacroState) (Event, bool, error) {
	reader := f.processor.Reader()
	reader.EatLineWs()

	var kind IncludeKind
	var term rune
	start := f.processor.Pos()
	reader.BeginTok()
	switch {
	case reader.Eat('<'):
		kind, term = IncludeAngled, '>'
	case reader.Eat('"'):
		kind, term = IncludeQuoted, '"'
	default:
		return f.handleExpandedInclude(ctx, state)
	}

	terminated := reader.EatToAfter(term)
	end := f.processor.Pos()
	if !terminated {
		if err := ctx.Reporter().ErrorExpectedDelim(end, term).Emit(); err != nil {
			return Event{}, false, err
		}
		return Event{}, false, f.processor.AdvanceToEOD(ctx)
	}

	text := reader.CurContent().Cleaned()
	name := strings.TrimSuffix(text[1:], string(term))
	nameRange := source.NewRange(start, end.OffsetFrom(start))
	if name == "" {
		err := ctx.Reporter().Error(nameRange.Fragmented(), "empty filename").Emit()
		if err != nil {
			return Event{}, false, err
		}
		return Event{}, false, f.processor.AdvanceToEOD(ctx)
	}

	if err := f.finishDirective(ctx); err != nil {
		return Event{}, false, err
	}
	return Event{Include: &IncludeRequest{Name: name, Kind: kind, NameRange: nameRange}}, true, nil
}

// handleExpandedInclude parses an include whose filename is produced by
// macro expansion (§6.10.2p4).
func (f *activeFile) handleExpandedInclude(ctx *lex.Context, state *MacroState) (Event, bool, error) {
	lexer := &directiveLexer{processor: f.processor}

	var toks []PpToken
	for {
		ppt, ok, err := state.NextExpansionToken(ctx, lexer)
		if err != nil {
			return Event{}, false, err
		}
		if !ok {
			ppt, err = lexer.Next(ctx)
			if err != nil {
				return Event{}, false, err
			}
			if ppt.Kind().Kind == lex.EOF {
				break
			}
			began, err := state.BeginExpansion(ctx, ppt, lexer)
			if err != nil {
				return Event{}, false, err
			}
			if began {
				continue
			}
		}
		toks = append(toks, ppt)
	}

	badFilename := func(r source.FragmentedRange) (Event, bool, error) {
		err := ctx.Reporter().Error(r, `expected "filename" or <filename>`).Emit()
		return Event{}, false, err
	}

	if len(toks) == 0 {
		return badFilename(source.FragmentedRangeAt(f.processor.Pos()))
	}

	var sb strings.Builder
	for i, tok := range toks {
		if i == 0 {
			sb.WriteString(tok.Tok.Display(ctx))
		} else {
			sb.WriteString(tok.Display(ctx))
		}
	}
	text := sb.String()

	nameRange := toks[0].Range()
	fragmented := source.NewFragmentedRange(toks[0].Range().Start(), toks[len(toks)-1].Range().End())
	if r, ok := ctx.Map.UnfragmentedRange(fragmented); ok {
		nameRange = r
	}

	switch {
	case len(text) > 2 && strings.HasPrefix(text, "<") && strings.HasSuffix(text, ">"):
		req := &IncludeRequest{Name: text[1 : len(text)-1], Kind: IncludeAngled, NameRange: nameRange}
		return Event{Include: req}, true, nil
	case len(toks) == 1 && toks[0].Kind().Kind == lex.Str && len(text) > 2 && strings.HasPrefix(text, `"`):
		req := &IncludeRequest{Name: text[1 : len(text)-1], Kind: IncludeQuoted, NameRange: nameRange}
		return Event{Include: req}, true, nil
	default:
		return badFilename(nameRange.Fragmented())
	}
}

func (f *activeFile) handleErrorDirective(ctx *lex.Context, dirTok PpToken) error {
	body, err := f.directiveBody(ctx)
	if err != nil {
		return err
	}

	msg := "#error"
	if len(body) > 0 {
		var sb strings.Builder
		for i, tok := range body {
			if i == 0 {
				sb.WriteString(tok.Tok.Display(ctx))
			} else {
				sb.WriteString(tok.Display(ctx))
			}
		}
		msg += ": " + sb.String()
	}

	r := dirTok.Range()
	if len(body) > 0 {
		fragmented := source.NewFragmentedRange(dirTok.Range().Start(), body[len(body)-1].Range().End())
		if full, ok := ctx.Map.UnfragmentedRange(fragmented); ok {
			r = full
		}
	}
	return ctx.Reporter().Error(r.Fragmented(), msg).Emit()
}

func (f *activeFile) handleIfdef(ctx *lex.Context, state *MacroState, negate bool) error {
	nameTok, err := f.processor.NextDirectiveToken(ctx)
	if err != nil {
		return err
	}
	if nameTok.Kind().Kind != lex.Ident {
		if err := f.processor.ReportAndAdvance(ctx, nameTok, "expected a macro name"); err != nil {
			return err
		}
		// Take the branch so the matching #endif still pairs up.
		f.pushIf(nameTok.Range().Start())
		return nil
	}

	pos := nameTok.Range().Start()
	taken := state.Defs().IsDefined(nameTok.Kind().Symbol) != negate
	if err := f.finishDirective(ctx); err != nil {
		return err
	}

	if taken {
		f.pushIf(pos)
		return nil
	}
	return f.skipConditional(ctx, pos, true)
}

func (f *activeFile) handleElse(ctx *lex.Context, dirTok PpToken) error {
	n := len(f.processor.pendingIfs)
	if n == 0 {
		return f.processor.ReportAndAdvance(ctx, dirTok, "#else without #if")
	}
	top := f.processor.pendingIfs[n-1]
	if top.elseSeen {
		return f.processor.ReportAndAdvance(ctx, dirTok, "#else after #else")
	}
	f.processor.pendingIfs = f.processor.pendingIfs[:n-1]

	if err := f.finishDirective(ctx); err != nil {
		return err
	}
	// The first branch was taken, so everything up to the matching #endif
	// is skipped.
	return f.skipConditional(ctx, top.pos, false)
}

func (f *activeFile) handleEndif(ctx *lex.Context, dirTok PpToken) error {
	n := len(f.processor.pendingIfs)
	if n == 0 {
		return f.processor.ReportAndAdvance(ctx, dirTok, "#endif without #if")
	}
	f.processor.pendingIfs = f.processor.pendingIfs[:n-1]
	return f.finishDirective(ctx)
}

func (f *activeFile) pushIf(pos source.Pos) {
	f.processor.pendingIfs = append(f.processor.pendingIfs, pendingIf{pos: pos})
}

// skipConditional discards tokens of an untaken branch up to the matching
// #endif, or up to #else when allowElse is set. Nested conditionals are
// skipped whole.
func (f *activeFile) skipConditional(ctx *lex.Context, pos source.Pos, allowElse bool) error {
	depth := 0
	for {
		tok, err := f.processor.NextToken(ctx)
		if err != nil {
			return err
		}
		if !tok.Newline && tok.Kind().Kind == lex.EOF {
			return ctx.Reporter().
				Error(source.FragmentedRangeAt(pos), "unterminated conditional directive").
				Emit()
		}

		ppt, ok := tok.Real()
		if !ok || !ppt.IsDirectiveStart() {
			continue
		}

		dir, err := f.processor.NextDirectiveToken(ctx)
		if err != nil {
			return err
		}
		if dir.Kind().Kind == lex.EOF {
			continue
		}
		if dir.Kind().Kind != lex.Ident {
			if err := f.processor.AdvanceToEOD(ctx); err != nil {
				return err
			}
			continue
		}

		switch ctx.Interner.Resolve(dir.Kind().Symbol) {
		case "ifdef", "ifndef":
			depth++
		case "endif":
			if depth == 0 {
				return f.finishDirective(ctx)
			}
			depth--
		case "else":
			if depth == 0 && allowElse {
				f.processor.pendingIfs = append(f.processor.pendingIfs, pendingIf{pos: pos, elseSeen: true})
				return f.finishDirective(ctx)
			}
		}
		if err := f.processor.AdvanceToEOD(ctx); err != nil {
			return err
		}
	}
}

func (f *activeFile) directiveBody(ctx *lex.Context) ([]PpToken, error) {
	var toks []PpToken
	for {
		tok, err := f.processor.NextDirectiveToken(ctx)
		if err != nil {
			return nil, err
		}
		if tok.Kind().Kind == lex.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// finishDirective consumes the end of the current directive, warning when
// extra tokens precede it.
func (f *activeFile) finishDirective(ctx *lex.Context) error {
	tok, err := f.processor.NextToken(ctx)
	if err != nil {
		return err
	}
	if tok.IsEOD() {
		return nil
	}

	start := tok.Range().Start()
	err = ctx.Reporter().
		Warn(tok.Range().Fragmented(), "extra tokens after preprocessing directive").
		SetSuggestion(diag.NewSuggestion(source.FragmentedRangeAt(start), "// ")).
		Emit()
	if err != nil {
		return err
	}
	return f.processor.AdvanceToEOD(ctx)
}
