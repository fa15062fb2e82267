package pp

import (
	"context"
	"fmt"
	"strings"

	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

// Preprocessor drives preprocessing of a translation unit, producing the
// fully expanded token stream across the main file and everything it
// includes. It implements lex.Lexer.
type Preprocessor struct {
	ctx    context.Context
	loader *IncludeLoader
	state  *MacroState
	files  []*activeFile
}

// NewPreprocessor loads the main file at mainPath and prepares it for
// preprocessing. Macros in specs are defined before any file text is seen.
func NewPreprocessor(ctx context.Context, lctx *lex.Context, loader *IncludeLoader, mainPath string, specs ...MacroSpec) (*Preprocessor, error) {
	main, err := loader.LoadMain(ctx, mainPath)
	if err != nil {
		return nil, err
	}

	p := &Preprocessor{ctx: ctx, loader: loader, state: NewMacroState()}
	if len(specs) > 0 {
		if err := p.definePredefined(lctx, specs); err != nil {
			return nil, err
		}
	}

	fileID, err := lctx.Map.CreateFile(source.RealFileName(mainPath), main.Contents, nil)
	if err != nil {
		return nil, err
	}
	base := lctx.Map.Source(fileID).Range.Start()
	p.files = []*activeFile{newActiveFile(main.Contents, base, main.ParentDir)}
	return p, nil
}

// State exposes the macro table, e.g. for tests and tooling.
func (p *Preprocessor) State() *MacroState { return p.state }

// NextPp returns the next preprocessed token. The stream ends with a token
// of kind EOF belonging to the main file.
func (p *Preprocessor) NextPp(lctx *lex.Context) (PpToken, error) {
	for {
		file := p.files[len(p.files)-1]
		ev, err := file.nextEvent(lctx, p.state)
		if err != nil {
			return PpToken{}, err
		}

		if ev.Include != nil {
			if err := p.enterInclude(lctx, ev.Include); err != nil {
				return PpToken{}, err
			}
			continue
		}

		if ev.Tok.Kind().Kind == lex.EOF && len(p.files) > 1 {
			p.files = p.files[:len(p.files)-1]
			continue
		}
		return ev.Tok, nil
	}
}

// Next implements lex.Lexer.
func (p *Preprocessor) Next(lctx *lex.Context) (lex.Token, error) {
	ppt, err := p.NextPp(lctx)
	return ppt.Tok, err
}

// definePredefined installs command-line macros by preprocessing a
// synthesized file of #define directives, so their tokens get locations
// like any other macro.
func (p *Preprocessor) definePredefined(lctx *lex.Context, specs []MacroSpec) error {
	var sb strings.Builder
	for _, spec := range specs {
		fmt.Fprintf(&sb, "#define %s %s\n", spec.Name, spec.Value)
	}

	contents := source.NewFileContents(sb.String())
	fileID, err := lctx.Map.CreateFile(source.SynthFileName("predefined"), contents, nil)
	if err != nil {
		return err
	}

	file := newActiveFile(contents, lctx.Map.Source(fileID).Range.Start(), "")
	for {
		ev, err := file.nextEvent(lctx, p.state)
		if err != nil {
			return err
		}
		if ev.Include != nil {
			continue
		}
		if ev.Tok.Kind().Kind == lex.EOF {
			return nil
		}
	}
}

func (p *Preprocessor) enterInclude(lctx *lex.Context, req *IncludeRequest) error {
	parentDir := p.files[len(p.files)-1].parentDir
	file, resolved, err := p.loader.Load(p.ctx, req.Name, req.Kind, parentDir)
	if err != nil {
		return lctx.Reporter().
			Fatal(req.NameRange.Fragmented(), fmt.Sprintf("failed to read '%s'", req.Name)).
			Emit()
	}
	if file == nil {
		return lctx.Reporter().
			Error(req.NameRange.Fragmented(), fmt.Sprintf("include '%s' not found", req.Name)).
			Emit()
	}

	includePos := req.NameRange.Start()
	fileID, err := lctx.Map.CreateFile(source.RealFileName(resolved), file.Contents, &includePos)
	if err != nil {
		return lctx.Reporter().
			Fatal(req.NameRange.Fragmented(), "translation unit too large").
			Emit()
	}
	base := lctx.Map.Source(fileID).Range.Start()
	p.files = append(p.files, newActiveFile(file.Contents, base, file.ParentDir))
	return nil
}
