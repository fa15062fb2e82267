package cfront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/varick/cfront/diag"
	"github.com/varick/cfront/fixit"
	"github.com/varick/cfront/internal/clock"
	"github.com/varick/cfront/internal/idgen"
	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/pp"
	"github.com/varick/cfront/source"
	"github.com/varick/cfront/tracing"
)

// Service runs the compiler frontend: it preprocesses translation units,
// reports diagnostics and optionally applies their suggestions.
type Service struct {
	config  *Config
	fs      afs.Service
	handler diag.Handler
	logger  *zap.Logger
	out     io.Writer
}

// New creates a service with the supplied options applied over the default
// configuration.
func New(options ...Option) *Service {
	s := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	return s
}

func (s *Service) ensureBaseSetup() {
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.handler == nil {
		s.handler = diag.NewAnnotatingHandler(nil)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
}

// Result summarises one run of the frontend over a translation unit.
type Result struct {
	// ID identifies the compilation, e.g. in traces and logs.
	ID       string
	Errors   uint32
	Warnings uint32
	// Fatals counts fatal diagnostics; compilation is unusable when nonzero
	// even if Errors is 0.
	Fatals uint32
	// Fixes holds the rewritten files when fix collection is enabled.
	Fixes   []fixit.Fix
	Elapsed time.Duration
}

// Preprocess runs the preprocessor over the file at filename, writing the
// expanded token stream to the configured output. Diagnostics go to the
// configured handler; the returned error reflects setup failures, not
// diagnosed source problems.
func (s *Service) Preprocess(ctx context.Context, filename string) (result *Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "cfront.preprocess")
	defer func() { tracing.EndSpan(span, err) }()

	id := idgen.New()
	started := clock.Now()
	span.WithAttributes(map[string]string{"file": filename, "compilation.id": id})

	specs := make([]pp.MacroSpec, 0, len(s.config.Defines))
	for _, define := range s.config.Defines {
		spec, err := pp.ParseMacroSpec(define)
		if err != nil {
			return nil, fmt.Errorf("invalid macro definition '%s': %w", define, err)
		}
		specs = append(specs, spec)
	}

	collector := &suggestionCollector{}
	manager := diag.NewManager(teeHandler{s.handler, collector}, s.config.Diagnostics.ErrorLimit)
	lctx := lex.NewContext(lex.NewInterner(), manager, source.NewMap())

	loader := pp.NewIncludeLoader(s.fs, s.config.IncludeDirs)
	preproc, err := pp.NewPreprocessor(ctx, lctx, loader, filename, specs...)
	if err != nil {
		_ = manager.ReportAnon(diag.Fatal, fmt.Sprintf("failed to read '%s'", filename)).Emit()
		return nil, err
	}

	if err := s.stream(lctx, preproc); err != nil && !errors.Is(err, diag.ErrFatal) {
		return nil, err
	}

	result = &Result{
		ID:       id,
		Errors:   manager.ErrorCount(),
		Warnings: manager.WarningCount(),
		Fatals:   manager.FatalCount(),
		Elapsed:  clock.Now().Sub(started),
	}

	if s.config.Fix.Enabled {
		applier := fixit.NewApplier(lctx.Map)
		for _, d := range collector.diags {
			applier.AddDiagnostic(d)
		}
		result.Fixes = applier.Apply()
	}

	s.logger.Info("preprocessed translation unit",
		zap.String("id", id),
		zap.String("file", filename),
		zap.Uint32("errors", result.Errors),
		zap.Uint32("warnings", result.Warnings),
		zap.Uint32("fatals", result.Fatals),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// stream writes the expanded token stream, reproducing the original line
// structure: each line-start token opens a fresh line indented to the
// column where its expansion was written.
func (s *Service) stream(lctx *lex.Context, preproc *pp.Preprocessor) error {
	for {
		ppt, err := preproc.NextPp(lctx)
		if err != nil {
			return err
		}
		if ppt.Kind().Kind == lex.EOF {
			return nil
		}

		if ppt.LineStart {
			if _, err := fmt.Fprintln(s.out); err != nil {
				return err
			}
			col := lctx.Map.InterpretedRange(lctx.Map.ReplacementRange(ppt.Range())).StartLineCol().Col
			if _, err := fmt.Fprint(s.out, strings.Repeat(" ", int(col)), ppt.Tok.Display(lctx)); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprint(s.out, ppt.Display(lctx)); err != nil {
				return err
			}
		}
	}
}

// teeHandler fans a rendered diagnostic out to several handlers.
type teeHandler []diag.Handler

func (t teeHandler) Handle(d *diag.RenderedDiagnostic, smap *source.Map) {
	for _, handler := range t {
		handler.Handle(d, smap)
	}
}

// suggestionCollector retains rendered diagnostics so their suggestions can
// be applied after the run.
type suggestionCollector struct {
	diags []*diag.RenderedDiagnostic
}

func (c *suggestionCollector) Handle(d *diag.RenderedDiagnostic, _ *source.Map) {
	c.diags = append(c.diags, d)
}
