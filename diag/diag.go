// Package diag implements diagnostic reporting and emission.
//
// There are two kinds of diagnostics: raw and rendered. Raw diagnostics are
// what users construct through a Reporter and Builder. They carry fragmented
// source ranges and have no awareness of macro expansions or include stacks,
// which makes them convenient to report. Rendered diagnostics are more
// amenable to display: they contain only contiguous ranges and come with the
// appropriate expansion and include traces. Rendered diagnostics are passed
// to handlers registered with NewManager; they can also be produced manually
// with Render.
package diag

import (
	"errors"
	"fmt"

	"github.com/varick/cfront/source"
)

// Level is a diagnostic severity level.
type Level int

const (
	Note Level = iota
	Warning
	Error
	Fatal
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ErrFatal indicates that a fatal diagnostic has been emitted and compilation
// should be aborted.
var ErrFatal = errors.New("diag: fatal error emitted")

// Suggestion indicates that a range of code should be replaced with new text.
// Insertions are modeled with an empty replacement range at the desired
// position.
type Suggestion[R any] struct {
	// ReplacementRange is the range within the source to replace.
	ReplacementRange R
	// InsertText is the new text to insert at ReplacementRange.
	InsertText string
}

// NewSuggestion creates a suggestion replacing r with text.
func NewSuggestion[R any](r R, text string) *Suggestion[R] {
	return &Suggestion[R]{ReplacementRange: r, InsertText: text}
}

// NewDeletion creates a suggestion indicating that r should be deleted.
func NewDeletion[R any](r R) *Suggestion[R] {
	return NewSuggestion(r, "")
}

// LabeledRange is a subrange with an optional label, indicating a related
// area near a subdiagnostic's primary range.
type LabeledRange[R any] struct {
	Range R
	Label string
}

// Ranges holds the source ranges attached to a subdiagnostic. Every located
// subdiagnostic has a primary range, treated specially, and may have zero or
// more labeled subranges. Ranges expected to lie farther away, potentially in
// other files, are better represented as an additional note.
type Ranges[R any] struct {
	PrimaryRange R
	Subranges    []LabeledRange[R]
}

// NewRanges creates a Ranges with the specified primary range and no
// subranges.
func NewRanges[R any](primary R) *Ranges[R] {
	return &Ranges[R]{PrimaryRange: primary}
}

// SubDiagnostic is a single message within a diagnostic. Every diagnostic
// contains a main subdiagnostic and zero or more attached notes.
type SubDiagnostic[R any] struct {
	// Msg is the message of this subdiagnostic.
	Msg string
	// Ranges holds the attached location information, if any.
	Ranges *Ranges[R]
	// Suggestion is the attached suggestion, if any.
	Suggestion *Suggestion[R]
}

// NewSubDiagnostic creates a subdiagnostic with the specified message and
// primary range.
func NewSubDiagnostic[R any](msg string, primary R) *SubDiagnostic[R] {
	return &SubDiagnostic[R]{Msg: msg, Ranges: NewRanges(primary)}
}

// NewAnonSubDiagnostic creates a subdiagnostic without any attached location
// information.
func NewAnonSubDiagnostic[R any](msg string) *SubDiagnostic[R] {
	return &SubDiagnostic[R]{Msg: msg}
}

// AddLabeledRange attaches a labeled subrange, panicking if the subdiagnostic
// has no location information to add to.
func (s *SubDiagnostic[R]) AddLabeledRange(r R, label string) {
	if s.Ranges == nil {
		panic("diag: cannot attach range to rangeless diagnostic")
	}
	s.Ranges.Subranges = append(s.Ranges.Subranges, LabeledRange[R]{Range: r, Label: label})
}

// AddRange attaches an unlabeled subrange, panicking if the subdiagnostic has
// no location information to add to.
func (s *SubDiagnostic[R]) AddRange(r R) {
	s.AddLabeledRange(r, "")
}

// WithLabeledRange attaches a labeled subrange, returning the subdiagnostic
// for chaining.
func (s *SubDiagnostic[R]) WithLabeledRange(r R, label string) *SubDiagnostic[R] {
	s.AddLabeledRange(r, label)
	return s
}

// WithRange attaches an unlabeled subrange, returning the subdiagnostic for
// chaining.
func (s *SubDiagnostic[R]) WithRange(r R) *SubDiagnostic[R] {
	s.AddRange(r)
	return s
}

// WithSuggestion sets the suggestion, returning the subdiagnostic for
// chaining.
func (s *SubDiagnostic[R]) WithSuggestion(sugg *Suggestion[R]) *SubDiagnostic[R] {
	s.Suggestion = sugg
	return s
}

// Diagnostic holds a main subdiagnostic and any number of attached notes.
type Diagnostic[R any] struct {
	Level Level
	Main  *SubDiagnostic[R]
	Notes []*SubDiagnostic[R]
}

// RawSubDiagnostic has fragmented ranges and no expansion traces.
type RawSubDiagnostic = SubDiagnostic[source.FragmentedRange]

// RawSuggestion has a fragmented replacement range.
type RawSuggestion = Suggestion[source.FragmentedRange]

// RawRanges holds fragmented ranges.
type RawRanges = Ranges[source.FragmentedRange]

// RawDiagnostic has fragmented ranges and no expansion or include traces.
type RawDiagnostic = Diagnostic[source.FragmentedRange]

// RenderedSuggestion has a contiguous replacement range.
type RenderedSuggestion = Suggestion[source.Range]

// RenderedRanges holds contiguous ranges.
type RenderedRanges = Ranges[source.Range]

// RenderedSubDiagnostic is a subdiagnostic with contiguous ranges and an
// expansion trace.
type RenderedSubDiagnostic struct {
	SubDiagnostic[source.Range]
	// Expansions traces this subdiagnostic's ranges through macro
	// expansions, from outermost to innermost.
	Expansions []*RenderedRanges
}

// RenderedDiagnostic is a diagnostic with expansion traces for every
// subdiagnostic and a top-level include trace.
type RenderedDiagnostic struct {
	Level Level
	Main  *RenderedSubDiagnostic
	Notes []*RenderedSubDiagnostic
	// Includes traces the includes leading to this diagnostic's file, from
	// outermost to innermost.
	Includes []source.Pos
}

// RawHandler receives raw diagnostics. The source map is nil when the
// diagnostic was reported without location information.
type RawHandler interface {
	HandleRaw(diag *RawDiagnostic, smap *source.Map)
}

// Handler receives rendered diagnostics. The source map is nil when the
// diagnostic was reported without location information.
type Handler interface {
	Handle(diag *RenderedDiagnostic, smap *source.Map)
}

type renderingAdaptor struct {
	handler Handler
}

func (a *renderingAdaptor) HandleRaw(diag *RawDiagnostic, smap *source.Map) {
	a.handler.Handle(Render(diag, smap), smap)
}

// Manager is the top-level diagnostics engine. It forwards diagnostics to a
// handler, enforces the error limit and tracks statistics about emitted
// diagnostics.
type Manager struct {
	handler      RawHandler
	errorLimit   uint32
	warningCount uint32
	errorCount   uint32
	fatalCount   uint32
}

// NewManager creates a manager forwarding rendered diagnostics to handler.
// When errorLimit is nonzero, the manager emits a fatal diagnostic once that
// many errors have been emitted.
func NewManager(handler Handler, errorLimit uint32) *Manager {
	return NewManagerRaw(&renderingAdaptor{handler: handler}, errorLimit)
}

// NewManagerRaw creates a manager forwarding raw diagnostics to handler.
func NewManagerRaw(handler RawHandler, errorLimit uint32) *Manager {
	return &Manager{handler: handler, errorLimit: errorLimit}
}

// WarningCount returns the number of warnings emitted so far.
func (m *Manager) WarningCount() uint32 { return m.warningCount }

// ErrorCount returns the number of errors emitted so far.
func (m *Manager) ErrorCount() uint32 { return m.errorCount }

// FatalCount returns the number of fatal errors emitted so far.
func (m *Manager) FatalCount() uint32 { return m.fatalCount }

// Reporter returns a reporter for diagnostics with location information
// resolved against smap.
func (m *Manager) Reporter(smap *source.Map) *Reporter {
	return &Reporter{manager: m, smap: smap}
}

// ReportAnon starts a diagnostic with no location information.
func (m *Manager) ReportAnon(level Level, msg string) *Builder {
	return &Builder{
		manager: m,
		diag:    &RawDiagnostic{Level: level, Main: NewAnonSubDiagnostic[source.FragmentedRange](msg)},
	}
}

func (m *Manager) emit(diag *RawDiagnostic, smap *source.Map) error {
	m.handler.HandleRaw(diag, smap)

	switch diag.Level {
	case Warning:
		m.warningCount++
	case Error:
		m.errorCount++
	case Fatal:
		m.fatalCount++
		return ErrFatal
	}

	if m.errorLimit > 0 && m.errorCount >= m.errorLimit {
		return m.ReportAnon(Fatal, "too many errors emitted").Emit()
	}
	return nil
}

// Builder accumulates a diagnostic under construction. Call Emit to actually
// emit it.
type Builder struct {
	manager *Manager
	smap    *source.Map
	diag    *RawDiagnostic
}

// AddLabeledRange attaches a labeled subrange to the diagnostic being built,
// panicking if the diagnostic has no location information.
func (b *Builder) AddLabeledRange(r source.FragmentedRange, label string) *Builder {
	b.diag.Main.AddLabeledRange(r, label)
	return b
}

// AddRange attaches a subrange to the diagnostic being built, panicking if
// the diagnostic has no location information.
func (b *Builder) AddRange(r source.FragmentedRange) *Builder {
	return b.AddLabeledRange(r, "")
}

// SetSuggestion sets the suggestion on the diagnostic being built.
func (b *Builder) SetSuggestion(sugg *RawSuggestion) *Builder {
	b.diag.Main.Suggestion = sugg
	return b
}

// AddNote attaches a note subdiagnostic to the diagnostic being built.
func (b *Builder) AddNote(note *RawSubDiagnostic) *Builder {
	b.diag.Notes = append(b.diag.Notes, note)
	return b
}

// Emit hands the built diagnostic to the manager. It returns ErrFatal when
// the diagnostic caused a fatal error, directly or through the error limit.
func (b *Builder) Emit() error {
	return b.manager.emit(b.diag, b.smap)
}

// Reporter reports diagnostics with location information.
type Reporter struct {
	manager *Manager
	smap    *source.Map
}

// Map returns the source map this reporter resolves locations against.
func (r *Reporter) Map() *source.Map { return r.smap }

// Report starts a diagnostic at the specified location, returning a builder
// to allow the diagnostic to be finished and emitted.
func (r *Reporter) Report(level Level, primary source.FragmentedRange, msg string) *Builder {
	return &Builder{
		manager: r.manager,
		smap:    r.smap,
		diag:    &RawDiagnostic{Level: level, Main: NewSubDiagnostic(msg, primary)},
	}
}

// Warn starts a warning at the specified location.
func (r *Reporter) Warn(primary source.FragmentedRange, msg string) *Builder {
	return r.Report(Warning, primary, msg)
}

// Error starts an error at the specified location.
func (r *Reporter) Error(primary source.FragmentedRange, msg string) *Builder {
	return r.Report(Error, primary, msg)
}

// Fatal starts a fatal error at the specified location.
func (r *Reporter) Fatal(primary source.FragmentedRange, msg string) *Builder {
	return r.Report(Fatal, primary, msg)
}

// ErrorExpectedDelim starts an error that delim was expected at pos, with a
// suggestion to insert it.
func (r *Reporter) ErrorExpectedDelim(pos source.Pos, delim rune) *Builder {
	return r.Error(source.FragmentedRangeAt(pos), fmt.Sprintf("expected a '%c'", delim)).
		SetSuggestion(NewSuggestion(source.FragmentedRangeAt(pos), string(delim)))
}
