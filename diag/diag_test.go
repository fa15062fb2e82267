package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varick/cfront/source"
)

type countingHandler struct {
	diags []*RenderedDiagnostic
}

func (c *countingHandler) Handle(diag *RenderedDiagnostic, _ *source.Map) {
	c.diags = append(c.diags, diag)
}

func newTestFile(t *testing.T, smap *source.Map, name, contents string) source.Range {
	t.Helper()
	id, err := smap.CreateFile(source.RealFileName(name), source.NewFileContents(contents), nil)
	require.NoError(t, err)
	return smap.Source(id).Range
}

func TestManagerCounts(t *testing.T) {
	handler := &countingHandler{}
	manager := NewManager(handler, 0)

	smap := source.NewMap()
	fileRange := newTestFile(t, smap, "test.c", "int x = 3")

	reporter := manager.Reporter(smap)
	require.NoError(t, reporter.Warn(source.FragmentedRangeAt(fileRange.Subpos(4)), "unused variable 'x'").Emit())
	require.NoError(t, reporter.Error(source.FragmentedRangeAt(fileRange.Subpos(8)), "expected a ';'").Emit())
	require.NoError(t, manager.ReportAnon(Note, "compilation attempted").Emit())

	assert.Equal(t, uint32(1), manager.WarningCount())
	assert.Equal(t, uint32(1), manager.ErrorCount())
	assert.Len(t, handler.diags, 3)
}

func TestManagerErrorLimit(t *testing.T) {
	handler := &countingHandler{}
	manager := NewManager(handler, 2)

	smap := source.NewMap()
	fileRange := newTestFile(t, smap, "test.c", "bad bad")
	reporter := manager.Reporter(smap)

	require.NoError(t, reporter.Error(source.FragmentedRangeAt(fileRange.Start()), "first error").Emit())

	err := reporter.Error(source.FragmentedRangeAt(fileRange.Subpos(4)), "second error").Emit()
	assert.ErrorIs(t, err, ErrFatal)

	last := handler.diags[len(handler.diags)-1]
	assert.Equal(t, Fatal, last.Level)
	assert.Equal(t, "too many errors emitted", last.Main.Msg)
}

func TestManagerFatalPropagates(t *testing.T) {
	manager := NewManager(&countingHandler{}, 0)
	assert.ErrorIs(t, manager.ReportAnon(Fatal, "giving up").Emit(), ErrFatal)
	assert.Equal(t, uint32(1), manager.FatalCount())
	assert.Equal(t, uint32(0), manager.ErrorCount())
}

func TestBuilderNotesAndRanges(t *testing.T) {
	handler := &countingHandler{}
	manager := NewManager(handler, 0)

	smap := source.NewMap()
	fileRange := newTestFile(t, smap, "test.c", "int x = y + z")

	err := manager.Reporter(smap).
		Error(source.NewFragmentedRange(fileRange.Subpos(8), fileRange.Subpos(13)), "invalid operands").
		AddLabeledRange(source.FragmentedRangeAt(fileRange.Subpos(8)), "first operand").
		AddNote(NewAnonSubDiagnostic[source.FragmentedRange]("operands must be arithmetic")).
		Emit()
	require.NoError(t, err)

	require.Len(t, handler.diags, 1)
	diag := handler.diags[0]
	require.NotNil(t, diag.Main.Ranges)
	assert.Equal(t, fileRange.Subrange(8, 5), diag.Main.Ranges.PrimaryRange)
	require.Len(t, diag.Notes, 1)
	assert.Equal(t, "operands must be arithmetic", diag.Notes[0].Msg)
	assert.Nil(t, diag.Notes[0].Ranges)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "note", Note.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "fatal", Fatal.String())
}
