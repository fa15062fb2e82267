package fixit

import (
	"testing"

	sgdiff "github.com/sourcegraph/go-diff/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varick/cfront/diag"
	"github.com/varick/cfront/source"
)

func newTestFile(t *testing.T, smap *source.Map, name, src string) source.Range {
	id, err := smap.CreateFile(source.RealFileName(name), source.NewFileContents(src), nil)
	require.NoError(t, err)
	return smap.Source(id).Range
}

func renderedWithSuggestion(sugg *diag.RenderedSuggestion) *diag.RenderedDiagnostic {
	main := &diag.RenderedSubDiagnostic{}
	main.Msg = "expected a ';'"
	main.Suggestion = sugg
	return &diag.RenderedDiagnostic{Level: diag.Error, Main: main}
}

func TestApplierRewritesFile(t *testing.T) {
	smap := source.NewMap()
	fileRange := newTestFile(t, smap, "test.c", "int x = 1\nint y = 2\n")

	applier := NewApplier(smap)
	applier.AddDiagnostic(renderedWithSuggestion(
		diag.NewSuggestion(source.RangeAt(fileRange.Subpos(9)), ";"),
	))
	applier.AddDiagnostic(renderedWithSuggestion(
		diag.NewSuggestion(fileRange.Subrange(18, 1), "3"),
	))

	fixes := applier.Apply()
	require.Len(t, fixes, 1)
	fix := fixes[0]
	assert.Equal(t, "test.c", fix.Path)
	assert.Equal(t, "int x = 1;\nint y = 3\n", fix.New)
	assert.Equal(t, 2, fix.Applied)
}

func TestApplierDropsOverlaps(t *testing.T) {
	smap := source.NewMap()
	fileRange := newTestFile(t, smap, "test.c", "abcdef\n")

	applier := NewApplier(smap)
	applier.AddDiagnostic(renderedWithSuggestion(
		diag.NewSuggestion(fileRange.Subrange(0, 4), "X"),
	))
	applier.AddDiagnostic(renderedWithSuggestion(
		diag.NewSuggestion(fileRange.Subrange(2, 2), "Y"),
	))

	fixes := applier.Apply()
	require.Len(t, fixes, 1)
	assert.Equal(t, "Xef\n", fixes[0].New)
	assert.Equal(t, 1, fixes[0].Applied)
}

func TestApplierIgnoresDiagnosticsWithoutSuggestions(t *testing.T) {
	smap := source.NewMap()
	newTestFile(t, smap, "test.c", "int x;\n")

	applier := NewApplier(smap)
	applier.AddDiagnostic(renderedWithSuggestion(nil))
	assert.Empty(t, applier.Apply())
}

func TestFixDiff(t *testing.T) {
	smap := source.NewMap()
	fileRange := newTestFile(t, smap, "test.c", "int x = 1\nint y = 2\n")

	applier := NewApplier(smap)
	applier.AddDiagnostic(renderedWithSuggestion(
		diag.NewSuggestion(source.RangeAt(fileRange.Subpos(9)), ";"),
	))

	fixes := applier.Apply()
	require.Len(t, fixes, 1)

	patch, stats, err := fixes[0].Diff(3)
	require.NoError(t, err)
	assert.Equal(t, DiffStats{Added: 1, Removed: 1}, stats)

	fd, err := sgdiff.ParseFileDiff([]byte(patch))
	require.NoError(t, err)
	assert.Equal(t, "test.c", fd.OrigName)
	require.Len(t, fd.Hunks, 1)
	assert.Contains(t, string(fd.Hunks[0].Body), "+int x = 1;")
	assert.Contains(t, string(fd.Hunks[0].Body), "-int x = 1")
}

func TestFixDiffUnchanged(t *testing.T) {
	fix := Fix{Path: "test.c", Old: "same\n", New: "same\n"}
	patch, stats, err := fix.Diff(0)
	require.NoError(t, err)
	assert.Empty(t, patch)
	assert.Equal(t, DiffStats{}, stats)
}
