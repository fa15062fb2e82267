package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varick/cfront/source"
)

// populateExpansions sets up "#define B(x) (x + 3)\n#define A B(5 * 2)\nint x = A;"
// with A expanded on the last line, B expanded inside A and B's argument
// expanded inside B.
func populateExpansions(t *testing.T, smap *source.Map) (fileRange, expA, expB, expBX source.Range) {
	t.Helper()

	fileID, err := smap.CreateFile(
		source.RealFileName("file.c"),
		source.NewFileContents("#define B(x) (x + 3)\n#define A B(5 * 2)\nint x = A;"),
		nil,
	)
	require.NoError(t, err)
	fileRange = smap.Source(fileID).Range

	expAID, err := smap.CreateExpansion(fileRange.Subrange(31, 8), fileRange.Subrange(48, 1), source.ExpansionMacro)
	require.NoError(t, err)
	expA = smap.Source(expAID).Range

	expBID, err := smap.CreateExpansion(fileRange.Subrange(13, 7), expA.Subrange(0, 1), source.ExpansionMacro)
	require.NoError(t, err)
	expB = smap.Source(expBID).Range

	expBXID, err := smap.CreateExpansion(expA.Subrange(2, 5), expB.Subrange(1, 1), source.ExpansionMacroArg)
	require.NoError(t, err)
	expBX = smap.Source(expBXID).Range

	return fileRange, expA, expB, expBX
}

func TestRenderInFile(t *testing.T) {
	smap := source.NewMap()
	fileRange, _, _, _ := populateExpansions(t, smap)

	raw := &RawDiagnostic{
		Level: Error,
		Main:  NewSubDiagnostic("something bad", source.NewFragmentedRange(fileRange.Subpos(40), fileRange.Subpos(45))),
	}
	rendered := Render(raw, smap)

	assert.Equal(t, Error, rendered.Level)
	assert.Equal(t, "something bad", rendered.Main.Msg)
	require.NotNil(t, rendered.Main.Ranges)
	assert.Equal(t, fileRange.Subrange(40, 5), rendered.Main.Ranges.PrimaryRange)
	assert.Empty(t, rendered.Main.Expansions)
	assert.Empty(t, rendered.Includes)
}

func TestRenderExpansionTrace(t *testing.T) {
	smap := source.NewMap()
	fileRange, _, _, expBX := populateExpansions(t, smap)

	raw := &RawDiagnostic{
		Level: Warning,
		Main:  NewSubDiagnostic("suspicious arithmetic", source.NewFragmentedRange(expBX.Subpos(2), expBX.Subpos(4))),
	}
	rendered := Render(raw, smap)

	// The diagnostic is reported at the outermost expansion point.
	require.NotNil(t, rendered.Main.Ranges)
	assert.Equal(t, fileRange.Subrange(48, 1), rendered.Main.Ranges.PrimaryRange)

	// Traces run from outermost to innermost, with macro arguments shifted
	// to their use inside the macro and all ranges resolved to spellings.
	require.Len(t, rendered.Main.Expansions, 2)
	assert.Equal(t, fileRange.Subrange(35, 2), rendered.Main.Expansions[0].PrimaryRange)
	assert.Equal(t, fileRange.Subrange(14, 1), rendered.Main.Expansions[1].PrimaryRange)
}

func TestRenderCrossFilePrimaryFallsBackToStart(t *testing.T) {
	smap := source.NewMap()

	srcRange := newTestFile(t, smap, "file.c", "#include \"file.h\"\nint x;")
	includePos := srcRange.Start()
	hdrID, err := smap.CreateFile(source.RealFileName("file.h"), source.NewFileContents("int y;"), &includePos)
	require.NoError(t, err)
	hdrRange := smap.Source(hdrID).Range

	raw := &RawDiagnostic{
		Level: Error,
		Main:  NewSubDiagnostic("spans two files", source.NewFragmentedRange(hdrRange.Subpos(4), srcRange.Subpos(22))),
	}
	rendered := Render(raw, smap)

	require.NotNil(t, rendered.Main.Ranges)
	assert.Equal(t, source.RangeAt(hdrRange.Subpos(4)), rendered.Main.Ranges.PrimaryRange)
}

func TestRenderIncludeTrace(t *testing.T) {
	smap := source.NewMap()

	srcRange := newTestFile(t, smap, "file.c", "#include \"file.h\"")
	includePos := srcRange.Subpos(3)
	hdrID, err := smap.CreateFile(source.RealFileName("file.h"), source.NewFileContents("void f();"), &includePos)
	require.NoError(t, err)
	hdrRange := smap.Source(hdrID).Range

	raw := &RawDiagnostic{
		Level: Error,
		Main:  NewSubDiagnostic("bad declaration", source.FragmentedRangeAt(hdrRange.Subpos(5))),
	}
	rendered := Render(raw, smap)

	assert.Equal(t, []source.Pos{includePos}, rendered.Includes)
}

func TestRenderSubrangeDedup(t *testing.T) {
	smap := source.NewMap()
	fileRange := newTestFile(t, smap, "test.c", "aaa bbb ccc ddd")

	raw := &RawDiagnostic{
		Level: Error,
		Main: NewSubDiagnostic("overlap", source.NewFragmentedRange(fileRange.Start(), fileRange.Subpos(3))).
			WithLabeledRange(source.NewFragmentedRange(fileRange.Subpos(4), fileRange.Subpos(9)), "first").
			WithLabeledRange(source.NewFragmentedRange(fileRange.Subpos(8), fileRange.Subpos(11)), "second").
			WithLabeledRange(source.NewFragmentedRange(fileRange.Subpos(12), fileRange.Subpos(15)), "third"),
	}
	rendered := Render(raw, smap)

	require.NotNil(t, rendered.Main.Ranges)
	subranges := rendered.Main.Ranges.Subranges
	require.Len(t, subranges, 2)
	// Overlapping subranges are coalesced and lose their labels.
	assert.Equal(t, fileRange.Subrange(4, 7), subranges[0].Range)
	assert.Equal(t, "", subranges[0].Label)
	assert.Equal(t, fileRange.Subrange(12, 3), subranges[1].Range)
	assert.Equal(t, "third", subranges[1].Label)
}

func TestRenderSuggestion(t *testing.T) {
	smap := source.NewMap()
	fileRange, _, _, expBX := populateExpansions(t, smap)

	inFile := &RawDiagnostic{
		Level: Error,
		Main: NewSubDiagnostic("expected a ';'", source.FragmentedRangeAt(fileRange.Subpos(50))).
			WithSuggestion(NewSuggestion(source.FragmentedRangeAt(fileRange.Subpos(50)), ";")),
	}
	rendered := Render(inFile, smap)
	require.NotNil(t, rendered.Main.Suggestion)
	assert.Equal(t, source.RangeAt(fileRange.Subpos(50)), rendered.Main.Suggestion.ReplacementRange)
	assert.Equal(t, ";", rendered.Main.Suggestion.InsertText)

	// Suggestions inside macro expansions are dropped.
	inExp := &RawDiagnostic{
		Level: Error,
		Main: NewSubDiagnostic("expected a ';'", source.FragmentedRangeAt(expBX.Subpos(2))).
			WithSuggestion(NewSuggestion(source.FragmentedRangeAt(expBX.Subpos(2)), ";")),
	}
	assert.Nil(t, Render(inExp, smap).Main.Suggestion)
}

func TestRenderWithoutMap(t *testing.T) {
	raw := &RawDiagnostic{
		Level: Error,
		Main:  NewSubDiagnostic("located", source.FragmentedRangeAt(source.Pos(3))),
	}
	rendered := Render(raw, nil)
	assert.Nil(t, rendered.Main.Ranges)
	assert.Empty(t, rendered.Includes)
}
