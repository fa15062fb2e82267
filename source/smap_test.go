package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFile(t *testing.T) {
	sm := NewMap()

	name := RealFileName("file")
	id, err := sm.CreateFile(name, NewFileContents("line\nline\nline"), nil)
	require.NoError(t, err)

	file := sm.Source(id).AsFile()
	require.NotNil(t, file)
	assert.Equal(t, name, file.Name)
}

func TestCreateExpansion(t *testing.T) {
	sm := NewMap()

	fileID, err := sm.CreateFile(RealFileName("file.c"), NewFileContents("#define A 5\nA;"), nil)
	require.NoError(t, err)
	fileRange := sm.Source(fileID).Range

	expID, err := sm.CreateExpansion(fileRange.Subrange(10, 1), fileRange.Subrange(12, 1), ExpansionMacro)
	require.NoError(t, err)

	exp := sm.Source(expID).AsExpansion()
	require.NotNil(t, exp)
	assert.Equal(t, fileRange.Subpos(10), exp.SpellingPos)
	assert.Equal(t, ExpansionMacro, exp.Kind)
}

func TestLookupPos(t *testing.T) {
	sm := NewMap()

	cID, err := sm.CreateFile(RealFileName("file.c"), NewFileContents("#include <file.h>"), nil)
	require.NoError(t, err)

	emptyID, err := sm.CreateFile(RealFileName("empty.c"), NewFileContents(""), nil)
	require.NoError(t, err)

	includePos := sm.Source(cID).Range.Start()
	hID, err := sm.CreateFile(RealFileName("file.h"), NewFileContents("void f();"), &includePos)
	require.NoError(t, err)

	assert.Equal(t, cID, sm.LookupID(sm.Source(cID).Range.Subpos(3)))
	assert.Equal(t, emptyID, sm.LookupID(sm.Source(emptyID).Range.Start()))
	assert.Equal(t, hID, sm.LookupID(sm.Source(hID).Range.Subpos(3)))
}

func TestLookupPosBounds(t *testing.T) {
	sm := NewMap()
	id, err := sm.CreateFile(RealFileName("file"), NewFileContents(""), nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() { sm.LookupID(sm.Source(id).Range.Start()) })
	assert.Panics(t, func() { sm.LookupID(sm.Source(id).Range.Start().Offset(2)) })
}

// populateMap builds the map for "#define B(x) (x + 3)\n#define A B(5 * 2)\nint x = A;"
// with the expansion of A at the end, the nested expansion of B inside it and
// the macro-arg expansion of x inside that.
func populateMap(t *testing.T, sm *Map) (fileRange, expA, expB, expBX Range) {
	t.Helper()

	fileID, err := sm.CreateFile(
		RealFileName("file.c"),
		NewFileContents("#define B(x) (x + 3)\n#define A B(5 * 2)\nint x = A;"),
		nil,
	)
	require.NoError(t, err)
	fileRange = sm.Source(fileID).Range

	expAID, err := sm.CreateExpansion(fileRange.Subrange(31, 8), fileRange.Subrange(48, 1), ExpansionMacro)
	require.NoError(t, err)
	expA = sm.Source(expAID).Range

	expBID, err := sm.CreateExpansion(fileRange.Subrange(13, 7), expA.Subrange(0, 1), ExpansionMacro)
	require.NoError(t, err)
	expB = sm.Source(expBID).Range

	expBXID, err := sm.CreateExpansion(expA.Subrange(2, 5), expB.Subrange(1, 1), ExpansionMacroArg)
	require.NoError(t, err)
	expBX = sm.Source(expBXID).Range

	return fileRange, expA, expB, expBX
}

func TestImmediateSpellingPos(t *testing.T) {
	sm := NewMap()
	fileRange, expA, expB, expBX := populateMap(t, sm)

	_, ok := sm.ImmediateSpellingPos(fileRange.Subpos(5))
	assert.False(t, ok)

	pos, ok := sm.ImmediateSpellingPos(expA.Subpos(4))
	assert.True(t, ok)
	assert.Equal(t, fileRange.Subpos(35), pos)

	pos, ok = sm.ImmediateSpellingPos(expB.Subpos(2))
	assert.True(t, ok)
	assert.Equal(t, fileRange.Subpos(15), pos)

	pos, ok = sm.ImmediateSpellingPos(expBX.Subpos(3))
	assert.True(t, ok)
	assert.Equal(t, expA.Subpos(5), pos)
}

func TestSpellingPos(t *testing.T) {
	sm := NewMap()
	fileRange, expA, expB, expBX := populateMap(t, sm)

	inFile := fileRange.Subpos(5)
	assert.Equal(t, inFile, sm.SpellingPos(inFile))
	assert.Equal(t, fileRange.Subpos(35), sm.SpellingPos(expA.Subpos(4)))
	assert.Equal(t, fileRange.Subpos(15), sm.SpellingPos(expB.Subpos(2)))
	assert.Equal(t, fileRange.Subpos(36), sm.SpellingPos(expBX.Subpos(3)))
}

func TestSpelling(t *testing.T) {
	sm := NewMap()
	fileRange, expA, expB, expBX := populateMap(t, sm)

	assert.Equal(t, "#define", sm.Spelling(fileRange.Subrange(0, 7)))
	assert.Equal(t, "5 * 2", sm.Spelling(expA.Subrange(2, 5)))
	assert.Equal(t, "(x +", sm.Spelling(expB.Subrange(0, 4)))
	assert.Equal(t, "5 * 2", sm.Spelling(expBX.Subrange(0, 5)))
}

func TestReplacementRange(t *testing.T) {
	sm := NewMap()
	fileRange, expA, expB, expBX := populateMap(t, sm)

	expRange := fileRange.Subrange(48, 1)

	inFile := fileRange.Subrange(5, 2)
	_, ok := sm.ImmediateReplacementRange(inFile)
	assert.False(t, ok)
	assert.Equal(t, inFile, sm.ReplacementRange(inFile))

	got, ok := sm.ImmediateReplacementRange(expA.Subrange(3, 3))
	assert.True(t, ok)
	assert.Equal(t, expRange, got)

	got, ok = sm.ImmediateReplacementRange(expB.Subrange(2, 1))
	assert.True(t, ok)
	assert.Equal(t, expA.Subrange(0, 1), got)

	got, ok = sm.ImmediateReplacementRange(expBX.Subrange(2, 2))
	assert.True(t, ok)
	assert.Equal(t, expB.Subrange(1, 1), got)

	assert.Equal(t, expRange, sm.ReplacementRange(expA.Subrange(3, 3)))
	assert.Equal(t, expRange, sm.ReplacementRange(expB.Subrange(2, 1)))
	assert.Equal(t, expRange, sm.ReplacementRange(expBX.Subrange(2, 2)))
}

func TestCallerRange(t *testing.T) {
	sm := NewMap()
	fileRange, expA, expB, expBX := populateMap(t, sm)

	expRange := fileRange.Subrange(48, 1)

	inFile := fileRange.Subrange(5, 2)
	_, ok := sm.ImmediateCallerRange(inFile)
	assert.False(t, ok)
	assert.Equal(t, inFile, sm.CallerRange(inFile))

	got, ok := sm.ImmediateCallerRange(expA.Subrange(3, 3))
	assert.True(t, ok)
	assert.Equal(t, expRange, got)

	got, ok = sm.ImmediateCallerRange(expB.Subrange(2, 1))
	assert.True(t, ok)
	assert.Equal(t, expA.Subrange(0, 1), got)

	// A macro argument's caller is where the argument was spelled.
	got, ok = sm.ImmediateCallerRange(expBX.Subrange(2, 2))
	assert.True(t, ok)
	assert.Equal(t, expA.Subrange(4, 2), got)

	assert.Equal(t, expRange, sm.CallerRange(expBX.Subrange(2, 2)))
}

func TestInterpretedRange(t *testing.T) {
	sm := NewMap()
	fileRange, _, _, _ := populateMap(t, sm)

	interp := sm.InterpretedRange(fileRange.Subrange(15, 16))

	assert.Equal(t, RealFileName("file.c"), interp.Name())
	assert.Equal(t, uint32(15), interp.Off)
	assert.Equal(t, uint32(16), interp.Len)
	assert.Equal(t, LineCol{Line: 0, Col: 15}, interp.StartLineCol())
	assert.Equal(t, LineCol{Line: 1, Col: 10}, interp.EndLineCol())
}

func TestInterpretedRangeLineSnippets(t *testing.T) {
	sm := NewMap()
	fileRange, _, _, _ := populateMap(t, sm)

	gather := func(off, length uint32) []LineSnippet {
		return sm.InterpretedRange(fileRange.Subrange(off, length)).LineSnippets()
	}

	assert.Equal(t, []LineSnippet{
		{Line: "#define B(x) (x + 3)", LineNum: 0, Off: 2, Len: 15},
	}, gather(2, 15))

	assert.Equal(t, []LineSnippet{
		{Line: "#define A B(5 * 2)", LineNum: 1, Off: 3, Len: 15},
		{Line: "int x = A;", LineNum: 2, Off: 0, Len: 5},
	}, gather(24, 21))

	assert.Equal(t, []LineSnippet{
		{Line: "#define B(x) (x + 3)", LineNum: 0, Off: 5, Len: 15},
		{Line: "#define A B(5 * 2)", LineNum: 1, Off: 0, Len: 18},
		{Line: "int x = A;", LineNum: 2, Off: 0, Len: 2},
	}, gather(5, 37))
}

func TestUnfragmentedRange(t *testing.T) {
	sm := NewMap()
	fileRange, expA, expB, expBX := populateMap(t, sm)

	testCases := []struct {
		description string
		fragmented  FragmentedRange
		expected    Range
	}{
		{
			description: "both endpoints in file",
			fragmented:  NewFragmentedRange(fileRange.Subpos(3), fileRange.Subpos(10)),
			expected:    fileRange.Subrange(3, 7),
		},
		{
			description: "both endpoints in macro arg expansion",
			fragmented:  NewFragmentedRange(expBX.Subpos(2), expBX.Subpos(4)),
			expected:    expBX.Subrange(2, 2),
		},
		{
			description: "across nested arg expansion",
			fragmented:  NewFragmentedRange(expB.Start(), expBX.Subpos(3)),
			expected:    expB.Subrange(0, 2),
		},
		{
			description: "across sibling expansions",
			fragmented:  NewFragmentedRange(expA.Start(), expB.Subpos(3)),
			expected:    expA.Subrange(0, 1),
		},
		{
			description: "across expansion and file",
			fragmented:  NewFragmentedRange(fileRange.Subpos(40), expB.Subpos(4)),
			expected:    fileRange.Subrange(40, 9),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, ok := sm.UnfragmentedRange(tc.fragmented)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestUnfragmentedRangeCrossFile(t *testing.T) {
	sm := NewMap()

	srcID, err := sm.CreateFile(RealFileName("file.c"), NewFileContents("#include \"file.h\"\nint x = A;"), nil)
	require.NoError(t, err)

	includePos := sm.Source(srcID).Range.Start()
	headerID, err := sm.CreateFile(
		RealFileName("file.h"),
		NewFileContents("#define B(x) (x + 3)\n#define A B(5 * 2)"),
		&includePos,
	)
	require.NoError(t, err)

	_, ok := sm.UnfragmentedRange(NewFragmentedRange(
		sm.Source(headerID).Range.Subpos(7),
		sm.Source(srcID).Range.Subpos(3),
	))
	assert.False(t, ok)
}

func TestIncluderChain(t *testing.T) {
	sm := NewMap()

	srcID, err := sm.CreateFile(RealFileName("file.c"), NewFileContents("#include \"file.h\""), nil)
	require.NoError(t, err)

	includePos := sm.Source(srcID).Range.Subpos(3)
	headerID, err := sm.CreateFile(RealFileName("file.h"), NewFileContents("void f();"), &includePos)
	require.NoError(t, err)

	var ids []ID
	sm.IncluderChain(sm.Source(headerID).Range.Subpos(2), func(id ID, _ Pos) bool {
		ids = append(ids, id)
		return true
	})
	assert.Equal(t, []ID{headerID, srcID}, ids)
}
