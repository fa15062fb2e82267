package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testContents() *FileContents {
	return NewFileContents("Test\nline\n\n  other line!")
}

func TestLineColLookup(t *testing.T) {
	c := testContents()
	assert.Equal(t, LineCol{Line: 0, Col: 0}, c.LineCol(0))
	assert.Equal(t, LineCol{Line: 0, Col: 2}, c.LineCol(2))
	assert.Equal(t, LineCol{Line: 1, Col: 3}, c.LineCol(8))
	assert.Equal(t, LineCol{Line: 2, Col: 0}, c.LineCol(10))
	assert.Equal(t, LineCol{Line: 3, Col: 5}, c.LineCol(16))
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, uint32(4), testContents().LineCount())
}

func TestLineStartEnd(t *testing.T) {
	c := testContents()
	assert.Equal(t, uint32(0), c.LineStart(0))
	assert.Equal(t, uint32(5), c.LineStart(1))
	assert.Equal(t, "line", c.Line(1))
	assert.Equal(t, "", c.Line(2))
	assert.Equal(t, "  other line!", c.Line(3))
	assert.Panics(t, func() { c.LineStart(4) })
}

func TestNormalizesLineEndings(t *testing.T) {
	c := NewFileContents("a\r\nb\r\n")
	assert.Equal(t, "a\nb\n", c.Src())
	assert.Equal(t, uint32(3), c.LineCount())
}

func TestFileNameDisplay(t *testing.T) {
	assert.Equal(t, "dir/file.c", RealFileName("dir/file.c").String())
	assert.Equal(t, "<paste>", SynthFileName("paste").String())
	assert.True(t, RealFileName("x").IsReal())
	assert.False(t, SynthFileName("x").IsReal())
}
