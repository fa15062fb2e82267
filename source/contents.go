package source

import (
	"fmt"
	"sort"
	"strings"
)

// FileName represents a file name, which is either a real path or a name
// synthesized by the compiler. Synthesized names are used for source code
// created by a token paste, for example.
type FileName struct {
	name  string
	synth bool
}

// RealFileName returns a file name backed by an actual path.
func RealFileName(path string) FileName {
	return FileName{name: path}
}

// SynthFileName returns a synthesized file name.
func SynthFileName(name string) FileName {
	return FileName{name: name, synth: true}
}

// IsReal reports whether the file name refers to a real path.
func (n FileName) IsReal() bool { return !n.synth }

// Path returns the underlying path or synthesized name.
func (n FileName) Path() string { return n.name }

func (n FileName) String() string {
	if n.synth {
		return "<" + n.name + ">"
	}
	return n.name
}

// lineTable looks up line numbers by file offset. It stores the starting
// offset of every line in ascending order.
type lineTable struct {
	lineOffsets []uint32
}

func newLineTable(src string) *lineTable {
	offsets := []uint32{0}
	for off, c := range src {
		if c == '\n' {
			offsets = append(offsets, uint32(off)+1)
		}
	}
	return &lineTable{lineOffsets: offsets}
}

func (t *lineTable) lineCol(off uint32) LineCol {
	line := sort.Search(len(t.lineOffsets), func(i int) bool {
		return t.lineOffsets[i] > off
	}) - 1
	return LineCol{Line: uint32(line), Col: off - t.lineOffsets[line]}
}

func (t *lineTable) lineCount() uint32 {
	return uint32(len(t.lineOffsets))
}

func (t *lineTable) lineStart(line uint32) uint32 {
	return t.lineOffsets[line]
}

// FileContents holds the contents of a loaded source file together with a
// line table for offset lookups.
type FileContents struct {
	src   string
	lines *lineTable
}

// NewFileContents creates FileContents for the specified source. Line
// endings are normalized to "\n".
func NewFileContents(src string) *FileContents {
	normalized := strings.ReplaceAll(src, "\r\n", "\n")
	return &FileContents{
		src:   normalized,
		lines: newLineTable(normalized),
	}
}

// Src returns the normalized source code in the file.
func (c *FileContents) Src() string { return c.src }

// Len returns the length of the source in bytes.
func (c *FileContents) Len() uint32 { return uint32(len(c.src)) }

// Snippet retrieves the portion of the source code in [start, end). It
// panics if the range does not lie within the source.
func (c *FileContents) Snippet(start, end uint32) string {
	return c.src[start:end]
}

// LineCount returns the number of lines in the source.
func (c *FileContents) LineCount() uint32 {
	return c.lines.lineCount()
}

// LineCol computes the line and column numbers for the specified offset,
// panicking if the offset is past the end of the source.
func (c *FileContents) LineCol(off uint32) LineCol {
	if off > uint32(len(c.src)) {
		panic(fmt.Sprintf("source: offset %d past end of file", off))
	}
	return c.lines.lineCol(off)
}

// LineStart returns the starting offset of the specified zero-based line,
// panicking if the line number is out of range.
func (c *FileContents) LineStart(line uint32) uint32 {
	return c.lines.lineStart(line)
}

// LineEnd returns the ending offset of the specified zero-based line,
// excluding the newline character, panicking if the line number is out of
// range.
func (c *FileContents) LineEnd(line uint32) uint32 {
	if line >= c.LineCount() {
		panic(fmt.Sprintf("source: line %d out of range", line))
	}
	if line == c.LineCount()-1 {
		return uint32(len(c.src))
	}
	return c.lines.lineStart(line+1) - 1
}

// Lines returns lines first..last of the source code, including interior
// newlines. It panics if either line number is out of range or first > last.
func (c *FileContents) Lines(first, last uint32) string {
	return c.Snippet(c.LineStart(first), c.LineEnd(last))
}

// Line returns the specified line of source code without its trailing
// newline.
func (c *FileContents) Line(line uint32) string {
	return c.Lines(line, line)
}
