package source

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrTooLarge indicates that the combined size of all sources would exceed
// the addressable offset space.
var ErrTooLarge = errors.New("source: translation unit too large")

// Map holds all of the source code used in a compilation.
//
// In addition to storing the code itself, the Map tracks detailed location
// information within it and can resolve a Pos or Range into file, line and
// column information with full macro traces.
//
// The Map contains a number of Source objects, each covering a contiguous
// chunk of a single global offset space. File sources represent actual
// source files; a single file on disk may have multiple file sources, one
// for every time it is included. Expansion sources track macro expansions:
// instead of containing code, an expansion source points at a spelling range
// (where the expanded code was written) and a replacement range (where the
// code was expanded into). Both may themselves point into other expansion
// sources, forming a DAG of spellings and expansions.
type Map struct {
	sources    []*Source
	nextOffset uint32
}

// NewMap returns an empty source map.
func NewMap() *Map {
	return &Map{}
}

func (m *Map) addSource(s *Source, size uint32) (ID, error) {
	// Reserve an extra past-the-end byte, useful for end-of-file positions
	// and disambiguation of empty sources.
	if size == math.MaxUint32 || m.nextOffset > math.MaxUint32-(size+1) {
		return 0, ErrTooLarge
	}
	extended := size + 1

	s.Range = NewRange(Pos(m.nextOffset), extended)
	m.nextOffset += extended

	id := ID(len(m.sources))
	m.sources = append(m.sources, s)
	return id, nil
}

// CreateFile adds a file source with the specified name, contents and
// optional include position, returning its ID.
func (m *Map) CreateFile(name FileName, contents *FileContents, includePos *Pos) (ID, error) {
	return m.addSource(&Source{
		file: &FileInfo{Name: name, Contents: contents, IncludePos: includePos},
	}, contents.Len())
}

// CreateExpansion adds an expansion source covering spellingRange, expanded
// at replacementRange, returning its ID.
func (m *Map) CreateExpansion(spellingRange, replacementRange Range, kind ExpansionKind) (ID, error) {
	return m.addSource(&Source{
		expansion: &ExpansionInfo{
			SpellingPos:      spellingRange.Start(),
			ReplacementRange: replacementRange,
			Kind:             kind,
		},
	}, spellingRange.Len())
}

// Source returns the source with the specified ID.
func (m *Map) Source(id ID) *Source {
	return m.sources[id]
}

// LookupID returns the ID of the source containing pos, panicking if pos
// lies beyond all sources.
func (m *Map) LookupID(pos Pos) ID {
	if len(m.sources) == 0 || pos > m.sources[len(m.sources)-1].Range.End() {
		panic("source: position outside map")
	}
	idx := sort.Search(len(m.sources), func(i int) bool {
		return m.sources[i].Range.Start() > pos
	}) - 1
	return ID(idx)
}

// LookupOff returns the source containing pos along with pos's local offset
// within it.
func (m *Map) LookupOff(pos Pos) (*Source, uint32) {
	s := m.Source(m.LookupID(pos))
	return s, s.LocalOff(pos)
}

// LookupRange returns the source containing r along with r's local offsets
// within it.
func (m *Map) LookupRange(r Range) (s *Source, start, end uint32) {
	s = m.Source(m.LookupID(r.Start()))
	start, end = s.LocalRange(r)
	return s, start, end
}

// IncluderChain walks pos through the include stack, invoking visit for each
// (source, position) pair starting with pos's own file.
func (m *Map) IncluderChain(pos Pos, visit func(ID, Pos) bool) {
	for {
		id := m.LookupID(pos)
		if !visit(id, pos) {
			return
		}
		file := m.Source(id).AsFile()
		if file == nil || file.IncludePos == nil {
			return
		}
		pos = *file.IncludePos
	}
}

// ImmediateSpellingPos returns the spelling position one level up, or false
// when pos is already inside a file source.
func (m *Map) ImmediateSpellingPos(pos Pos) (Pos, bool) {
	s, off := m.LookupOff(pos)
	exp := s.AsExpansion()
	if exp == nil {
		return pos, false
	}
	return exp.SpellingAt(off), true
}

// SpellingPos resolves pos through all expansions to the position at which
// it was ultimately spelled in a file.
func (m *Map) SpellingPos(pos Pos) Pos {
	for {
		next, ok := m.ImmediateSpellingPos(pos)
		if !ok {
			return pos
		}
		pos = next
	}
}

// Spelling returns the source text at which r was ultimately spelled.
func (m *Map) Spelling(r Range) string {
	pos := m.SpellingPos(r.Start())
	s, off := m.LookupOff(pos)
	file := s.AsFile()
	if file == nil {
		panic("source: spelling chain ended in non-file source")
	}
	return file.Contents.Snippet(off, off+r.Len())
}

// ImmediateReplacementRange returns the range r was expanded into one level
// up, or false when r lies inside a file source.
func (m *Map) ImmediateReplacementRange(r Range) (Range, bool) {
	s, _, _ := m.LookupRange(r)
	exp := s.AsExpansion()
	if exp == nil {
		return r, false
	}
	return exp.ReplacementRange, true
}

// ReplacementChain walks r outward through the replacement ranges of its
// expansions, invoking visit for each (source, range) pair starting with r
// itself.
func (m *Map) ReplacementChain(r Range, visit func(ID, Range) bool) {
	for {
		id := m.LookupID(r.Start())
		if !visit(id, r) {
			return
		}
		exp := m.Source(id).AsExpansion()
		if exp == nil {
			return
		}
		r = exp.ReplacementRange
	}
}

// ReplacementRange resolves r to the outermost range it was expanded into.
func (m *Map) ReplacementRange(r Range) Range {
	ret := r
	m.ReplacementChain(r, func(_ ID, cur Range) bool {
		ret = cur
		return true
	})
	return ret
}

// ImmediateCallerRange returns the caller range one level up, or false when
// r lies inside a file source. For macro arguments the caller is where the
// argument was spelled; for everything else it is the replacement range.
func (m *Map) ImmediateCallerRange(r Range) (Range, bool) {
	s, start, end := m.LookupRange(r)
	exp := s.AsExpansion()
	if exp == nil {
		return r, false
	}
	return exp.CallerRange(start, end), true
}

// CallerChain walks r outward through caller ranges, invoking visit for each
// (source, range) pair starting with r itself.
func (m *Map) CallerChain(r Range, visit func(ID, Range) bool) {
	for {
		id := m.LookupID(r.Start())
		if !visit(id, r) {
			return
		}
		s := m.Source(id)
		exp := s.AsExpansion()
		if exp == nil {
			return
		}
		start, end := s.LocalRange(r)
		r = exp.CallerRange(start, end)
	}
}

// CallerRange resolves r to the outermost caller range.
func (m *Map) CallerRange(r Range) Range {
	ret := r
	m.CallerChain(r, func(_ ID, cur Range) bool {
		ret = cur
		return true
	})
	return ret
}

// UnfragmentedRange attempts to fold a fragmented range back into a single
// contiguous range covering both endpoints, possibly after walking out of
// macro expansions. It returns false when the endpoints share no common
// source.
func (m *Map) UnfragmentedRange(r FragmentedRange) (Range, bool) {
	type link struct {
		id  ID
		pos Pos
	}

	chain := func(pos Pos, pick func(Range) Pos) []link {
		var links []link
		m.ReplacementChain(RangeAt(pos), func(id ID, cur Range) bool {
			links = append(links, link{id: id, pos: pick(cur)})
			return true
		})
		return links
	}

	startLinks := chain(r.Start, Range.Start)
	endLinks := chain(r.End, Range.End)

	// Walk down from the outermost source to the farthest common one.
	var (
		startPos, endPos Pos
		found            bool
	)
	for i, j := len(startLinks)-1, len(endLinks)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if startLinks[i].id != endLinks[j].id {
			break
		}
		startPos, endPos = startLinks[i].pos, endLinks[j].pos
		found = true
	}

	if !found || startPos > endPos {
		return Range{}, false
	}
	return NewRange(startPos, endPos.OffsetFrom(startPos)), true
}

// LineSnippet is a single annotated line of an interpreted range.
type LineSnippet struct {
	// Line is the text of the line, without its newline.
	Line string
	// LineNum is the zero-based line number.
	LineNum uint32
	// Off and Len delimit the annotated columns within the line.
	Off uint32
	Len uint32
}

// InterpretedRange is a range resolved down to a concrete file, for
// displaying diagnostics.
type InterpretedRange struct {
	File *FileInfo
	// Off and Len delimit the range within the file.
	Off uint32
	Len uint32
}

// Name returns the name of the interpreted file.
func (i *InterpretedRange) Name() FileName { return i.File.Name }

// StartLineCol returns the line/column of the start of the range.
func (i *InterpretedRange) StartLineCol() LineCol {
	return i.File.Contents.LineCol(i.Off)
}

// EndLineCol returns the line/column of the end of the range.
func (i *InterpretedRange) EndLineCol() LineCol {
	return i.File.Contents.LineCol(i.Off + i.Len)
}

// LineSnippets breaks the range into per-line snippets for annotation.
func (i *InterpretedRange) LineSnippets() []LineSnippet {
	start := i.StartLineCol()
	end := i.EndLineCol()

	var snippets []LineSnippet
	lines := strings.Split(i.File.Contents.Lines(start.Line, end.Line), "\n")
	for idx, line := range lines {
		lineNum := start.Line + uint32(idx)

		var first, last uint32
		if lineNum == start.Line {
			first = start.Col
		}
		if lineNum == end.Line {
			last = end.Col
		} else {
			last = uint32(len(line))
		}

		snippets = append(snippets, LineSnippet{
			Line:    line,
			LineNum: lineNum,
			Off:     first,
			Len:     last - first,
		})
	}
	return snippets
}

// InterpretedRange resolves r down to its file, panicking if r does not lie
// directly within a file source.
func (m *Map) InterpretedRange(r Range) *InterpretedRange {
	s, start, _ := m.LookupRange(r)
	file := s.AsFile()
	if file == nil {
		panic("source: interpreting range inside expansion")
	}
	return &InterpretedRange{File: file, Off: start, Len: r.Len()}
}
