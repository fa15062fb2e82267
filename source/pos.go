package source

import "fmt"

// Pos is an opaque position in the source code managed by a Map. It can be
// resolved back to file/line/column/expansion information using the
// appropriate methods on Map.
type Pos uint32

// Offset returns a new position lying off bytes forward from p.
//
// The returned position is meaningless if the source containing p does not
// contain at least off more bytes.
func (p Pos) Offset(off uint32) Pos {
	return p + Pos(off)
}

// OffsetFrom returns the distance in bytes between p and rhs, assuming that
// rhs lies before p in the same source. It panics if rhs lies after p.
func (p Pos) OffsetFrom(rhs Pos) uint32 {
	if rhs > p {
		panic(fmt.Sprintf("source: position %d lies before %d", p, rhs))
	}
	return uint32(p - rhs)
}

// Range is a contiguous byte range within a single source.
//
// Contrast with FragmentedRange, which can represent ranges whose endpoints
// lie within different sources, such as macro expansions. Range is preferred
// when referring to an atomic run of text (a single token), and when marking
// up actual source code in diagnostics.
type Range struct {
	start Pos
	len   uint32
}

// NewRange returns a range starting at start and covering len bytes.
func NewRange(start Pos, len uint32) Range {
	return Range{start: start, len: len}
}

// RangeAt converts a position to an empty range around it.
func RangeAt(pos Pos) Range {
	return Range{start: pos}
}

// Start returns the start position of the range.
func (r Range) Start() Pos { return r.start }

// Len returns the length of the range in bytes.
func (r Range) Len() uint32 { return r.len }

// Empty reports whether the range covers zero bytes.
func (r Range) Empty() bool { return r.len == 0 }

// End returns the position just past the end of the range. The range is
// empty iff End() == Start().
func (r Range) End() Pos { return r.start.Offset(r.len) }

// Subpos returns a position off (zero-based) bytes into the range, panicking
// if the range would not contain it.
func (r Range) Subpos(off uint32) Pos {
	if off >= r.len {
		panic("source: subpos outside range")
	}
	return r.start.Offset(off)
}

// Subrange returns a subrange starting off bytes in and having length len,
// panicking if the range would not contain it.
func (r Range) Subrange(off, len uint32) Range {
	if off+len > r.len {
		panic("source: subrange outside range")
	}
	return NewRange(r.start.Offset(off), len)
}

// Contains reports whether pos lies in [r.Start(), r.End()).
func (r Range) Contains(pos Pos) bool {
	return r.start <= pos && pos < r.End()
}

// ContainsRange reports whether [other.Start(), other.End()) is a subset of
// [r.Start(), r.End()).
func (r Range) ContainsRange(other Range) bool {
	return r.start <= other.start && other.End() <= r.End()
}

// Fragmented converts the range to a FragmentedRange with the same endpoints.
func (r Range) Fragmented() FragmentedRange {
	return FragmentedRange{Start: r.Start(), End: r.End()}
}

// FragmentedRange is a range whose endpoints may lie in different sources.
//
// Consider:
//
//	#define A (2 + 3)
//	int x = A + 1;
//
// No contiguous Range can cover the expression `A + 1`: its left endpoint
// lies within the expansion of A while its right endpoint lies within the
// surrounding file. FragmentedRange represents such multi-token structures;
// Map.UnfragmentedRange can try to fold one back into a contiguous Range.
type FragmentedRange struct {
	Start Pos
	// End is a position past the end of the range.
	End Pos
}

// NewFragmentedRange returns a fragmented range with the specified endpoints.
func NewFragmentedRange(start, end Pos) FragmentedRange {
	return FragmentedRange{Start: start, End: end}
}

// FragmentedRangeAt converts a position to a degenerate fragmented range
// around it.
func FragmentedRangeAt(pos Pos) FragmentedRange {
	return FragmentedRange{Start: pos, End: pos}
}

// LineCol is a simple line-column pair. Both fields are zero-based.
type LineCol struct {
	Line uint32
	Col  uint32
}
