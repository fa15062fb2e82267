package source

// ID is an opaque identifier representing a source in a Map.
type ID int

// ExpansionKind distinguishes the ways an expansion source can arise.
type ExpansionKind int

const (
	// ExpansionMacro is an ordinary macro replacement.
	ExpansionMacro ExpansionKind = iota
	// ExpansionMacroArg is the expansion of a macro argument into its
	// parameter's position.
	ExpansionMacroArg
	// ExpansionSynth is a synthesized expansion, such as the result of a
	// token paste.
	ExpansionSynth
)

// FileInfo holds information about a file source.
type FileInfo struct {
	// Name is the name of the file as spelled in the code.
	Name FileName
	// Contents may be shared between several file sources, e.g. when the
	// same file is included more than once.
	Contents *FileContents
	// IncludePos is the position at which this file was included, if any.
	IncludePos *Pos
}

// ExpansionInfo holds information about an expansion source. An expansion
// source attributes a run of re-lexed or replaced code both to the place it
// was spelled and to the place it was expanded.
type ExpansionInfo struct {
	// SpellingPos is where the expanded code was spelled.
	SpellingPos Pos
	// ReplacementRange is where the code was expanded into.
	ReplacementRange Range
	Kind             ExpansionKind
}

// SpellingAt returns the spelling position off bytes into the expansion.
func (e ExpansionInfo) SpellingAt(off uint32) Pos {
	return e.SpellingPos.Offset(off)
}

// SpellingRange maps a local [start, end) range to its spelling range.
func (e ExpansionInfo) SpellingRange(start, end uint32) Range {
	return NewRange(e.SpellingAt(start), end-start)
}

// CallerRange returns the range in the expansion's caller corresponding to
// the local [start, end) range. For macro arguments, the caller is where the
// argument was spelled; for everything else the caller receives the
// replacement.
func (e ExpansionInfo) CallerRange(start, end uint32) Range {
	if e.Kind == ExpansionMacroArg {
		return e.SpellingRange(start, end)
	}
	return e.ReplacementRange
}

// Source is an area of the global offset space to which source code can be
// attributed: either a file or an expansion.
type Source struct {
	file      *FileInfo
	expansion *ExpansionInfo
	// Range is the extent of the source in the global offset space,
	// including one past-the-end byte.
	Range Range
}

// AsFile returns the source's file info, or nil if it is an expansion.
func (s *Source) AsFile() *FileInfo { return s.file }

// AsExpansion returns the source's expansion info, or nil if it is a file.
func (s *Source) AsExpansion() *ExpansionInfo { return s.expansion }

// IsFile reports whether the source is a file.
func (s *Source) IsFile() bool { return s.file != nil }

// IsExpansion reports whether the source is an expansion.
func (s *Source) IsExpansion() bool { return s.expansion != nil }

// LocalOff converts pos to an offset local to this source, panicking if the
// source does not contain pos.
func (s *Source) LocalOff(pos Pos) uint32 {
	if !s.Range.Contains(pos) {
		panic("source: position outside source")
	}
	return pos.OffsetFrom(s.Range.Start())
}

// LocalRange converts r to a local [start, end) offset pair, panicking if
// the source does not contain it.
func (s *Source) LocalRange(r Range) (start, end uint32) {
	if !s.Range.ContainsRange(r) {
		panic("source: range outside source")
	}
	start = s.LocalOff(r.Start())
	return start, start + r.Len()
}
