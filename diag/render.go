package diag

import (
	"sort"

	"github.com/varick/cfront/source"
)

type tracedRange struct {
	id source.ID
	r  source.Range
}

// traceExpansions walks the expansions of r from innermost to outermost.
// This is almost the caller chain, except that ranges in macro arguments are
// shifted to point at their use within the macro.
func traceExpansions(smap *source.Map, r source.Range) []tracedRange {
	var trace []tracedRange
	smap.CallerChain(r, func(id source.ID, cur source.Range) bool {
		if exp := smap.Source(id).AsExpansion(); exp != nil && exp.Kind == source.ExpansionMacroArg {
			use := exp.ReplacementRange
			trace = append(trace, tracedRange{id: smap.LookupID(use.Start()), r: use})
			return true
		}
		trace = append(trace, tracedRange{id: id, r: cur})
		return true
	})
	return trace
}

// dedupSubranges sorts the subranges by start position and coalesces
// overlapping ones, dropping their labels.
func dedupSubranges(subranges []LabeledRange[source.Range]) []LabeledRange[source.Range] {
	sort.SliceStable(subranges, func(i, j int) bool {
		return subranges[i].Range.Start() < subranges[j].Range.Start()
	})

	var out []LabeledRange[source.Range]
	for _, sub := range subranges {
		if len(out) > 0 {
			prev := &out[len(out)-1]
			if prev.Range.End() > sub.Range.Start() {
				start := prev.Range.Start()
				end := prev.Range.End()
				if sub.Range.End() > end {
					end = sub.Range.End()
				}
				prev.Range = source.NewRange(start, end.OffsetFrom(start))
				prev.Label = ""
				continue
			}
		}
		out = append(out, sub)
	}
	return out
}

func spellingRange(smap *source.Map, r source.Range) source.Range {
	return source.NewRange(smap.SpellingPos(r.Start()), r.Len())
}

// renderRanges resolves raw ranges into the outermost rendered ranges plus a
// trace of the expansions leading up to them, ordered outermost first.
func renderRanges(smap *source.Map, ranges *RawRanges) (*RenderedRanges, []*RenderedRanges) {
	// A primary range is always needed, so arbitrarily fall back to the
	// start when it spans multiple files.
	primary, ok := smap.UnfragmentedRange(ranges.PrimaryRange)
	if !ok {
		primary = source.RangeAt(ranges.PrimaryRange.Start)
	}

	trace := traceExpansions(smap, primary)
	rendered := make([]*RenderedRanges, len(trace))
	byID := make(map[source.ID]*RenderedRanges, len(trace))
	for i, t := range trace {
		rendered[i] = NewRanges(t.r)
		byID[t.id] = rendered[i]
	}

	for _, sub := range ranges.Subranges {
		subRange, ok := smap.UnfragmentedRange(sub.Range)
		if !ok {
			continue
		}
		for _, t := range traceExpansions(smap, subRange) {
			if entry, ok := byID[t.id]; ok {
				entry.Subranges = append(entry.Subranges, LabeledRange[source.Range]{Range: t.r, Label: sub.Label})
			}
		}
	}

	// The primary range keeps its special status and is never merged with
	// subranges, even when they overlap.
	for _, entry := range rendered {
		entry.PrimaryRange = spellingRange(smap, entry.PrimaryRange)
		entry.Subranges = dedupSubranges(entry.Subranges)
		for i := range entry.Subranges {
			entry.Subranges[i].Range = spellingRange(smap, entry.Subranges[i].Range)
		}
	}

	// The trace runs innermost to outermost; flip it so the outermost range
	// is the primary one the diagnostic is reported at.
	outermost := rendered[len(rendered)-1]
	expansions := rendered[:len(rendered)-1]
	for i, j := 0, len(expansions)-1; i < j; i, j = i+1, j-1 {
		expansions[i], expansions[j] = expansions[j], expansions[i]
	}
	return outermost, expansions
}

// renderSuggestion converts a raw suggestion, returning nil when there is no
// unambiguous way to do so. Suggestions interact poorly with expansions: it
// is unclear where along the expansion stack the replacement should happen,
// so anything not spelled directly in one file is conservatively dropped.
func renderSuggestion(smap *source.Map, sugg *RawSuggestion) *RenderedSuggestion {
	r := sugg.ReplacementRange
	startID := smap.LookupID(r.Start)
	endID := smap.LookupID(r.End)
	if startID != endID || !smap.Source(startID).IsFile() {
		return nil
	}
	return NewSuggestion(source.NewRange(r.Start, r.End.OffsetFrom(r.Start)), sugg.InsertText)
}

func renderAnonSubDiag(raw *RawSubDiagnostic) *RenderedSubDiagnostic {
	return &RenderedSubDiagnostic{
		SubDiagnostic: SubDiagnostic[source.Range]{Msg: raw.Msg},
	}
}

func renderSubDiag(smap *source.Map, raw *RawSubDiagnostic) *RenderedSubDiagnostic {
	if raw.Ranges == nil {
		return renderAnonSubDiag(raw)
	}

	primary, expansions := renderRanges(smap, raw.Ranges)

	var sugg *RenderedSuggestion
	if raw.Suggestion != nil {
		sugg = renderSuggestion(smap, raw.Suggestion)
	}

	return &RenderedSubDiagnostic{
		SubDiagnostic: SubDiagnostic[source.Range]{
			Msg:        raw.Msg,
			Ranges:     primary,
			Suggestion: sugg,
		},
		Expansions: expansions,
	}
}

// Render resolves a raw diagnostic against smap, producing contiguous ranges
// with expansion and include traces. When smap is nil the rendered
// diagnostic has no location information, even if the original did.
func Render(raw *RawDiagnostic, smap *source.Map) *RenderedDiagnostic {
	render := renderAnonSubDiag
	if smap != nil {
		render = func(sub *RawSubDiagnostic) *RenderedSubDiagnostic {
			return renderSubDiag(smap, sub)
		}
	}

	out := &RenderedDiagnostic{
		Level: raw.Level,
		Main:  render(raw.Main),
	}
	for _, note := range raw.Notes {
		out.Notes = append(out.Notes, render(note))
	}

	if smap != nil && out.Main.Ranges != nil {
		first := true
		smap.IncluderChain(out.Main.Ranges.PrimaryRange.Start(), func(_ source.ID, pos source.Pos) bool {
			// The first entry is the file itself, not an includer.
			if !first {
				out.Includes = append(out.Includes, pos)
			}
			first = false
			return true
		})
		for i, j := 0, len(out.Includes)-1; i < j; i, j = i+1, j-1 {
			out.Includes[i], out.Includes[j] = out.Includes[j], out.Includes[i]
		}
	}
	return out
}
