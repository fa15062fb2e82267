// Package fixit turns the suggestions attached to diagnostics into concrete
// file rewrites and unified diffs.
package fixit

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/varick/cfront/diag"
	"github.com/varick/cfront/source"
)

// Fix is the rewritten contents of one file after applying suggestions.
type Fix struct {
	Path    string
	Old     string
	New     string
	Applied int
}

// DiffStats counts the changed lines of a unified diff.
type DiffStats struct {
	Added   int
	Removed int
}

// Applier accumulates suggestions from rendered diagnostics and rewrites
// the affected files. Suggestions landing in synthesized sources or macro
// expansions never reach the applier; rendering already drops them.
type Applier struct {
	smap   *source.Map
	byFile map[source.ID][]*diag.RenderedSuggestion
}

// NewApplier creates an applier resolving suggestions against smap.
func NewApplier(smap *source.Map) *Applier {
	return &Applier{smap: smap, byFile: map[source.ID][]*diag.RenderedSuggestion{}}
}

// AddDiagnostic records every suggestion carried by d.
func (a *Applier) AddDiagnostic(d *diag.RenderedDiagnostic) {
	a.add(d.Main.Suggestion)
	for _, note := range d.Notes {
		a.add(note.Suggestion)
	}
}

func (a *Applier) add(sugg *diag.RenderedSuggestion) {
	if sugg == nil {
		return
	}
	id := a.smap.LookupID(sugg.ReplacementRange.Start())
	if !a.smap.Source(id).IsFile() {
		return
	}
	a.byFile[id] = append(a.byFile[id], sugg)
}

// Apply rewrites every touched file, returning one Fix per file in a stable
// order. Overlapping suggestions are applied first-come-first-served; later
// overlaps are dropped.
func (a *Applier) Apply() []Fix {
	ids := make([]source.ID, 0, len(a.byFile))
	for id := range a.byFile {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var fixes []Fix
	for _, id := range ids {
		src := a.smap.Source(id)
		fixes = append(fixes, a.applyFile(src, a.byFile[id]))
	}
	return fixes
}

func (a *Applier) applyFile(src *source.Source, suggs []*diag.RenderedSuggestion) Fix {
	type edit struct {
		start, end uint32
		text       string
	}

	edits := make([]edit, 0, len(suggs))
	for _, sugg := range suggs {
		start, end := src.LocalRange(sugg.ReplacementRange)
		edits = append(edits, edit{start: start, end: end, text: sugg.InsertText})
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	file := src.AsFile()
	old := file.Contents.Src()

	var sb strings.Builder
	applied := 0
	last := uint32(0)
	for _, e := range edits {
		if e.start < last {
			continue
		}
		sb.WriteString(old[last:e.start])
		sb.WriteString(e.text)
		last = e.end
		applied++
	}
	sb.WriteString(old[last:])

	return Fix{
		Path:    file.Name.Path(),
		Old:     old,
		New:     sb.String(),
		Applied: applied,
	}
}

// Diff produces a unified diff for the fix, with stats over its changed
// lines. An unchanged file yields an empty diff.
func (f Fix) Diff(contextLines int) (string, DiffStats, error) {
	if contextLines <= 0 {
		contextLines = 3
	}
	if f.Old == f.New {
		return "", DiffStats{}, nil
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(f.Old),
		B:        difflib.SplitLines(f.New),
		FromFile: f.Path,
		ToFile:   f.Path + " (fixed)",
		Context:  contextLines,
	}
	patch, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", DiffStats{}, err
	}

	var stats DiffStats
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			stats.Added++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			stats.Removed++
		}
	}
	return patch, stats, nil
}
