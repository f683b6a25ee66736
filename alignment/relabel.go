package alignment

import "sort"

// LabeledSegment is a diarization segment tagged with its speaker's
// chronological index.
type LabeledSegment struct {
	DiarizationSegment
	Index int
}

// Relabeling is the output of Relabel: diarization sorted by start, with
// every arbitrary speaker token rewritten to the index of its first
// appearance.
type Relabeling struct {
	Segments []LabeledSegment
	// Index maps raw speaker tokens to chronological indexes.
	Index map[SpeakerID]int
	// FirstAppearance[k] is the start of speaker k's first segment.
	FirstAppearance []float64
	// RawIDs[k] lists the tokens bound to speaker k.
	RawIDs [][]SpeakerID

	disjoint bool
}

// Speakers returns the number of distinct speakers.
func (r *Relabeling) Speakers() int { return len(r.FirstAppearance) }

// Disjoint reports whether no two diarization intervals overlap.
func (r *Relabeling) Disjoint() bool { return r.disjoint }

// Relabel sorts diarization by start and assigns indexes 0, 1, 2... in
// order of first appearance. Segments starting at the same instant are
// ordered by raw token, then end, then input position, so the mapping is a
// pure function of the input values.
func Relabel(segments []DiarizationSegment) *Relabeling {
	type positioned struct {
		seg DiarizationSegment
		pos int
	}
	sorted := make([]positioned, len(segments))
	for i, s := range segments {
		sorted[i] = positioned{seg: s, pos: i}
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.seg.Start != b.seg.Start {
			return a.seg.Start < b.seg.Start
		}
		if c := a.seg.Speaker.Compare(b.seg.Speaker); c != 0 {
			return c < 0
		}
		if a.seg.End != b.seg.End {
			return a.seg.End < b.seg.End
		}
		return a.pos < b.pos
	})

	r := &Relabeling{
		Segments: make([]LabeledSegment, len(sorted)),
		Index:    make(map[SpeakerID]int),
		disjoint: true,
	}
	var maxEnd float64
	for i, p := range sorted {
		idx, seen := r.Index[p.seg.Speaker]
		if !seen {
			idx = len(r.FirstAppearance)
			r.Index[p.seg.Speaker] = idx
			r.FirstAppearance = append(r.FirstAppearance, p.seg.Start)
			r.RawIDs = append(r.RawIDs, []SpeakerID{p.seg.Speaker})
		}
		r.Segments[i] = LabeledSegment{DiarizationSegment: p.seg, Index: idx}

		if i > 0 && p.seg.Start < maxEnd {
			r.disjoint = false
		}
		if i == 0 || p.seg.End > maxEnd {
			maxEnd = p.seg.End
		}
	}
	return r
}
