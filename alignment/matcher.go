package alignment

import (
	"container/heap"
	"math"
)

// Match is one transcription segment with the speaker picked for it.
type Match struct {
	Start      float64
	End        float64
	Text       string
	Index      int
	Confidence float64
	// Matched is false when no diarization segment overlapped enough; Index
	// is then 0 and Confidence 0.
	Matched bool
}

// Duration returns End - Start.
func (m Match) Duration() float64 { return m.End - m.Start }

// candidate is a diarization segment overlapping the current transcription
// segment.
type candidate struct {
	overlap float64
	start   float64
	index   int
}

// beats reports whether c wins over other: larger overlap, then earlier
// start, then smaller index. Overlaps within epsilon are equal.
func (c candidate) beats(other candidate) bool {
	if d := c.overlap - other.overlap; math.Abs(d) > epsilon {
		return d > 0
	}
	if c.start != other.start {
		return c.start < other.start
	}
	return c.index < other.index
}

// sweep yields the best diarization candidate for each transcription
// segment. Calls must come in non-decreasing start order.
type sweep interface {
	best(t TranscriptionSegment) (candidate, bool)
}

// MatchSegments assigns each transcription segment the speaker whose
// diarization segment overlaps it most. Segments whose best overlap does
// not exceed minOverlap stay unmatched. Output order is transcription order.
func MatchSegments(transcription []TranscriptionSegment, rl *Relabeling, minOverlap float64) []Match {
	var sw sweep
	if rl.Disjoint() {
		sw = &disjointSweep{segs: rl.Segments}
	} else {
		sw = &activeSweep{segs: rl.Segments}
	}

	out := make([]Match, len(transcription))
	for i, t := range transcription {
		m := Match{Start: t.Start, End: t.End, Text: t.Text}
		if c, ok := sw.best(t); ok && c.overlap > minOverlap {
			m.Index = c.index
			m.Confidence = clamp01(c.overlap / (t.End - t.Start))
			m.Matched = true
		}
		out[i] = m
	}
	return out
}

// Overlap returns the length of the intersection of [aStart, aEnd) and
// [bStart, bEnd), or 0.
func Overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	return math.Max(0, math.Min(aEnd, bEnd)-math.Max(aStart, bStart))
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func consider(best *candidate, found *bool, t TranscriptionSegment, d LabeledSegment) {
	ov := Overlap(t.Start, t.End, d.Start, d.End)
	if ov <= 0 {
		return
	}
	c := candidate{overlap: ov, start: d.Start, index: d.Index}
	if !*found || c.beats(*best) {
		*best = c
		*found = true
	}
}

// disjointSweep walks non-overlapping diarization with a single cursor.
// Because the intervals are disjoint their ends are sorted too, so
// everything before lo ends before the current segment and can never
// overlap a later one.
type disjointSweep struct {
	segs []LabeledSegment
	lo   int
}

func (s *disjointSweep) best(t TranscriptionSegment) (candidate, bool) {
	for s.lo < len(s.segs) && s.segs[s.lo].End <= t.Start {
		s.lo++
	}
	var (
		best  candidate
		found bool
	)
	for j := s.lo; j < len(s.segs) && s.segs[j].Start < t.End; j++ {
		consider(&best, &found, t, s.segs[j])
	}
	return best, found
}

// activeSweep handles overlapping diarization. Segments are admitted in
// start order once they begin before the current segment ends and are
// evicted from a min-heap on end once they finish before it starts.
type activeSweep struct {
	segs   []LabeledSegment
	next   int
	active endHeap
}

func (s *activeSweep) best(t TranscriptionSegment) (candidate, bool) {
	for s.next < len(s.segs) && s.segs[s.next].Start < t.End {
		heap.Push(&s.active, s.segs[s.next])
		s.next++
	}
	for s.active.Len() > 0 && s.active[0].End <= t.Start {
		heap.Pop(&s.active)
	}
	var (
		best  candidate
		found bool
	)
	for _, d := range s.active {
		consider(&best, &found, t, d)
	}
	return best, found
}

// endHeap is a container/heap min-heap of segments keyed by end.
type endHeap []LabeledSegment

func (h endHeap) Len() int           { return len(h) }
func (h endHeap) Less(i, j int) bool { return h[i].End < h[j].End }
func (h endHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *endHeap) Push(x any) { *h = append(*h, x.(LabeledSegment)) }

func (h *endHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
