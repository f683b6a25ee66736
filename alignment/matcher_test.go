package alignment

import (
	"math"
	"math/rand"
	"testing"
)

func diar(start, end float64, raw SpeakerID) DiarizationSegment {
	return DiarizationSegment{Start: start, End: end, Speaker: raw}
}

func seg(start, end float64, text string) TranscriptionSegment {
	return TranscriptionSegment{Start: start, End: end, Text: text}
}

func TestMatchSegmentsPicksLargestOverlap(t *testing.T) {
	rl := Relabel([]DiarizationSegment{
		diar(0, 2, StringSpeaker("A")),
		diar(2, 5, StringSpeaker("B")),
	})
	matches := MatchSegments([]TranscriptionSegment{
		seg(0, 1, "solo A"),
		seg(1.5, 4, "mostly B"),
		seg(4.5, 6, "tail of B"),
	}, rl, 0)

	want := []struct {
		index      int
		confidence float64
	}{
		{0, 1.0},
		{1, 2.0 / 2.5},
		{1, 0.5 / 1.5},
	}
	for i, w := range want {
		if matches[i].Index != w.index {
			t.Errorf("match %d: index %d, want %d", i, matches[i].Index, w.index)
		}
		if math.Abs(matches[i].Confidence-w.confidence) > 1e-12 {
			t.Errorf("match %d: confidence %v, want %v", i, matches[i].Confidence, w.confidence)
		}
		if !matches[i].Matched {
			t.Errorf("match %d should be matched", i)
		}
	}
}

func TestMatchSegmentsTieBreaks(t *testing.T) {
	t.Run("equal overlap prefers earlier start", func(t *testing.T) {
		rl := Relabel([]DiarizationSegment{
			diar(0, 2, StringSpeaker("A")),
			diar(2, 4, StringSpeaker("B")),
		})
		m := MatchSegments([]TranscriptionSegment{seg(1, 3, "straddles")}, rl, 0)
		if m[0].Index != 0 {
			t.Errorf("expected earlier segment (index 0), got %d", m[0].Index)
		}
		if m[0].Confidence != 0.5 {
			t.Errorf("expected confidence 0.5, got %v", m[0].Confidence)
		}
	})

	t.Run("equal overlap and start prefers smaller index", func(t *testing.T) {
		rl := Relabel([]DiarizationSegment{
			diar(0, 3, IntSpeaker(5)),
			diar(0, 3, IntSpeaker(2)),
		})
		m := MatchSegments([]TranscriptionSegment{seg(1, 2, "both")}, rl, 0)
		if m[0].Index != 0 {
			t.Errorf("expected index 0, got %d", m[0].Index)
		}
		if rl.Index[IntSpeaker(2)] != 0 {
			t.Errorf("raw 2 should own index 0, got %v", rl.Index)
		}
	})
}

func TestMatchSegmentsUnmatched(t *testing.T) {
	rl := Relabel([]DiarizationSegment{diar(0, 5, IntSpeaker(0))})
	m := MatchSegments([]TranscriptionSegment{seg(10, 11, "eco")}, rl, 0)
	if m[0].Matched || m[0].Index != 0 || m[0].Confidence != 0 {
		t.Errorf("expected unmatched at index 0 with confidence 0, got %+v", m[0])
	}

	touching := MatchSegments([]TranscriptionSegment{seg(5, 6, "touching")}, rl, 0)
	if touching[0].Matched {
		t.Error("a shared endpoint is not an overlap")
	}
}

func TestMatchSegmentsMinOverlap(t *testing.T) {
	rl := Relabel([]DiarizationSegment{diar(0, 1.03, StringSpeaker("A"))})
	ts := []TranscriptionSegment{seg(1, 2, "grazes")}

	if m := MatchSegments(ts, rl, 0); !m[0].Matched {
		t.Error("any positive overlap matches by default")
	}
	if m := MatchSegments(ts, rl, 0.05); m[0].Matched {
		t.Error("30ms overlap should not pass a 50ms threshold")
	}
}

func TestMatchSegmentsConfidenceClamped(t *testing.T) {
	rl := Relabel([]DiarizationSegment{diar(0.1, 0.7, StringSpeaker("A"))})
	m := MatchSegments([]TranscriptionSegment{seg(0.1, 0.7, "exact")}, rl, 0)
	if m[0].Confidence > 1 || m[0].Confidence < 0 {
		t.Errorf("confidence out of bounds: %v", m[0].Confidence)
	}
}

func TestMatchSegmentsEmptyDiarization(t *testing.T) {
	m := MatchSegments([]TranscriptionSegment{seg(0, 1, "a"), seg(1, 2, "b")}, Relabel(nil), 0)
	for i, match := range m {
		if match.Matched || match.Index != 0 || match.Confidence != 0 {
			t.Errorf("match %d: expected fallback attribution, got %+v", i, match)
		}
	}
}

// bruteForce scans every diarization segment for every transcription segment.
func bruteForce(ts []TranscriptionSegment, rl *Relabeling) []Match {
	out := make([]Match, len(ts))
	for i, tr := range ts {
		var best candidate
		var found bool
		for _, d := range rl.Segments {
			consider(&best, &found, tr, d)
		}
		out[i] = Match{Start: tr.Start, End: tr.End, Text: tr.Text}
		if found {
			out[i].Index = best.index
			out[i].Confidence = clamp01(best.overlap / (tr.End - tr.Start))
			out[i].Matched = true
		}
	}
	return out
}

func TestMatchSegmentsSweepsAgreeWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	grid := func(max int) float64 { return float64(rng.Intn(max)) / 10 }

	for round := 0; round < 200; round++ {
		overlapping := round%2 == 1

		var ds []DiarizationSegment
		cursor := 0.0
		for i := 0; i < 1+rng.Intn(12); i++ {
			start := cursor + grid(20)
			if overlapping {
				start = grid(400)
			}
			end := start + 0.1 + grid(40)
			ds = append(ds, diar(start, end, IntSpeaker(int64(rng.Intn(5)))))
			cursor = end
		}

		var ts []TranscriptionSegment
		cursor = 0
		for i := 0; i < 1+rng.Intn(15); i++ {
			start := cursor + grid(15)
			end := start + 0.1 + grid(30)
			ts = append(ts, seg(start, end, "w"))
			cursor = end
		}

		rl := Relabel(ds)
		if !overlapping && !rl.Disjoint() {
			t.Fatalf("round %d: generator produced overlapping diarization", round)
		}
		got := MatchSegments(ts, rl, 0)
		want := bruteForce(ts, rl)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("round %d segment %d (disjoint=%v): got %+v, want %+v", round, i, rl.Disjoint(), got[i], want[i])
			}
		}
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		a0, a1, b0, b1, want float64
	}{
		{0, 2, 1, 3, 1},
		{0, 1, 1, 2, 0},
		{0, 1, 2, 3, 0},
		{0, 10, 2, 3, 1},
	}
	for _, tc := range tests {
		if got := Overlap(tc.a0, tc.a1, tc.b0, tc.b1); got != tc.want {
			t.Errorf("Overlap(%v,%v,%v,%v) = %v, want %v", tc.a0, tc.a1, tc.b0, tc.b1, got, tc.want)
		}
	}
}
