package alignment

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/speakeralign/errors"
)

func mustAlign(t *testing.T, in Input) *Transcript {
	t.Helper()
	out, err := New(Config{}).Align(in)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	return out
}

func roster(names ...string) []RosterEntry {
	out := make([]RosterEntry, len(names))
	for i, n := range names {
		out[i] = RosterEntry{DisplayName: n, Order: i + 1}
	}
	return out
}

func labelsOf(t *Transcript) []string {
	out := make([]string, len(t.Utterances))
	for i, u := range t.Utterances {
		out[i] = u.SpeakerLabel
	}
	return out
}

func TestAlignCanonicalInversion(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{
			seg(0.0, 3.48, "Hola, me llamo Alberto"),
			seg(3.88, 4.56, "Con Elizabeth"),
		},
		Diarization: []DiarizationSegment{
			diar(0.0, 3.48, IntSpeaker(1)),
			diar(3.88, 4.56, IntSpeaker(0)),
		},
		Roster: []RosterEntry{{DisplayName: "Beto", Order: 1}, {DisplayName: "Ely", Order: 2}},
	})

	if len(out.Utterances) != 2 {
		t.Fatalf("expected 2 utterances, got %+v", out.Utterances)
	}
	if out.Utterances[0].SpeakerIndex != 0 || out.Utterances[0].SpeakerLabel != "Beto" {
		t.Errorf("first utterance: %+v", out.Utterances[0])
	}
	if out.Utterances[1].SpeakerIndex != 1 || out.Utterances[1].SpeakerLabel != "Ely" {
		t.Errorf("second utterance: %+v", out.Utterances[1])
	}
	if len(out.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", out.Warnings)
	}

	beto, ok := out.Speaker(0)
	if !ok || beto.Label != "Beto" || beto.FirstAppearance != 0 || !reflect.DeepEqual(beto.RawIDs, []SpeakerID{IntSpeaker(1)}) {
		t.Errorf("unexpected speaker 0 entry %+v", beto)
	}
	ely, _ := out.Speaker(1)
	if ely.FirstAppearance != 3.88 || !reflect.DeepEqual(ely.RawIDs, []SpeakerID{IntSpeaker(0)}) {
		t.Errorf("unexpected speaker 1 entry %+v", ely)
	}
}

func TestAlignMergeAcrossShortPause(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{seg(0, 1, "hola"), seg(1.2, 2, "mundo"), seg(5, 6, "adios")},
		Diarization:   []DiarizationSegment{diar(0, 6, StringSpeaker("A"))},
		Roster:        roster("X"),
	})

	if len(out.Utterances) != 2 {
		t.Fatalf("expected 2 utterances, got %+v", out.Utterances)
	}
	first, second := out.Utterances[0], out.Utterances[1]
	if first.Text != "hola mundo" || first.Start != 0 || first.End != 2 {
		t.Errorf("unexpected first utterance %+v", first)
	}
	if second.Text != "adios" || second.Start != 5 || second.End != 6 {
		t.Errorf("unexpected second utterance %+v", second)
	}
	if !reflect.DeepEqual(labelsOf(out), []string{"X", "X"}) {
		t.Errorf("unexpected labels %v", labelsOf(out))
	}
}

func TestAlignUnmatchedSegment(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{seg(10, 11, "eco")},
		Diarization:   []DiarizationSegment{diar(0, 5, IntSpeaker(0))},
		Roster:        roster("Solo"),
	})

	if len(out.Utterances) != 1 {
		t.Fatalf("expected 1 utterance, got %d", len(out.Utterances))
	}
	u := out.Utterances[0]
	if u.Confidence != 0 || u.SpeakerIndex != 0 || u.SpeakerLabel != "Solo" {
		t.Errorf("unexpected utterance %+v", u)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "segment 0") {
		t.Errorf("expected one unmatched warning, got %v", out.Warnings)
	}
	if out.Metrics.UnmatchedSegments != 1 {
		t.Errorf("expected 1 unmatched segment in metrics, got %d", out.Metrics.UnmatchedSegments)
	}
}

func TestAlignSurplusSpeakers(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{seg(0, 1, "uno"), seg(1, 2, "dos"), seg(2, 3, "tres")},
		Diarization: []DiarizationSegment{
			diar(2, 3, IntSpeaker(1)),
			diar(0, 1, IntSpeaker(2)),
			diar(1, 2, IntSpeaker(0)),
		},
		Roster: roster("A"),
	})

	if !reflect.DeepEqual(labelsOf(out), []string{"A", "Speaker_2", "Speaker_3"}) {
		t.Errorf("unexpected labels %v", labelsOf(out))
	}
	for i, u := range out.Utterances {
		if u.SpeakerIndex != i {
			t.Errorf("utterance %d has index %d", i, u.SpeakerIndex)
		}
	}
	if len(out.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", out.Warnings)
	}
	if len(out.SpeakerTable) != 3 {
		t.Errorf("expected 3 speakers in table, got %d", len(out.SpeakerTable))
	}
}

func TestAlignTieOnFirstAppearance(t *testing.T) {
	in := Input{
		Transcription: []TranscriptionSegment{seg(0, 0.5, "primero"), seg(0.5, 2, "segundo")},
		Diarization: []DiarizationSegment{
			diar(0, 2, StringSpeaker("SPEAKER_01")),
			diar(0, 0.5, StringSpeaker("SPEAKER_00")),
		},
		Roster: roster("Ana", "Luis"),
	}

	first := mustAlign(t, in)
	sp0, _ := first.Speaker(0)
	if !reflect.DeepEqual(sp0.RawIDs, []SpeakerID{StringSpeaker("SPEAKER_00")}) {
		t.Errorf("expected SPEAKER_00 to win the tie, got %v", sp0.RawIDs)
	}

	in.Diarization[0], in.Diarization[1] = in.Diarization[1], in.Diarization[0]
	for i := 0; i < 5; i++ {
		again := mustAlign(t, in)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestAlignEmptyDiarization(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{seg(0, 1, "a"), seg(1.1, 2, "b"), seg(2.2, 3, "c")},
		Roster:        roster("Solo"),
	})

	if len(out.Utterances) != 3 {
		t.Fatalf("expected 3 utterances, got %+v", out.Utterances)
	}
	for i, u := range out.Utterances {
		if u.SpeakerIndex != 0 || u.Confidence != 0 || u.SpeakerLabel != "Solo" {
			t.Errorf("utterance %d: %+v", i, u)
		}
	}
	if !reflect.DeepEqual(out.Warnings, []string{WarnDiarizationEmpty}) {
		t.Errorf("expected the single diarization-empty warning, got %v", out.Warnings)
	}
	info, ok := out.Speaker(0)
	if !ok || info.Label != "Solo" || len(info.RawIDs) != 0 || info.FirstAppearance != 0 {
		t.Errorf("unexpected fallback speaker entry %+v", info)
	}
}

func TestAlignEmptyTranscription(t *testing.T) {
	out := mustAlign(t, Input{
		Diarization: []DiarizationSegment{diar(4, 5, StringSpeaker("B")), diar(1, 2, StringSpeaker("A"))},
		Roster:      roster("Ana", "Bea"),
	})

	if out.Utterances == nil || len(out.Utterances) != 0 {
		t.Errorf("expected empty non-nil utterances, got %#v", out.Utterances)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", out.Warnings)
	}
	a, _ := out.Speaker(0)
	b, _ := out.Speaker(1)
	if a.Label != "Ana" || a.FirstAppearance != 1 || b.Label != "Bea" || b.FirstAppearance != 4 {
		t.Errorf("speaker table should come from diarization alone: %+v", out.SpeakerTable)
	}
}

func TestAlignEmptyEverything(t *testing.T) {
	out := mustAlign(t, Input{})
	if len(out.Utterances) != 0 || len(out.SpeakerTable) != 0 || len(out.Warnings) != 0 {
		t.Errorf("expected empty transcript, got %+v", out)
	}
}

func TestAlignRejectsMalformed(t *testing.T) {
	_, err := Align(Input{Transcription: []TranscriptionSegment{seg(2, 1, "backwards")}})
	if !errors.HasCode(err, errors.ErrCodeMalformedInput) {
		t.Fatalf("expected MALFORMED_INPUT, got %v", err)
	}
}

func TestAlignRosterOrderAndRole(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{seg(0, 1, "a"), seg(2, 3, "b")},
		Diarization:   []DiarizationSegment{diar(0, 1, IntSpeaker(9)), diar(2, 3, IntSpeaker(4))},
		Roster: []RosterEntry{
			{DisplayName: "Second", Order: 20},
			{DisplayName: "First", Order: 10, Role: "alcalde"},
		},
	})
	if !reflect.DeepEqual(labelsOf(out), []string{"First", "Second"}) {
		t.Errorf("roster must bind in ascending order, got %v", labelsOf(out))
	}
	if info, _ := out.Speaker(0); info.Role != "alcalde" {
		t.Errorf("expected role in speaker table, got %+v", info)
	}
}

func TestAlignMinOverlapConfig(t *testing.T) {
	in := Input{
		Transcription: []TranscriptionSegment{seg(1, 2, "grazes")},
		Diarization:   []DiarizationSegment{diar(0, 1.02, IntSpeaker(0))},
		Roster:        roster("A"),
	}
	strict, err := New(Config{MinOverlapSeconds: 0.05}).Align(in)
	if err != nil {
		t.Fatal(err)
	}
	if strict.Utterances[0].Confidence != 0 || len(strict.Warnings) != 1 {
		t.Errorf("expected noise match suppressed, got %+v", strict)
	}
}

func TestAlignMetrics(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{
			seg(0, 2, "uno dos"),
			seg(2.5, 4, "tres"),
			seg(10, 12, "cuatro cinco seis"),
		},
		Diarization: []DiarizationSegment{diar(0, 4, IntSpeaker(0)), diar(11, 12, IntSpeaker(1))},
		Roster:      roster("A", "B"),
	})

	m := out.Metrics
	if m.SegmentCount != 3 || m.UtteranceCount != 2 || m.SpeakersDetected != 2 {
		t.Errorf("unexpected counts %+v", m)
	}
	if m.TotalWords != 6 {
		t.Errorf("expected 6 words, got %d", m.TotalWords)
	}
	if m.Duration != 12 {
		t.Errorf("expected duration 12, got %v", m.Duration)
	}
	// utterance 0 spans 4s at confidence 1, utterance 1 spans 2s at 0.5
	if math.Abs(m.MeanConfidence-(4*1.0+2*0.5)/6) > 1e-12 {
		t.Errorf("unexpected mean confidence %v", m.MeanConfidence)
	}
	if m.LowConfidenceRatio != 0 {
		t.Errorf("0.5 is not below the 0.5 threshold, got ratio %v", m.LowConfidenceRatio)
	}
}

func TestAlignSpeakerStatistics(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{
			seg(0, 1, "hola"),
			seg(1.2, 2, "buenos días"),
			seg(3, 6, "adiós a todos"),
		},
		Diarization: []DiarizationSegment{diar(0, 2.5, StringSpeaker("A")), diar(2.5, 6, StringSpeaker("B"))},
		Roster:      roster("Ana", "Bruno"),
	})

	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	tests := []struct {
		index         int
		utterances    int
		words         int
		talkTime      float64
		participation float64
	}{
		{0, 1, 3, 2, 100 * 2.0 / 6},
		{1, 1, 3, 3, 50},
	}
	for _, tt := range tests {
		info, ok := out.Speaker(tt.index)
		if !ok {
			t.Fatalf("speaker %d missing from table", tt.index)
		}
		if info.UtteranceCount != tt.utterances || info.WordCount != tt.words {
			t.Errorf("speaker %d: got %d utterances, %d words", tt.index, info.UtteranceCount, info.WordCount)
		}
		if !near(info.TalkTime, tt.talkTime) || !near(info.Participation, tt.participation) {
			t.Errorf("speaker %d: talk time %v, participation %v", tt.index, info.TalkTime, info.Participation)
		}
	}

	m := out.Metrics
	if !near(m.MeanUtteranceDuration, 2.5) || !near(m.LongestUtterance, 3) || !near(m.ShortestUtterance, 2) {
		t.Errorf("unexpected utterance durations %+v", m)
	}
}

func TestAlignSpeakerStatisticsFallbackSpeaker(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{seg(0, 1, "uno"), seg(4, 5, "dos tres")},
	})
	info, ok := out.Speaker(0)
	if !ok {
		t.Fatal("fallback speaker missing from table")
	}
	if info.UtteranceCount != 2 || info.WordCount != 3 || info.TalkTime != 2 {
		t.Errorf("unexpected fallback stats %+v", info)
	}
	if math.Abs(info.Participation-40) > 1e-9 {
		t.Errorf("expected 40%% participation, got %v", info.Participation)
	}
}

func TestTranscriptJSONShape(t *testing.T) {
	out := mustAlign(t, Input{
		Transcription: []TranscriptionSegment{seg(0, 1, "a"), seg(2, 3, "b")},
		Diarization:   []DiarizationSegment{diar(0, 1, IntSpeaker(3)), diar(2, 3, StringSpeaker("guest"))},
		Roster:        roster("A", "B"),
	})
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w, ok := doc["warnings"].([]any); !ok || len(w) != 0 {
		t.Errorf("warnings must be an empty array, got %#v", doc["warnings"])
	}
	table := doc["speaker_table"].(map[string]any)
	raw0 := table["0"].(map[string]any)["raw_ids"].([]any)
	raw1 := table["1"].(map[string]any)["raw_ids"].([]any)
	if raw0[0] != float64(3) || raw1[0] != "guest" {
		t.Errorf("raw ids should keep their JSON type, got %#v %#v", raw0, raw1)
	}
	u0 := doc["utterances"].([]any)[0].(map[string]any)
	for _, key := range []string{"start", "end", "text", "speaker_index", "speaker_label", "confidence"} {
		if _, ok := u0[key]; !ok {
			t.Errorf("utterance missing key %q", key)
		}
	}
	speaker0 := table["0"].(map[string]any)
	for _, key := range []string{"utterance_count", "word_count", "talk_time", "participation"} {
		if _, ok := speaker0[key]; !ok {
			t.Errorf("speaker table entry missing key %q", key)
		}
	}
}
