package alignment

import (
	"sort"
	"strconv"
)

// TranscriptionSegment is one time-bounded chunk of recognized text.
type TranscriptionSegment struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Text  string  `json:"text" yaml:"text"`
}

// DiarizationSegment is one continuous single-speaker interval.
type DiarizationSegment struct {
	Start   float64   `json:"start" yaml:"start"`
	End     float64   `json:"end" yaml:"end"`
	Speaker SpeakerID `json:"speaker" yaml:"speaker"`
}

// RosterEntry is a predeclared participant. Entries bind to speakers in
// ascending Order.
type RosterEntry struct {
	DisplayName string `json:"display_name" yaml:"display_name" mapstructure:"display_name"`
	Order       int    `json:"order" yaml:"order" mapstructure:"order"`
	Role        string `json:"role,omitempty" yaml:"role,omitempty" mapstructure:"role"`
}

// Input is one complete alignment request.
type Input struct {
	Transcription []TranscriptionSegment `json:"transcription" yaml:"transcription"`
	Diarization   []DiarizationSegment   `json:"diarization" yaml:"diarization"`
	Roster        []RosterEntry          `json:"roster" yaml:"roster"`
}

// Utterance is one transcription segment, or a merged run of them, with its
// speaker attribution.
type Utterance struct {
	Start        float64 `json:"start" yaml:"start"`
	End          float64 `json:"end" yaml:"end"`
	Text         string  `json:"text" yaml:"text"`
	SpeakerIndex int     `json:"speaker_index" yaml:"speaker_index"`
	SpeakerLabel string  `json:"speaker_label" yaml:"speaker_label"`
	Confidence   float64 `json:"confidence" yaml:"confidence"`
}

// Duration returns End - Start.
func (u Utterance) Duration() float64 { return u.End - u.Start }

// SpeakerInfo describes one chronological speaker.
type SpeakerInfo struct {
	Label           string      `json:"label" yaml:"label"`
	FirstAppearance float64     `json:"first_appearance" yaml:"first_appearance"`
	RawIDs          []SpeakerID `json:"raw_ids" yaml:"raw_ids"`
	Role            string      `json:"role,omitempty" yaml:"role,omitempty"`

	UtteranceCount int     `json:"utterance_count" yaml:"utterance_count"`
	WordCount      int     `json:"word_count" yaml:"word_count"`
	TalkTime       float64 `json:"talk_time" yaml:"talk_time"`
	// Participation is TalkTime as a percentage of Metrics.Duration.
	Participation float64 `json:"participation" yaml:"participation"`
}

// Transcript is the attributed output. SpeakerTable is keyed by the decimal
// speaker index.
type Transcript struct {
	Utterances   []Utterance            `json:"utterances" yaml:"utterances"`
	SpeakerTable map[string]SpeakerInfo `json:"speaker_table" yaml:"speaker_table"`
	Warnings     []string               `json:"warnings" yaml:"warnings"`
	Metrics      Metrics                `json:"metrics" yaml:"metrics"`
}

// Speaker looks up the speaker table entry for a chronological index.
func (t *Transcript) Speaker(index int) (SpeakerInfo, bool) {
	info, ok := t.SpeakerTable[strconv.Itoa(index)]
	return info, ok
}

// SpeakerIndexes returns the indexes present in the speaker table in
// ascending order.
func (t *Transcript) SpeakerIndexes() []int {
	out := make([]int, 0, len(t.SpeakerTable))
	for key := range t.SpeakerTable {
		if i, err := strconv.Atoi(key); err == nil {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
