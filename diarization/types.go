package diarization

import "github.com/kbukum/speakeralign/alignment"

// Request holds parameters for a diarization call.
type Request struct {
	// AudioPath is the local path of the audio file.
	AudioPath string `json:"audio_path"`
	// NumSpeakers fixes the speaker count. 0 lets the backend estimate it.
	NumSpeakers int `json:"num_speakers,omitempty"`
	// MinSpeakers and MaxSpeakers bound the estimate when NumSpeakers is 0.
	MinSpeakers int `json:"min_speakers,omitempty"`
	MaxSpeakers int `json:"max_speakers,omitempty"`
	// Language is forwarded to backends that tune segmentation per language.
	Language string `json:"language,omitempty"`
}

// Response holds the result of a diarization call.
type Response struct {
	Segments []Segment `json:"segments"`
	// NumSpeakers is the number of distinct speakers the backend reported.
	NumSpeakers int `json:"num_speakers"`
}

// Segment is a speaker turn.
type Segment struct {
	Start   float64             `json:"start"`
	End     float64             `json:"end"`
	Speaker alignment.SpeakerID `json:"speaker"`
}

// Turns converts the response to aligner input, dropping zero-length turns
// and turns without a speaker token.
func (r *Response) Turns() []alignment.DiarizationSegment {
	out := make([]alignment.DiarizationSegment, 0, len(r.Segments))
	for _, s := range r.Segments {
		if s.End <= s.Start || s.Speaker.IsZero() {
			continue
		}
		out = append(out, alignment.DiarizationSegment{Start: s.Start, End: s.End, Speaker: s.Speaker})
	}
	return out
}
