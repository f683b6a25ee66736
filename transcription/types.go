package transcription

import "strings"

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the local path of the audio file.
	AudioPath string `json:"audio_path"`
	// Language is an ISO 639-1 hint such as "es". Empty lets the backend detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the backend's configured model.
	Model string `json:"model,omitempty"`
	// Prompt biases recognition toward expected vocabulary, e.g. participant names.
	Prompt string `json:"prompt,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	// Duration is the audio length in seconds.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is one time-aligned piece of recognized text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Speech returns the segments that carry text and a positive duration.
// Recognizers emit empty segments for silence and music.
func (r *Response) Speech() []Segment {
	out := make([]Segment, 0, len(r.Segments))
	for _, s := range r.Segments {
		if s.End > s.Start && strings.TrimSpace(s.Text) != "" {
			out = append(out, s)
		}
	}
	return out
}
