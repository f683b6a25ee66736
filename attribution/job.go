package attribution

import (
	"strings"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/diarization"
	"github.com/kbukum/speakeralign/transcription"
	"github.com/kbukum/speakeralign/validation"
)

// Job asks for one audio file to be transcribed and attributed.
type Job struct {
	// ID is a UUID. Process assigns one when empty.
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	AudioPath string `json:"audio_path" yaml:"audio_path"`
	// Language is an ISO 639-1 hint forwarded to both providers.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	// NumSpeakers fixes the diarizer's speaker count. 0 derives bounds
	// from the roster.
	NumSpeakers int                     `json:"num_speakers,omitempty" yaml:"num_speakers,omitempty"`
	Roster      []alignment.RosterEntry `json:"roster,omitempty" yaml:"roster,omitempty"`
}

// Validate checks the job fields. Roster contents are checked by the aligner.
func (j *Job) Validate() error {
	v := validation.New()
	v.Required("audio_path", j.AudioPath).
		OptionalUUID("id", j.ID).
		Min("num_speakers", j.NumSpeakers, 0)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Result is a finished job.
type Result struct {
	JobID      string                `json:"job_id"`
	Transcript *alignment.Transcript `json:"transcript"`
	// Language is the language the recognizer reports.
	Language string `json:"language,omitempty"`
	// AudioDuration is the recognizer's audio length in seconds.
	AudioDuration float64 `json:"audio_duration,omitempty"`
	Recognizer    string  `json:"recognizer"`
	Diarizer      string  `json:"diarizer"`
}

// diarizationRequest builds the diarizer call, bounding the speaker count by
// the roster when no exact count is given.
func diarizationRequest(job Job, extraSpeakers int) diarization.Request {
	req := diarization.Request{AudioPath: job.AudioPath, Language: job.Language}
	switch {
	case job.NumSpeakers > 0:
		req.NumSpeakers = job.NumSpeakers
	case len(job.Roster) > 0:
		req.MinSpeakers = 1
		req.MaxSpeakers = len(job.Roster) + extraSpeakers
	}
	return req
}

func transcriptionRequest(job Job, withPrompt bool) transcription.Request {
	req := transcription.Request{AudioPath: job.AudioPath, Language: job.Language}
	if withPrompt && len(job.Roster) > 0 {
		names := make([]string, 0, len(job.Roster))
		for _, e := range alignment.SortRoster(job.Roster) {
			if name := strings.TrimSpace(e.DisplayName); name != "" {
				names = append(names, name)
			}
		}
		req.Prompt = strings.Join(names, ", ")
	}
	return req
}

func toTranscriptionSegments(resp *transcription.Response) []alignment.TranscriptionSegment {
	speech := resp.Speech()
	out := make([]alignment.TranscriptionSegment, len(speech))
	for i, s := range speech {
		out[i] = alignment.TranscriptionSegment{Start: s.Start, End: s.End, Text: s.Text}
	}
	return out
}
