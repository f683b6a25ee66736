package alignment

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/validation"
)

// Wire DTOs use pointers so a missing field can be told apart from a zero.
// Unknown fields are ignored.

type wireTranscription struct {
	Start *float64 `json:"start" validate:"required"`
	End   *float64 `json:"end" validate:"required"`
	Text  *string  `json:"text" validate:"required"`
}

type wireDiarization struct {
	Start   *float64   `json:"start" validate:"required"`
	End     *float64   `json:"end" validate:"required"`
	Speaker *SpeakerID `json:"speaker" validate:"required"`
}

type wireRoster struct {
	DisplayName *string `json:"display_name" validate:"required"`
	Order       *int    `json:"order" validate:"required"`
	Role        string  `json:"role"`
}

type wireInput struct {
	Transcription []wireTranscription `json:"transcription" validate:"dive"`
	Diarization   []wireDiarization   `json:"diarization" validate:"dive"`
	Roster        []wireRoster        `json:"roster" validate:"dive"`
}

type wireTranscriptionList struct {
	Transcription []wireTranscription `json:"transcription" validate:"dive"`
}

type wireDiarizationList struct {
	Diarization []wireDiarization `json:"diarization" validate:"dive"`
}

type wireRosterList struct {
	Roster []wireRoster `json:"roster" validate:"dive"`
}

// DecodeInput reads a JSON request body with transcription, diarization
// and roster arrays. Missing required fields and undecodable JSON are
// reported as MALFORMED_INPUT. Value checks such as start < end are left to
// ValidateInput.
func DecodeInput(r io.Reader) (Input, error) {
	var w wireInput
	if err := decodeJSON(r, &w); err != nil {
		return Input{}, err
	}
	if err := checkWire(&w); err != nil {
		return Input{}, err
	}
	return Input{
		Transcription: convertTranscription(w.Transcription),
		Diarization:   convertDiarization(w.Diarization),
		Roster:        convertRoster(w.Roster),
	}, nil
}

// DecodeTranscription reads a bare JSON array of transcription segments.
func DecodeTranscription(r io.Reader) ([]TranscriptionSegment, error) {
	var w wireTranscriptionList
	if err := decodeJSON(r, &w.Transcription); err != nil {
		return nil, err
	}
	if err := checkWire(&w); err != nil {
		return nil, err
	}
	return convertTranscription(w.Transcription), nil
}

// DecodeDiarization reads a bare JSON array of diarization segments.
func DecodeDiarization(r io.Reader) ([]DiarizationSegment, error) {
	var w wireDiarizationList
	if err := decodeJSON(r, &w.Diarization); err != nil {
		return nil, err
	}
	if err := checkWire(&w); err != nil {
		return nil, err
	}
	return convertDiarization(w.Diarization), nil
}

// DecodeRoster reads a bare JSON array of roster entries.
func DecodeRoster(r io.Reader) ([]RosterEntry, error) {
	var w wireRosterList
	if err := decodeJSON(r, &w.Roster); err != nil {
		return nil, err
	}
	if err := checkWire(&w); err != nil {
		return nil, err
	}
	return convertRoster(w.Roster), nil
}

func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		if err == io.EOF {
			return errors.MalformedInput("", "body is empty")
		}
		return errors.MalformedInput("", fmt.Sprintf("invalid JSON: %v", err)).WithCause(err)
	}
	return nil
}

// checkWire turns struct-tag failures into one MALFORMED_INPUT error that
// names the first field and lists all of them in details.
func checkWire(v any) error {
	fieldErrs := validation.Check(v)
	if len(fieldErrs) == 0 {
		return nil
	}
	first := fieldErrs[0]
	return errors.MalformedInput(first.Field, first.Message).WithDetail("fields", fieldErrs)
}

func convertTranscription(in []wireTranscription) []TranscriptionSegment {
	out := make([]TranscriptionSegment, len(in))
	for i, w := range in {
		out[i] = TranscriptionSegment{Start: *w.Start, End: *w.End, Text: *w.Text}
	}
	return out
}

func convertDiarization(in []wireDiarization) []DiarizationSegment {
	out := make([]DiarizationSegment, len(in))
	for i, w := range in {
		out[i] = DiarizationSegment{Start: *w.Start, End: *w.End, Speaker: *w.Speaker}
	}
	return out
}

func convertRoster(in []wireRoster) []RosterEntry {
	out := make([]RosterEntry, len(in))
	for i, w := range in {
		out[i] = RosterEntry{DisplayName: *w.DisplayName, Order: *w.Order, Role: w.Role}
	}
	return out
}
