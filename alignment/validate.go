package alignment

import (
	"fmt"
	"math"
	"strings"

	"github.com/kbukum/speakeralign/errors"
)

// epsilon absorbs floating point noise in time comparisons.
const epsilon = 1e-9

// ValidateInput rejects structurally broken input with a MALFORMED_INPUT
// AppError naming the first offending field. Nothing is processed when it
// fails.
func ValidateInput(in Input, overlapTolerance float64) error {
	if err := validateTranscription(in.Transcription, overlapTolerance); err != nil {
		return err
	}
	if err := validateDiarization(in.Diarization); err != nil {
		return err
	}
	return validateRoster(in.Roster)
}

func validateTranscription(segs []TranscriptionSegment, tolerance float64) error {
	maxEnd := math.Inf(-1)
	for i, s := range segs {
		field := fmt.Sprintf("transcription[%d]", i)
		if err := validateSpan(field, s.Start, s.End); err != nil {
			return err
		}
		if strings.TrimSpace(s.Text) == "" {
			return errors.MalformedInput(field+".text", "must not be empty")
		}
		if i > 0 {
			if s.Start < segs[i-1].Start {
				return errors.MalformedInput(field+".start",
					fmt.Sprintf("transcription is not sorted by start (%g after %g)", s.Start, segs[i-1].Start))
			}
			if overlap := math.Min(maxEnd, s.End) - s.Start; overlap > tolerance+epsilon {
				return errors.MalformedInput(field,
					fmt.Sprintf("overlaps earlier segments by %.3fs (tolerance %.3fs)", overlap, tolerance))
			}
		}
		maxEnd = math.Max(maxEnd, s.End)
	}
	return nil
}

func validateDiarization(segs []DiarizationSegment) error {
	for i, s := range segs {
		field := fmt.Sprintf("diarization[%d]", i)
		if err := validateSpan(field, s.Start, s.End); err != nil {
			return err
		}
		if s.Speaker.IsZero() {
			return errors.MalformedInput(field+".speaker", "is required")
		}
	}
	return nil
}

func validateRoster(roster []RosterEntry) error {
	seen := make(map[int]int, len(roster))
	for i, r := range roster {
		field := fmt.Sprintf("roster[%d]", i)
		if strings.TrimSpace(r.DisplayName) == "" {
			return errors.MalformedInput(field+".display_name", "must not be empty")
		}
		if r.Order <= 0 {
			return errors.MalformedInput(field+".order", fmt.Sprintf("must be a positive integer (got %d)", r.Order))
		}
		if prev, dup := seen[r.Order]; dup {
			return errors.MalformedInput(field+".order", fmt.Sprintf("duplicates roster[%d].order %d", prev, r.Order))
		}
		seen[r.Order] = i
	}
	return nil
}

func validateSpan(field string, start, end float64) error {
	if !finite(start) {
		return errors.MalformedInput(field+".start", "must be a finite number")
	}
	if !finite(end) {
		return errors.MalformedInput(field+".end", "must be a finite number")
	}
	if start < 0 {
		return errors.MalformedInput(field+".start", "must not be negative")
	}
	if start >= end {
		return errors.MalformedInput(field, fmt.Sprintf("start %g must be before end %g", start, end))
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
