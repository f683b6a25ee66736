package alignment

import (
	"fmt"
	"strconv"

	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/util"
)

// Warning texts shared with callers that match on them.
const (
	WarnDiarizationEmpty = "diarization empty; all utterances attributed to a single fallback speaker"
)

// Aligner runs the relabel, match, bind and assemble stages. It holds no
// per-call state and is safe for concurrent use.
type Aligner struct {
	cfg Config
	log *logger.Logger
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithLogger sets the logger used for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(a *Aligner) { a.log = l }
}

// New returns an Aligner. Unset fields of cfg take their defaults.
func New(cfg Config, opts ...Option) *Aligner {
	cfg.ApplyDefaults()
	cfg.OverlapToleranceSeconds = util.Ptr(*cfg.OverlapToleranceSeconds)
	cfg.LowConfidenceThreshold = util.Ptr(*cfg.LowConfidenceThreshold)
	a := &Aligner{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.GetGlobalLogger().WithComponent("alignment")
	}
	return a
}

// Config returns the effective configuration.
func (a *Aligner) Config() Config { return a.cfg }

// Align validates in and produces the attributed transcript. The only error
// is a MALFORMED_INPUT AppError; every other problem becomes a warning.
func (a *Aligner) Align(in Input) (*Transcript, error) {
	if err := ValidateInput(in, *a.cfg.OverlapToleranceSeconds); err != nil {
		return nil, err
	}

	rl := Relabel(in.Diarization)
	matches := MatchSegments(in.Transcription, rl, a.cfg.MinOverlapSeconds)

	warnings := make([]string, 0)
	if len(in.Diarization) == 0 {
		if len(matches) > 0 {
			warnings = append(warnings, WarnDiarizationEmpty)
		}
	} else {
		for i, m := range matches {
			if !m.Matched {
				warnings = append(warnings, fmt.Sprintf(
					"transcription segment %d (%.3f-%.3f) overlaps no diarization segment; attributed to speaker 0 with confidence 0",
					i, m.Start, m.End))
			}
		}
	}

	speakers := rl.Speakers()
	if speakers == 0 && len(matches) > 0 {
		// everything lands on the fallback speaker 0
		speakers = 1
	}
	binding, rosterWarnings := BindRoster(speakers, SortRoster(in.Roster))
	warnings = append(warnings, rosterWarnings...)

	asm := NewAssembler(a.cfg, binding)
	for _, m := range matches {
		asm.Push(m)
	}
	utterances := asm.Flush()

	t := &Transcript{
		Utterances:   utterances,
		SpeakerTable: speakerTable(rl, binding, utterances),
		Warnings:     warnings,
		Metrics:      computeMetrics(matches, utterances, rl.Speakers(), *a.cfg.LowConfidenceThreshold),
	}
	addSpeakerStats(t.SpeakerTable, utterances, t.Metrics.Duration)

	a.log.Debug("alignment completed", logger.Fields(
		logger.FieldSegments, len(in.Transcription),
		logger.FieldUtterances, len(utterances),
		logger.FieldSpeakers, len(t.SpeakerTable),
		logger.FieldWarnings, len(warnings),
	))
	return t, nil
}

// speakerTable lists every diarized speaker. Without diarization, the
// fallback speaker 0 is listed when any utterance refers to it.
func speakerTable(rl *Relabeling, b Binding, utterances []Utterance) map[string]SpeakerInfo {
	table := make(map[string]SpeakerInfo, len(b.Labels))
	for k := 0; k < rl.Speakers(); k++ {
		table[strconv.Itoa(k)] = SpeakerInfo{
			Label:           b.Label(k),
			FirstAppearance: rl.FirstAppearance[k],
			RawIDs:          rl.RawIDs[k],
			Role:            roleAt(b, k),
		}
	}
	if rl.Speakers() == 0 && len(utterances) > 0 {
		table["0"] = SpeakerInfo{
			Label:           b.Label(0),
			FirstAppearance: utterances[0].Start,
			RawIDs:          []SpeakerID{},
			Role:            roleAt(b, 0),
		}
	}
	return table
}

func roleAt(b Binding, k int) string {
	if k < len(b.Roles) {
		return b.Roles[k]
	}
	return ""
}

// Align runs a default-configured Aligner.
func Align(in Input) (*Transcript, error) {
	return New(Config{}).Align(in)
}
