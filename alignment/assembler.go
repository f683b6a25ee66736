package alignment

import "strings"

type assemblerState int

const (
	stateEmpty assemblerState = iota
	statePending
)

// Assembler merges matched segments into utterances. It holds at most one
// pending utterance: Push either folds a match into it or emits it and
// starts a new one, and Flush emits whatever is left.
type Assembler struct {
	cfg     Config
	binding Binding

	state   assemblerState
	pending pendingUtterance
	out     []Utterance
}

type pendingUtterance struct {
	start, end float64
	words      []string
	index      int
	matched    bool
	// weighted and weight accumulate the duration-weighted confidence.
	weighted, weight float64
}

// NewAssembler returns an empty assembler labeling speakers with binding.
func NewAssembler(cfg Config, binding Binding) *Assembler {
	return &Assembler{cfg: cfg, binding: binding}
}

// Push feeds the next match in transcription order.
func (a *Assembler) Push(m Match) {
	if a.state == statePending && a.mergeable(m) {
		a.pending.end = max(a.pending.end, m.End)
		a.pending.words = append(a.pending.words, strings.Fields(m.Text)...)
		a.pending.weighted += m.Confidence * m.Duration()
		a.pending.weight += m.Duration()
		return
	}
	a.emit()
	a.pending = pendingUtterance{
		start:    m.Start,
		end:      m.End,
		words:    strings.Fields(m.Text),
		index:    m.Index,
		matched:  m.Matched,
		weighted: m.Confidence * m.Duration(),
		weight:   m.Duration(),
	}
	a.state = statePending
}

// Flush emits the pending utterance, if any, and returns every utterance
// produced so far. The assembler is empty afterwards.
func (a *Assembler) Flush() []Utterance {
	a.emit()
	out := a.out
	if out == nil {
		out = []Utterance{}
	}
	a.out = nil
	return out
}

// mergeable holds when both sides were matched to the same speaker, the
// pause is within MergeGapSeconds and the result stays within
// MaxMergedDurationSeconds. Unmatched segments always stand alone.
func (a *Assembler) mergeable(m Match) bool {
	p := &a.pending
	if !p.matched || !m.Matched || p.index != m.Index {
		return false
	}
	if m.Start-p.end > a.cfg.MergeGapSeconds+epsilon {
		return false
	}
	return max(p.end, m.End)-p.start <= a.cfg.MaxMergedDurationSeconds+epsilon
}

func (a *Assembler) emit() {
	if a.state != statePending {
		return
	}
	p := a.pending
	var confidence float64
	if p.weight > 0 {
		confidence = clamp01(p.weighted / p.weight)
	}
	a.out = append(a.out, Utterance{
		Start:        p.start,
		End:          p.end,
		Text:         strings.Join(p.words, " "),
		SpeakerIndex: p.index,
		SpeakerLabel: a.binding.Label(p.index),
		Confidence:   confidence,
	})
	a.pending = pendingUtterance{}
	a.state = stateEmpty
}

// NormalizeText trims s and collapses internal whitespace runs to single
// spaces. Case and punctuation are untouched.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
