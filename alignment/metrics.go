package alignment

import (
	"strconv"
	"strings"
)

// Metrics summarizes a transcript.
type Metrics struct {
	SegmentCount       int     `json:"segment_count" yaml:"segment_count"`
	UtteranceCount     int     `json:"utterance_count" yaml:"utterance_count"`
	SpeakersDetected   int     `json:"speakers_detected" yaml:"speakers_detected"`
	TotalWords         int     `json:"total_words" yaml:"total_words"`
	UnmatchedSegments  int     `json:"unmatched_segments" yaml:"unmatched_segments"`
	MeanConfidence     float64 `json:"mean_confidence" yaml:"mean_confidence"`
	LowConfidenceRatio float64 `json:"low_confidence_ratio" yaml:"low_confidence_ratio"`
	Duration           float64 `json:"duration" yaml:"duration"`

	MeanUtteranceDuration float64 `json:"mean_utterance_duration" yaml:"mean_utterance_duration"`
	LongestUtterance      float64 `json:"longest_utterance" yaml:"longest_utterance"`
	ShortestUtterance     float64 `json:"shortest_utterance" yaml:"shortest_utterance"`
}

// computeMetrics derives Metrics from the matches and the assembled
// utterances. MeanConfidence is weighted by utterance duration.
func computeMetrics(matches []Match, utterances []Utterance, speakers int, lowThreshold float64) Metrics {
	m := Metrics{
		SegmentCount:     len(matches),
		UtteranceCount:   len(utterances),
		SpeakersDetected: speakers,
	}
	for _, match := range matches {
		if !match.Matched {
			m.UnmatchedSegments++
		}
	}
	if len(utterances) == 0 {
		return m
	}

	var weighted, weight float64
	var low int
	first, last := utterances[0].Start, utterances[0].End
	m.ShortestUtterance = utterances[0].Duration()
	for _, u := range utterances {
		d := u.Duration()
		m.TotalWords += len(strings.Fields(u.Text))
		weighted += u.Confidence * d
		weight += d
		if u.Confidence < lowThreshold {
			low++
		}
		last = max(last, u.End)
		m.LongestUtterance = max(m.LongestUtterance, d)
		m.ShortestUtterance = min(m.ShortestUtterance, d)
	}
	if weight > 0 {
		m.MeanConfidence = weighted / weight
	}
	m.MeanUtteranceDuration = weight / float64(len(utterances))
	m.LowConfidenceRatio = float64(low) / float64(len(utterances))
	m.Duration = last - first
	return m
}

// addSpeakerStats fills the per-speaker counters of table from utterances.
// Participation is relative to duration and stays zero when it is zero.
func addSpeakerStats(table map[string]SpeakerInfo, utterances []Utterance, duration float64) {
	for _, u := range utterances {
		key := strconv.Itoa(u.SpeakerIndex)
		info, ok := table[key]
		if !ok {
			continue
		}
		info.UtteranceCount++
		info.WordCount += len(strings.Fields(u.Text))
		info.TalkTime += u.Duration()
		table[key] = info
	}
	if duration <= 0 {
		return
	}
	for key, info := range table {
		info.Participation = info.TalkTime / duration * 100
		table[key] = info
	}
}
