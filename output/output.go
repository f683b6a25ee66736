// Package output renders attributed transcripts for people and tools.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/speakeralign/alignment"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatSRT      Format = "srt"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatSRT}

// ParseFormat resolves a format name. "md" and "yml" are accepted aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "srt":
		return FormatSRT, nil
	}
	return "", fmt.Errorf("unknown output format %q (want one of %v)", name, Formats)
}

// ContentType returns the HTTP media type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatSRT:
		return "application/x-subrip"
	default:
		return "application/json"
	}
}

// Render writes t to w in format f.
func Render(w io.Writer, f Format, t *alignment.Transcript) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		return renderMarkdown(w, t)
	case FormatSRT:
		return renderSRT(w, t)
	}
	return fmt.Errorf("unknown output format %q", f)
}

func renderMarkdown(w io.Writer, t *alignment.Transcript) error {
	var b strings.Builder
	m := t.Metrics

	b.WriteString("# Transcript\n\n")
	fmt.Fprintf(&b, "- Duration: %s\n", alignment.FormatTimestamp(m.Duration))
	fmt.Fprintf(&b, "- Speakers: %d\n", len(t.SpeakerTable))
	fmt.Fprintf(&b, "- Utterances: %d (from %d segments)\n", m.UtteranceCount, m.SegmentCount)
	fmt.Fprintf(&b, "- Words: %d\n", m.TotalWords)
	fmt.Fprintf(&b, "- Mean confidence: %.2f\n", m.MeanConfidence)
	fmt.Fprintf(&b, "- Utterance length: %.1fs mean, %.1fs longest, %.1fs shortest\n",
		m.MeanUtteranceDuration, m.LongestUtterance, m.ShortestUtterance)

	b.WriteString("\n## Speakers\n\n")
	for _, i := range t.SpeakerIndexes() {
		info, _ := t.Speaker(i)
		fmt.Fprintf(&b, "- %s", info.Label)
		if info.Role != "" {
			fmt.Fprintf(&b, " (%s)", info.Role)
		}
		fmt.Fprintf(&b, ", first heard at %s, talk time %s (%.1f%%) in %s\n",
			alignment.FormatTimestamp(info.FirstAppearance), alignment.FormatTimestamp(info.TalkTime),
			info.Participation, plural(info.UtteranceCount, "utterance"))
	}

	if len(t.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, warn := range t.Warnings {
			fmt.Fprintf(&b, "- %s\n", warn)
		}
	}

	b.WriteString("\n## Utterances\n\n")
	for _, u := range t.Utterances {
		fmt.Fprintf(&b, "[%s-%s] %s: %s\n",
			alignment.FormatTimestamp(u.Start), alignment.FormatTimestamp(u.End), u.SpeakerLabel, u.Text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderSRT(w io.Writer, t *alignment.Transcript) error {
	var b strings.Builder
	for i, u := range t.Utterances {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s: %s\n\n",
			i+1, srtTime(u.Start), srtTime(u.End), u.SpeakerLabel, u.Text)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// srtTime formats seconds as HH:MM:SS,mmm.
func srtTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
