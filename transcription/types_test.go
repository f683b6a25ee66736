package transcription

import (
	"context"
	"testing"

	"github.com/kbukum/speakeralign/provider"
)

func TestResponseSpeech(t *testing.T) {
	resp := &Response{Segments: []Segment{
		{Start: 0, End: 1.2, Text: " Buenos días."},
		{Start: 1.2, End: 1.2, Text: "zero length"},
		{Start: 1.5, End: 3, Text: "   "},
		{Start: 3, End: 4, Text: "Se abre la sesión."},
	}}

	got := resp.Speech()
	if len(got) != 2 {
		t.Fatalf("expected 2 speech segments, got %+v", got)
	}
	if got[0].Text != " Buenos días." || got[1].Start != 3 {
		t.Errorf("unexpected segments %+v", got)
	}
}

type stubRecognizer struct{ name string }

func (s *stubRecognizer) Name() string                     { return s.name }
func (s *stubRecognizer) IsAvailable(context.Context) bool { return true }
func (s *stubRecognizer) Transcribe(context.Context, Request) (*Response, error) {
	return &Response{Text: "ok"}, nil
}

func TestNewManager(t *testing.T) {
	mgr := NewManager(WithSelector(&provider.PrioritySelector[Provider]{Priority: []string{"stub"}}))
	mgr.Register("stub", func(map[string]any) (Provider, error) { return &stubRecognizer{name: "stub"}, nil })
	if err := mgr.Initialize("stub", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	p, err := mgr.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp, err := p.Transcribe(context.Background(), Request{AudioPath: "a.wav"})
	if err != nil || resp.Text != "ok" {
		t.Errorf("unexpected %v %v", resp, err)
	}
}
