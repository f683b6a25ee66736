package transcription

import (
	"context"

	"github.com/kbukum/speakeralign/provider"
)

// Provider is implemented by speech recognizer backends.
type Provider interface {
	provider.Provider

	// Transcribe recognizes the audio in req and returns time-aligned text.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
