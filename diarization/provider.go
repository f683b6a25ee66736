package diarization

import (
	"context"

	"github.com/kbukum/speakeralign/provider"
)

// Provider is implemented by speaker diarization backends.
type Provider interface {
	provider.Provider

	// Diarize segments the audio in req by speaker.
	Diarize(ctx context.Context, req Request) (*Response, error)
}
