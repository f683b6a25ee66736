// Package diarization defines the speaker diarizer provider interface and
// its request and response types.
//
// Diarizers answer "who spoke when" with opaque speaker tokens. The tokens
// are alignment.SpeakerID values so integer and string labels from different
// backends reach the aligner unchanged.
//
//	mgr := diarization.NewManager()
//	mgr.Register(pyannote.ProviderName, pyannote.Factory())
//	_ = mgr.Initialize(pyannote.ProviderName, opts)
//	p, _ := mgr.Get(ctx)
//	resp, err := p.Diarize(ctx, diarization.Request{AudioPath: "pleno.wav", MaxSpeakers: 5})
//
// # Backends
//
//   - diarization/pyannote: pyannote.audio HTTP sidecar
package diarization
