// Package transcription defines the speech recognizer provider interface and
// its request and response types.
//
// Backends plug into the generic provider framework:
//
//	mgr := transcription.NewManager()
//	mgr.Register(whisper.ProviderName, whisper.Factory())
//	_ = mgr.Initialize(whisper.ProviderName, opts)
//	p, _ := mgr.Get(ctx)
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: "pleno.wav"})
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
package transcription
