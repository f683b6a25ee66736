// Package provider is a small generic framework for swappable backends such
// as speech recognizers and diarizers.
//
// A Registry maps names to factories, a Manager keeps the initialized
// instances and a Selector picks one per request:
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	mgr := provider.NewManager(reg, &provider.HealthCheckSelector[transcription.Provider]{})
//	mgr.Register("whisper", whisper.Factory())
//	_ = mgr.Initialize("whisper", map[string]any{"url": "http://localhost:8387"})
//	p, err := mgr.Get(ctx)
package provider
