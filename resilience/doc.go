// Package resilience guards calls to the recognizer and diarizer sidecars.
//
//   - Retry repeats a call with exponential backoff while the failure is
//     retryable.
//   - CircuitBreaker fails fast once a sidecar keeps failing, so queued jobs
//     do not each wait out the full upload timeout.
//   - Bulkhead caps how many jobs run against the sidecars at once.
//
// A typical provider call composes the first two:
//
//	resp, err := resilience.Retry(ctx, retryCfg, func() (*transcription.Response, error) {
//	    return resilience.Call(breaker, func() (*transcription.Response, error) {
//	        return recognizer.Transcribe(ctx, req)
//	    })
//	})
package resilience
