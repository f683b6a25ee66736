// Package attribution turns audio into a speaker-attributed transcript.
//
// A Service runs the configured recognizer and diarizer against the same
// file concurrently, converts their output into alignment.Input and hands it
// to the aligner. Each provider call is retried with backoff and guarded by a
// per-provider circuit breaker; a bulkhead caps how many jobs run at once.
//
// Attribute skips the providers and aligns segments the caller already has.
package attribution
