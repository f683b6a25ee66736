// Package alignment attributes recognizer text to speakers.
//
// Given transcription segments from a speech recognizer, diarization
// segments from an independent diarizer and a roster of expected
// participants, Align produces a chronologically ordered list of utterances
// whose speakers are stable roster labels.
//
// The pipeline has four stages, each usable on its own:
//
//   - Relabel rewrites arbitrary diarizer tokens into indexes 0, 1, 2... in
//     order of first appearance.
//   - MatchSegments gives every transcription segment the speaker of the
//     diarization segment overlapping it most.
//   - BindRoster maps indexes to roster entries sorted by order, falling back
//     to Speaker_N labels.
//   - Assembler merges consecutive same-speaker segments separated by short
//     pauses.
//
// Align is synchronous, keeps no shared state and returns byte-identical
// output for identical input. Structural input problems fail with a
// MALFORMED_INPUT error; everything else is reported in Transcript.Warnings.
package alignment
