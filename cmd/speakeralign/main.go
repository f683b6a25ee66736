// Command speakeralign aligns transcription segments with diarization turns
// and labels each utterance with a roster name.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
