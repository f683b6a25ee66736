package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/attribution"
)

type alignOptions struct {
	input         string
	transcription string
	diarization   string
	roster        string
	format        string
	output        string
}

func newAlignCmd(root *rootOptions) *cobra.Command {
	opts := &alignOptions{}
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align existing transcription and diarization segments",
		Long: `Align reads segments from JSON or YAML files and writes the attributed
transcript. Pass either --input with a combined document
({"transcription": [...], "diarization": [...], "roster": [...]}) or
--transcription and --diarization with bare arrays, plus an optional --roster.`,
		Example: `  speakeralign align --transcription asr.json --diarization turns.json --roster roster.yaml -f md
  speakeralign align --input meeting.json -o meeting.srt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAlign(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "combined input document")
	f.StringVarP(&opts.transcription, "transcription", "t", "", "transcription segments file")
	f.StringVarP(&opts.diarization, "diarization", "d", "", "diarization segments file")
	f.StringVarP(&opts.roster, "roster", "r", "", "roster file (overrides the input document's roster)")
	f.StringVarP(&opts.format, "format", "f", "", "output format: json, yaml, markdown, srt (default: from --output extension, else json)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.MarkFlagsMutuallyExclusive("input", "transcription")
	cmd.MarkFlagsMutuallyExclusive("input", "diarization")
	cmd.MarkFlagsRequiredTogether("transcription", "diarization")
	return cmd
}

func runAlign(cmd *cobra.Command, root *rootOptions, opts *alignOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	format, err := formatFor(opts.format, opts.output)
	if err != nil {
		return err
	}

	in, err := alignInput(opts)
	if err != nil {
		return err
	}

	svc := attribution.NewService(alignment.New(cfg.Alignment), cfg.Attribution)
	t, err := svc.Attribute(cmd.Context(), in)
	if err != nil {
		return err
	}
	return writeTranscript(cmd.OutOrStdout(), opts.output, format, t)
}

func alignInput(opts *alignOptions) (alignment.Input, error) {
	var (
		in  alignment.Input
		err error
	)
	switch {
	case opts.input != "":
		if in, err = readInput(opts.input); err != nil {
			return in, err
		}
	case opts.transcription != "":
		if in.Transcription, err = readTranscription(opts.transcription); err != nil {
			return in, err
		}
		if in.Diarization, err = readDiarization(opts.diarization); err != nil {
			return in, err
		}
	default:
		return in, errors.New("either --input or --transcription and --diarization is required")
	}

	if opts.roster != "" {
		if in.Roster, err = readRoster(opts.roster); err != nil {
			return in, err
		}
	}
	return in, nil
}
