package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/speakeralign/attribution"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/observability"
)

type processOptions struct {
	job      attribution.Job
	roster   string
	format   string
	output   string
	fullJSON bool
}

func newProcessCmd(root *rootOptions) *cobra.Command {
	opts := &processOptions{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Transcribe and diarize an audio file, then align the results",
		Long: `Process sends the audio file to the configured recognition and
diarization sidecars in parallel and aligns what they return. Roster names
become speaker labels and bound the diarizer's speaker count.`,
		Example: `  speakeralign process --audio plenary.wav --roster roster.yaml --language es -f md`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.job.AudioPath, "audio", "a", "", "audio file to process")
	f.StringVar(&opts.job.ID, "id", "", "job id (UUID, generated when empty)")
	f.StringVarP(&opts.job.Language, "language", "l", "", "language hint, e.g. es")
	f.IntVarP(&opts.job.NumSpeakers, "speakers", "n", 0, "exact number of speakers (default: bounded by the roster)")
	f.StringVarP(&opts.roster, "roster", "r", "", "roster file (JSON or YAML)")
	f.StringVarP(&opts.format, "format", "f", "", "output format: json, yaml, markdown, srt")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	f.BoolVar(&opts.fullJSON, "result", false, "write the whole job result as JSON instead of the transcript")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}

func runProcess(cmd *cobra.Command, root *rootOptions, opts *processOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	format, err := formatFor(opts.format, opts.output)
	if err != nil {
		return err
	}
	if opts.job.Roster, err = readRoster(opts.roster); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}()

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	res, err := svc.Process(ctx, opts.job)
	if err != nil {
		return err
	}

	logger.Info("job complete", logger.Fields(
		logger.FieldJobID, res.JobID,
		"recognizer", res.Recognizer,
		"diarizer", res.Diarizer,
		logger.FieldUtterances, len(res.Transcript.Utterances),
	))
	if opts.fullJSON {
		return writeResult(cmd.OutOrStdout(), opts.output, res)
	}
	return writeTranscript(cmd.OutOrStdout(), opts.output, format, res.Transcript)
}
