package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   serviceName,
		Short: "Attribute transcribed speech to named speakers",
		Long: `speakeralign combines speech recognition segments with speaker
diarization turns, numbers speakers by first appearance, binds them to a
roster of participant names and merges consecutive segments into utterances.

It can align existing segment files, drive recognition sidecars for an audio
file, or serve both operations over HTTP.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default: searched, e.g. ./speakeralign.yaml)")
	flags.StringVar(&opts.envFile, "env-file", "", ".env file loaded before environment overrides")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console, json")

	cmd.AddCommand(
		newAlignCmd(opts),
		newProcessCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}
