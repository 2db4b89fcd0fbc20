package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd(log zerolog.Logger) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "patchapply",
		Short:         "Apply a unified or git-style patch to a working tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log = log.Level(level)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newApplyCmd(&log))
	return cmd
}
