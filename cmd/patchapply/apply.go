package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gopatch/core/fsrepo"
	"github.com/gopatch/core/patch"
	"github.com/gopatch/core/unified"
)

func newApplyCmd(log *zerolog.Logger) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "apply <patch-file>",
		Short: "Apply every file change in a patch to a working tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(*log, dir, args[0])
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "working tree to apply the patch against")
	return cmd
}

func runApply(log zerolog.Logger, dir, patchFile string) error {
	f, err := os.Open(patchFile)
	if err != nil {
		return fmt.Errorf("open patch file: %w", err)
	}
	defer f.Close()

	deltas, err := unified.Parse(f)
	if err != nil {
		return fmt.Errorf("parse patch: %w", err)
	}
	log.Debug().Int("files", len(deltas)).Msg("parsed patch")

	repo := fsrepo.New(dir)
	results := make([]*patch.Result, len(deltas))

	for i, d := range deltas {
		src, err := patch.ReadPreimage(repo, d)
		if err != nil {
			return fmt.Errorf("%s: %w", deltaName(d), err)
		}

		res, err := patch.ApplyPatch(src, d, patch.ApplyOptions{})
		if err != nil {
			return fmt.Errorf("%s: %w", deltaName(d), err)
		}
		results[i] = res

		log.Info().Str("path", deltaName(d)).Str("status", d.Status.String()).Msg("applied")
	}

	ops := patch.PlanBatch(deltas, results)
	if err := repo.Apply(ops); err != nil {
		return fmt.Errorf("commit changes: %w", err)
	}

	return nil
}

func deltaName(d *patch.Delta) string {
	if d.NewPath != "" {
		return d.NewPath
	}
	return d.OldPath
}
