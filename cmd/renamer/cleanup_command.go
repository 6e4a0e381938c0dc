package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/staging"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove leftover download and metadata temp files",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := staging.CleanScratch(cmd.Context(), ctx.configValue(), maxAge, ctx.logger(cmd.ErrOrStderr()))
			out := cmd.OutOrStdout()
			for _, path := range result.Removed {
				fmt.Fprintf(out, "removed %s\n", path)
			}
			fmt.Fprintf(out, "Removed %d stale entries\n", len(result.Removed))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d entries could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "older-than", staging.DefaultMaxAge, "Only remove entries older than this")
	return cmd
}
