package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/episode"
	"github.com/Mythic-botz/Rename/internal/inbox"
	"github.com/Mythic-botz/Rename/internal/naming"
	"github.com/Mythic-botz/Rename/internal/renamer"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "parse <name>...",
		Short: "Show the season, episode and quality read from filenames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			opts := naming.Options{NormalizeLongNames: cfg.Rename.NormalizeLongNames}
			planner := renamer.New(cfg, nil, nil, nil, nil, nil)

			headers := []string{"Name", "Season", "Episode", "Quality", "Rule"}
			if template != "" {
				headers = append(headers, "New Name")
			}
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				name := filepath.Base(arg)
				x := naming.Extract(name, opts)
				rule := "-"
				if match, ok := episode.Find(naming.Prepare(name, opts)); ok {
					rule = match.Rule
				}
				row := []string{name, x.Season, orDash(x.Episode), x.Quality, rule}
				if template != "" {
					kind, _ := inbox.KindFor(name)
					planned, _ := planner.Plan(template, renamer.Record{FileName: name, Kind: kind})
					row = append(row, planned)
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "", "Render each name through this template")
	return cmd
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
