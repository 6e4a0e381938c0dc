package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/preflight"
	"github.com/Mythic-botz/Rename/internal/store"
)

func preflightRows(results []preflight.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		state := r.Detail
		if !r.Passed && r.Optional {
			state += " (optional)"
		}
		rows = append(rows, []string{r.Name, orDash(r.Path), state})
	}
	return rows
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools, directories and stored state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()

			tools := preflight.Tools(cfg)
			dirs := preflight.Directories(cfg)
			fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Status"}, preflightRows(tools), nil))
			fmt.Fprintln(out, renderTable([]string{"Directory", "Path", "Status"}, preflightRows(dirs), nil))

			err := ctx.withStore(func(st *store.Store) error {
				versions, err := st.Versions(cmd.Context())
				if err != nil {
					return err
				}
				sessions, err := st.ActiveSessions(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Database", st.Path()},
					{"Migrations", strings.Join(versions, ", ")},
					{"Open sequences", strconv.Itoa(len(sessions))},
				}
				fmt.Fprintln(out, renderTable([]string{"State", "Value"}, rows, nil))
				return nil
			})
			if err != nil {
				return err
			}
			if failed := preflight.Failures(tools) + preflight.Failures(dirs); failed > 0 {
				return fmt.Errorf("%d preflight check(s) failed", failed)
			}
			return nil
		},
	}
}
