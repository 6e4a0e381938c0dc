package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/settings"
	"github.com/Mythic-botz/Rename/internal/store"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the current user's rename settings",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings with their source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				stored, err := st.Settings(cmd.Context(), ctx.userID())
				if err != nil {
					return err
				}
				effective, err := ctx.settingsSource(st).Settings(cmd.Context(), ctx.userID())
				if err != nil {
					return err
				}

				rows := [][]string{
					settingRow(settings.KeyTemplate, effective.Template, stored.Template),
					settingRow(settings.KeyCaption, effective.Caption, stored.Caption),
					settingRow(settings.KeyThumbnail, effective.Thumbnail, stored.Thumbnail),
				}
				for _, key := range settings.TagKeys {
					rows = append(rows, settingRow(key, effective.Tags[key], stored.Tags[key]))
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value", "Source"}, rows, nil))
				return nil
			})
		},
	}
}

func settingRow(key, effective, stored string) []string {
	switch {
	case strings.TrimSpace(stored) != "":
		return []string{key, effective, "user"}
	case strings.TrimSpace(effective) != "":
		return []string{key, effective, "config"}
	default:
		return []string{key, "-", "unset"}
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Store a setting; omit the value to clear it",
		Long: "Keys: template, caption, thumbnail, " + strings.Join(settings.TagKeys, ", ") + ".\n" +
			"Template placeholders: {season} {episode} {quality} {audio}.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(strings.TrimSpace(args[0]))
			if err := settings.CheckKey(key); err != nil {
				return err
			}
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			return ctx.withStore(func(st *store.Store) error {
				if err := st.SetSetting(cmd.Context(), ctx.userID(), key, value); err != nil {
					return err
				}
				if value == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", key)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %s\n", key, value)
				}
				return nil
			})
		},
	}
}
