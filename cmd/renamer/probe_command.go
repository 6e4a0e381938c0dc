package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Mythic-botz/Rename/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect audio, subtitle and video streams with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			prober := probe.New(cfg.FFprobeBinary(), ctx.logger(cmd.ErrOrStderr()))

			profile, err := prober.Audio(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			resolution, err := prober.VideoResolution(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			container, err := prober.Container(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tracks, err := prober.Tracks(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Audio streams", strconv.Itoa(profile.AudioStreams)},
				{"Japanese audio", strconv.Itoa(profile.JapaneseAudio)},
				{"English audio", strconv.Itoa(profile.EnglishAudio)},
				{"Subtitle streams", strconv.Itoa(profile.SubtitleStreams)},
				{"English subtitles", strconv.Itoa(profile.EnglishSubtitles)},
				{"Audio label", probe.AudioLabel(profile)},
				{"Resolution", resolution},
				{"Video codec", orDash(container.VideoCodec)},
				{"Duration", container.Duration.Round(time.Second).String()},
				{"Size", humanize.IBytes(uint64(container.Size))},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

			if len(tracks) > 0 {
				trackRows := make([][]string, 0, len(tracks))
				for _, track := range tracks {
					trackRows = append(trackRows, []string{
						strconv.Itoa(track.Index),
						track.Kind,
						orDash(track.Codec),
						track.Name,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Stream", "Type", "Codec", "Language"}, trackRows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
			}
			return nil
		},
	}
}
