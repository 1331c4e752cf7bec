package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"mediaprobe/internal/media/metadata"
	"mediaprobe/internal/probe"
)

func newStreamsCommand(ctx *commandContext) *cobra.Command {
	var forceTable bool
	var plain bool

	cmd := &cobra.Command{
		Use:   "streams <file>",
		Short: "List the streams of a media file",
		Long:  "List the streams of a media file. A table is drawn on terminals; piped output prints one ffmpeg-style line per stream.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveInput(args[0])
			if err != nil {
				return err
			}
			return ctx.withProbeService(cmd, func(svc *probe.Service, _ *slog.Logger) error {
				container, err := svc.Probe(cmd.Context(), path)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !container.Valid() {
					return fmt.Errorf("ffprobe could not read %s", path)
				}
				useTable := forceTable || (!plain && isTerminal(out))
				if useTable {
					fmt.Fprintln(out, renderStreamTable(container))
					return nil
				}
				printStreamLines(out, container)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forceTable, "table", false, "Always draw a table")
	cmd.Flags().BoolVar(&plain, "plain", false, "Never draw a table")
	cmd.MarkFlagsMutuallyExclusive("table", "plain")
	return cmd
}

func printStreamLines(out io.Writer, container *metadata.Container) {
	for _, record := range container.Streams() {
		fmt.Fprintln(out, record.String())
	}
}

func renderStreamTable(container *metadata.Container) string {
	headers := []string{"#", "Type", "Codec", "Language", "Details", "Bit rate"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}

	records := container.Streams()
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		base := record.Base()
		rows = append(rows, []string{
			strconv.Itoa(base.Index),
			kindTitle(record.Kind()),
			base.CodecName,
			languageName(base),
			streamDetails(record),
			fmt.Sprintf("%d kb/s", base.BitRate/1000),
		})
	}
	return renderTable(headers, rows, aligns)
}

func streamDetails(record metadata.Record) string {
	switch stream := record.(type) {
	case metadata.VideoStream:
		detail := fmt.Sprintf("%s %s", stream.Resolution(), stream.PixelFormat)
		if !stream.IsImage() {
			detail += ", " + stream.FPS().DisplayString("fps")
		}
		if stream.Rotation != nil && *stream.Rotation != 0 {
			detail += fmt.Sprintf(", rotated %d°", *stream.Rotation)
		}
		return detail
	case metadata.AudioStream:
		layout := stream.ChannelLayout
		if layout == "" {
			layout = fmt.Sprintf("%d ch", stream.Channels)
		}
		return fmt.Sprintf("%d Hz %s %s", stream.SampleRate, layout, stream.SampleFormat)
	default:
		return ""
	}
}
