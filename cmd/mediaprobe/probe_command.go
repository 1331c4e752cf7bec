package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"mediaprobe/internal/media/metadata"
	"mediaprobe/internal/probe"
)

type probeView struct {
	Path               string                 `json:"path"`
	Valid              bool                   `json:"valid"`
	Format             string                 `json:"format,omitempty"`
	Duration           float64                `json:"duration"`
	StartTime          float64                `json:"start_time"`
	BitRate            int64                  `json:"bit_rate"`
	Size               int64                  `json:"size"`
	CreationTime       *time.Time             `json:"creation_time,omitempty"`
	Resolution         string                 `json:"resolution,omitempty"`
	FrameRate          string                 `json:"frame_rate,omitempty"`
	AspectRatio        *float64               `json:"aspect_ratio,omitempty"`
	PixelAspectRatio   *float64               `json:"pixel_aspect_ratio,omitempty"`
	AudioChannelLayout string                 `json:"audio_channel_layout,omitempty"`
	Cached             bool                   `json:"cached"`
	Streams            []string               `json:"streams"`
	Video              []metadata.VideoStream `json:"video"`
	Audio              []metadata.AudioStream `json:"audio"`
}

func newProbeView(result probe.Result) (probeView, error) {
	c := result.Container
	size, err := c.Size()
	if err != nil {
		return probeView{}, err
	}
	view := probeView{
		Path:         c.Path,
		Valid:        c.Valid(),
		Format:       c.FormatName,
		Duration:     c.Duration,
		StartTime:    c.StartTime,
		BitRate:      c.BitRate,
		Size:         size,
		CreationTime: c.CreationTime,
		Cached:       result.Cached,
		Streams:      []string{},
		Video:        c.Video,
		Audio:        c.Audio,
	}
	view.Resolution, _ = c.Resolution()
	view.FrameRate, _ = c.FrameRate()
	if ratio, ok := c.CalculatedAspectRatio(); ok {
		view.AspectRatio = &ratio
	}
	if ratio, ok := c.CalculatedPixelAspectRatio(); ok {
		view.PixelAspectRatio = &ratio
	}
	view.AudioChannelLayout, _ = c.AudioChannelLayout()
	for _, record := range c.Streams() {
		view.Streams = append(view.Streams, record.String())
	}
	return view, nil
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Show container and stream metadata for a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveInput(args[0])
			if err != nil {
				return err
			}
			return ctx.withProbeService(cmd, func(svc *probe.Service, _ *slog.Logger) error {
				result, err := svc.ProbeWithResult(cmd.Context(), path)
				if err != nil {
					return err
				}
				view, err := newProbeView(result)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				printProbeView(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printProbeView(out io.Writer, view probeView) {
	fmt.Fprintf(out, "File:        %s\n", view.Path)
	fmt.Fprintf(out, "Valid:       %s\n", yesNo(view.Valid))
	if !view.Valid {
		fmt.Fprintln(out, "ffprobe could not read this file")
		return
	}
	if view.Format != "" {
		fmt.Fprintf(out, "Format:      %s\n", view.Format)
	}
	fmt.Fprintf(out, "Duration:    %s\n", formatSeconds(view.Duration))
	fmt.Fprintf(out, "Bit rate:    %d kb/s\n", view.BitRate/1000)
	fmt.Fprintf(out, "Size:        %s\n", humanBytes(view.Size))
	if view.CreationTime != nil {
		fmt.Fprintf(out, "Created:     %s\n", view.CreationTime.UTC().Format(time.RFC3339))
	}
	if view.Resolution != "" {
		fmt.Fprintf(out, "Resolution:  %s\n", view.Resolution)
		fmt.Fprintf(out, "Frame rate:  %s\n", view.FrameRate)
	}
	if view.AspectRatio != nil && view.PixelAspectRatio != nil {
		fmt.Fprintf(out, "Aspect:      %.3f (pixel %.3f)\n", *view.AspectRatio, *view.PixelAspectRatio)
	}
	if view.AudioChannelLayout != "" {
		fmt.Fprintf(out, "Audio:       %s\n", view.AudioChannelLayout)
	}
	cache := "miss"
	if view.Cached {
		cache = "hit"
	}
	fmt.Fprintf(out, "Cache:       %s\n", cache)
	if len(view.Streams) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Streams:")
	for _, line := range view.Streams {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
