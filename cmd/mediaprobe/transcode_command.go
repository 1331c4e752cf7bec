package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediaprobe/internal/config"
	"mediaprobe/internal/preflight"
	"mediaprobe/internal/probe"
	"mediaprobe/internal/transcode"
)

type encodeFlags struct {
	videoCodec     string
	audioCodec     string
	videoBitrate   string
	audioBitrate   string
	resolution     string
	aspect         string
	frameRate      int
	seek           string
	duration       string
	preset         string
	format         string
	preserveAspect string
	engine         string
	noOverwrite    bool
}

func (f *encodeFlags) options(cfg *config.Config) transcode.EncodingOptions {
	return transcode.EncodingOptions{
		VideoCodec:   f.videoCodec,
		AudioCodec:   f.audioCodec,
		VideoBitrate: f.videoBitrate,
		AudioBitrate: f.audioBitrate,
		Resolution:   f.resolution,
		Aspect:       f.aspect,
		FrameRate:    f.frameRate,
		SeekTime:     f.seek,
		Duration:     f.duration,
		Preset:       f.preset,
		Format:       f.format,
		Overwrite:    cfg.Transcode.Overwrite && !f.noOverwrite,
	}
}

func (f *encodeFlags) preserve() (transcode.PreserveAspect, error) {
	switch mode := transcode.PreserveAspect(strings.ToLower(strings.TrimSpace(f.preserveAspect))); mode {
	case transcode.PreserveNone, transcode.PreserveWidth, transcode.PreserveHeight:
		return mode, nil
	default:
		return "", fmt.Errorf("--preserve-aspect: expected width or height, got %q", f.preserveAspect)
	}
}

func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	flags := &encodeFlags{}
	cmd := &cobra.Command{
		Use:   "transcode <input> <output>",
		Short: "Transcode a media file",
		Long:  "Transcode a media file. A bare output file name is placed in transcode.output_dir.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(ctx, cmd, flags, args[0], args[1], false)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.videoCodec, "video-codec", "", "Video codec (e.g. libx264)")
	f.StringVar(&flags.audioCodec, "audio-codec", "", "Audio codec (e.g. aac)")
	f.StringVar(&flags.videoBitrate, "video-bitrate", "", "Video bitrate (e.g. 1500k)")
	f.StringVar(&flags.audioBitrate, "audio-bitrate", "", "Audio bitrate (e.g. 128k)")
	f.IntVar(&flags.frameRate, "frame-rate", 0, "Output frame rate")
	f.StringVar(&flags.aspect, "aspect", "", "Display aspect ratio (e.g. 16:9)")
	f.StringVar(&flags.duration, "duration", "", "Limit output duration")
	f.StringVar(&flags.preset, "preset", "", "Encoder preset")
	f.StringVar(&flags.format, "format", "", "Output container format")
	addSharedJobFlags(cmd, flags)
	return cmd
}

func newScreenshotCommand(ctx *commandContext) *cobra.Command {
	flags := &encodeFlags{}
	cmd := &cobra.Command{
		Use:   "screenshot <input> <output>",
		Short: "Extract a single frame as an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(ctx, cmd, flags, args[0], args[1], true)
		},
	}
	addSharedJobFlags(cmd, flags)
	return cmd
}

func addSharedJobFlags(cmd *cobra.Command, flags *encodeFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.resolution, "resolution", "", "Output resolution WxH")
	f.StringVar(&flags.seek, "seek", "", "Start position (seconds or HH:MM:SS)")
	f.StringVar(&flags.preserveAspect, "preserve-aspect", "", "Recompute resolution from the source aspect ratio keeping width or height")
	f.StringVar(&flags.engine, "engine", "", "Override transcode.engine (ffmpeg, drapto)")
	f.BoolVar(&flags.noOverwrite, "no-overwrite", false, "Fail instead of replacing an existing output")
}

func runJob(ctx *commandContext, cmd *cobra.Command, flags *encodeFlags, inputArg, outputArg string, screenshot bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if engine := strings.TrimSpace(flags.engine); engine != "" {
		copied := *cfg
		copied.Transcode.Engine = engine
		if err := copied.Validate(); err != nil {
			return err
		}
		cfg = &copied
	}
	preserve, err := flags.preserve()
	if err != nil {
		return err
	}
	input, err := resolveInput(inputArg)
	if err != nil {
		return err
	}
	output, err := resolveOutput(cfg, outputArg)
	if err != nil {
		return err
	}
	if flags.noOverwrite {
		if _, statErr := os.Stat(output); statErr == nil {
			return fmt.Errorf("output %s already exists", output)
		}
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := preflight.Err(preflight.RunAll(cfg, output)); err != nil {
		return err
	}

	runner, err := transcode.NewRunner(cfg)
	if err != nil {
		return err
	}

	return ctx.withProbeService(cmd, func(svc *probe.Service, logger *slog.Logger) error {
		container, err := svc.Probe(cmd.Context(), input)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printed := false
		settings := transcode.Settings{
			PreserveAspectRatio: preserve,
			Logger:              logger,
			Progress: func(p transcode.Progress) {
				if p.Percent >= 0 {
					printed = true
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%5.1f%% %s", p.Percent, p.Speed)
				}
			},
		}

		run := transcode.Transcode
		if screenshot {
			run = transcode.Screenshot
		}
		job, err := run(cmd.Context(), runner, container, output, flags.options(cfg), settings)
		if printed {
			fmt.Fprintln(cmd.ErrOrStderr())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s (%s, job %s, %s)\n", job.Output, runner.Name(), job.ID, job.Elapsed().Round(10*time.Millisecond))
		return nil
	})
}
