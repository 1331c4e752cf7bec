package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaprobe/internal/deps"
	"mediaprobe/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check that ffmpeg and ffprobe are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.AddVersions(cmd.Context(), preflight.CheckSystemDeps(cfg))
			if jsonOutput {
				if err := writeJSON(cmd, statuses); err != nil {
					return err
				}
			} else {
				headers := []string{"Dependency", "Available", "Version", "Path"}
				rows := make([][]string, 0, len(statuses))
				for _, status := range statuses {
					location := status.Path
					if !status.Available {
						location = status.Detail
					}
					rows = append(rows, []string{status.Name, yesNo(status.Available), status.Version, location})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			}
			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required dependency(s) missing", len(missing))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
