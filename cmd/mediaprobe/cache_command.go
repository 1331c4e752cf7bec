package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediaprobe/internal/probecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the probe cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

// withCache opens the configured cache or explains why it is unavailable.
func withCache(ctx *commandContext, cmd *cobra.Command, fn func(*probecache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled {
		return errors.New("probe cache is disabled (set cache.enabled = true)")
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}
	store, err := probecache.Open(cmd.Context(), cfg.Cache.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show probe cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(store *probecache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, stats)
				}
				const stampLayout = "2006-01-02 15:04"
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Path:    %s\n", stats.Path)
				fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
				fmt.Fprintf(out, "Size:    %s\n", humanBytes(stats.Bytes))
				if stats.Oldest != nil && stats.Newest != nil {
					fmt.Fprintf(out, "Oldest:  %s\n", stats.Oldest.Local().Format(stampLayout))
					fmt.Fprintf(out, "Newest:  %s\n", stats.Newest.Local().Format(stampLayout))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var maxAgeDays int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries and entries for deleted files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			maxAge := cfg.CacheMaxAge()
			if cmd.Flags().Changed("max-age-days") {
				if maxAgeDays < 0 {
					return fmt.Errorf("--max-age-days must be zero or positive")
				}
				maxAge = time.Duration(maxAgeDays) * 24 * time.Hour
			}
			return withCache(ctx, cmd, func(store *probecache.Store) error {
				removed, err := store.Prune(cmd.Context(), maxAge)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cache entr%s\n", removed, plural(removed))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", 0, "Override cache.max_age_days")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached probe result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(store *probecache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cache entr%s\n", removed, plural(removed))
				return nil
			})
		},
	}
}

func plural(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
