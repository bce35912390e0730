package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Jrchintu/a2z-old-sheet/internal/assetcache"
	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the content-addressed asset cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheVerifyCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

// cacheStore opens the asset cache for the root named by args, defaulting to
// the configured content directory.
func cacheStore(ctx *commandContext, args []string) (*assetcache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	// Inspection output goes to stdout; keep index chatter out of it.
	logger = logging.WithLevelOverride(logger, slog.LevelWarn)
	root := cfg.Paths.ContentDir
	if len(args) == 1 {
		if root, err = config.ExpandPath(args[0]); err != nil {
			return nil, err
		}
	}
	return assetcache.Open(filepath.Join(root, cfg.Localize.CacheDirName), logger)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats [root]",
		Short: "Show asset cache usage",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(ctx, args)
			if err != nil {
				return err
			}

			entries := store.Entries()
			var totalBytes int64
			missing := 0
			for _, entry := range entries {
				info, err := os.Stat(store.Path(entry.Filename))
				if err != nil {
					missing++
					continue
				}
				totalBytes += info.Size()
			}

			if asJSON {
				return writeJSON(cmd, cacheStatsView{
					Dir:       store.Dir(),
					Entries:   len(entries),
					SizeBytes: totalBytes,
					Missing:   missing,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache:   %s\n", store.Dir())
			fmt.Fprintf(out, "Entries: %d\n", len(entries))
			fmt.Fprintf(out, "Size:    %s\n", humanBytes(totalBytes))
			if missing > 0 {
				fmt.Fprintf(out, "Missing: %d (run `a2z cache verify`)\n", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit stats as JSON")
	return cmd
}

type cacheStatsView struct {
	Dir       string `json:"dir"`
	Entries   int    `json:"entries"`
	SizeBytes int64  `json:"size_bytes"`
	Missing   int    `json:"missing"`
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [root]",
		Short: "List cached assets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(ctx, args)
			if err != nil {
				return err
			}

			entries := store.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				size := "missing"
				if info, err := os.Stat(store.Path(entry.Filename)); err == nil {
					size = humanBytes(info.Size())
				}
				rows = append(rows, []string{entry.Filename, size, entry.URL})
			}
			fmt.Fprintln(out, renderTable(out, []string{"File", "Size", "URL"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}

func newCacheVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [root]",
		Short: "Check that every indexed asset exists on disk",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(ctx, args)
			if err != nil {
				return err
			}

			missing := store.Verify()
			out := cmd.OutOrStdout()
			if len(missing) == 0 {
				fmt.Fprintf(out, "Verified %d cache entries\n", store.Count())
				return nil
			}
			for _, url := range missing {
				fmt.Fprintf(out, "missing: %s\n", url)
			}
			return fmt.Errorf("%d of %d cache entries missing from disk", len(missing), store.Count())
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [root]",
		Short: "Delete every cached asset and the index",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(ctx, args)
			if err != nil {
				return err
			}

			count := store.Count()
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached assets\n", count)
			return nil
		},
	}
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(v) / float64(div)
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPEZY"[exp])
}
