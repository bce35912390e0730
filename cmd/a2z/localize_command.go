package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/fetch"
	"github.com/Jrchintu/a2z-old-sheet/internal/localize"
	"github.com/Jrchintu/a2z-old-sheet/internal/notifications"
)

func newLocalizeCommand(ctx *commandContext) *cobra.Command {
	var assetsName string
	var workers int
	var dryRun bool
	var noVerifySSL bool
	var clearCache bool

	cmd := &cobra.Command{
		Use:   "localize [root]",
		Short: "Download remote assets referenced by HTML files and rewrite them to local copies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCfg := *cfg
			if name := strings.TrimSpace(assetsName); name != "" {
				runCfg.Localize.AssetsDirName = name
			}
			if workers > 0 {
				runCfg.Localize.Workers = workers
			}

			root := runCfg.Paths.ContentDir
			if len(args) == 1 {
				if root, err = config.ExpandPath(args[0]); err != nil {
					return err
				}
			}

			var clientOpts []fetch.Option
			if noVerifySSL {
				clientOpts = append(clientOpts, fetch.WithTLSVerification(false))
			}
			client := fetch.NewFromConfig(&runCfg, clientOpts...)

			localizer := localize.NewWithDependencies(&runCfg, logger, client)
			summary, err := localizer.Run(cmd.Context(), root, localize.RunOptions{
				DryRun:     dryRun,
				ClearCache: clearCache,
			})
			if err != nil {
				publishLocalizeFailure(cmd, ctx, logger, root, err)
				return err
			}

			printLocalizeSummary(cmd, summary)
			if !summary.DryRun {
				publish(cmd, ctx, logger, notifications.EventLocalizeCompleted, notifications.Payload{
					"root":    summary.Root,
					"fetched": strconv.Itoa(summary.Fetched),
					"failed":  strconv.Itoa(summary.FetchFailed),
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&assetsName, "assets-name", "", "Per-document assets directory name (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent downloads (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report intended actions without writing anything")
	cmd.Flags().BoolVar(&noVerifySSL, "no-verify-ssl", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Wipe the asset cache before the run")
	return cmd
}

func printLocalizeSummary(cmd *cobra.Command, summary *localize.Summary) {
	out := cmd.OutOrStdout()
	if summary.DryRun {
		fmt.Fprintf(out, "Dry run for %s (no files written)\n", summary.Root)
	} else {
		fmt.Fprintf(out, "Localized %s\n", summary.Root)
	}
	rows := [][]string{
		{"Documents", strconv.Itoa(summary.Documents)},
		{"Parse failures", strconv.Itoa(summary.ParseFailures)},
		{"URLs found", strconv.Itoa(summary.URLsFound)},
		{"Already cached", strconv.Itoa(summary.AlreadyCached)},
		{"Fetched", strconv.Itoa(summary.Fetched)},
		{"Fetch failed", strconv.Itoa(summary.FetchFailed)},
		{"Documents rewritten", strconv.Itoa(summary.Rewritten)},
		{"Rewrite failed", strconv.Itoa(summary.RewriteFailed)},
		{"References rewritten", strconv.Itoa(summary.RefsRewritten)},
		{"References skipped", strconv.Itoa(summary.RefsSkipped)},
		{"Elapsed", summary.Elapsed.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderTable(out, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func publishLocalizeFailure(cmd *cobra.Command, ctx *commandContext, logger *slog.Logger, root string, runErr error) {
	if errors.Is(runErr, context.Canceled) {
		return
	}
	publish(cmd, ctx, logger, notifications.EventLocalizeFailed, notifications.Payload{
		"root":  root,
		"error": runErr.Error(),
	})
}
