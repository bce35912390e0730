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
	"github.com/Jrchintu/a2z-old-sheet/internal/mirror"
	"github.com/Jrchintu/a2z-old-sheet/internal/notifications"
)

func newMirrorCommand(ctx *commandContext) *cobra.Command {
	mirrorCmd := &cobra.Command{
		Use:   "mirror",
		Short: "Mirror sheet articles and manage the download ledger",
	}

	mirrorCmd.AddCommand(newMirrorRunCommand(ctx))
	mirrorCmd.AddCommand(newMirrorStatusCommand(ctx))
	mirrorCmd.AddCommand(newMirrorListCommand(ctx))
	mirrorCmd.AddCommand(newMirrorRetryCommand(ctx))

	return mirrorCmd
}

func newMirrorRunCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "run <sheet.json>",
		Short: "Download every article linked from a sheet export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			sheetPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			runCfg := *cfg
			if workers > 0 {
				runCfg.Mirror.Workers = workers
			}

			return ctx.withLedger(func(store *mirror.Store) error {
				mirrorer := mirror.New(&runCfg, store, logger)
				summary, err := mirrorer.Run(cmd.Context(), sheetPath)
				if err != nil {
					publishMirrorFailure(cmd, ctx, logger, sheetPath, err)
					return err
				}

				printMirrorSummary(cmd, summary)
				publish(cmd, ctx, logger, notifications.EventMirrorCompleted, notifications.Payload{
					"sheet":   summary.Sheet,
					"fetched": strconv.Itoa(summary.Fetched),
					"exists":  strconv.Itoa(summary.Exists),
					"failed":  strconv.Itoa(summary.Failed),
				})
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent downloads (default from config)")
	return cmd
}

func newMirrorStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ledger status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *mirror.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				newest, hasNewest, err := store.NewestUpdatedAt(cmd.Context())
				if err != nil {
					return err
				}
				healthErr := store.CheckHealth(cmd.Context())

				total := 0
				for _, count := range stats {
					total += count
				}

				if asJSON {
					view := mirrorStatusView{
						Ledger: store.Path(),
						Counts: make(map[string]int, len(stats)),
						Total:  total,
						Health: "ok",
					}
					for status, count := range stats {
						view.Counts[string(status)] = count
					}
					if hasNewest {
						view.LastUpdate = newest.UTC().Format(time.RFC3339)
					}
					if healthErr != nil {
						view.Health = healthErr.Error()
					}
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				if total == 0 {
					fmt.Fprintln(out, "Ledger is empty")
				} else {
					rows := make([][]string, 0, len(stats)+1)
					for _, status := range mirror.Statuses() {
						rows = append(rows, []string{formatStatusLabel(string(status)), strconv.Itoa(stats[status])})
					}
					rows = append(rows, []string{"Total", strconv.Itoa(total)})
					fmt.Fprintln(out, renderTable(out, []string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				}
				if hasNewest {
					fmt.Fprintf(out, "Last update: %s\n", formatDisplayTime(newest))
				}
				fmt.Fprintf(out, "Ledger: %s\n", store.Path())
				if healthErr != nil {
					fmt.Fprintf(out, "Health: %s\n", colorize(out, ansiRed, healthErr.Error()))
				} else {
					fmt.Fprintf(out, "Health: %s\n", colorize(out, ansiGreen, "ok"))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit status as JSON")
	return cmd
}

type mirrorStatusView struct {
	Ledger     string         `json:"ledger"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
	LastUpdate string         `json:"last_update,omitempty"`
	Health     string         `json:"health"`
}

func newMirrorListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]mirror.Status, 0, len(listStatuses))
			for _, raw := range listStatuses {
				value := strings.ToLower(strings.TrimSpace(raw))
				if !mirror.ValidStatus(value) {
					return fmt.Errorf("unknown status %q (valid: pending, fetched, exists, failed)", raw)
				}
				statuses = append(statuses, mirror.Status(value))
			}

			return ctx.withLedger(func(store *mirror.Store) error {
				articles, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(articles) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No articles found")
					return nil
				}

				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(articles))
				for _, article := range articles {
					rows = append(rows, []string{
						strconv.FormatInt(article.ID, 10),
						article.Category,
						mirror.DisplayTitle(article.Slug),
						formatStatusLabel(string(article.Status)),
						formatDisplayTime(article.UpdatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(out, []string{"ID", "Category", "Title", "Status", "Updated"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by article status (repeatable)")
	return cmd
}

func newMirrorRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [articleID...]",
		Short: "Requeue failed articles for the next run",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid article id %q", arg)
				}
				ids = append(ids, id)
			}

			return ctx.withLedger(func(store *mirror.Store) error {
				updated, err := store.ResetFailed(cmd.Context(), ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d failed articles\n", updated)
				return nil
			})
		},
	}
}

func printMirrorSummary(cmd *cobra.Command, summary *mirror.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mirrored %s\n", summary.Sheet)
	rows := [][]string{
		{"Topics", strconv.Itoa(summary.Topics)},
		{"Planned", strconv.Itoa(summary.Planned)},
		{"Unplannable", strconv.Itoa(summary.Unplannable)},
		{"Fetched", strconv.Itoa(summary.Fetched)},
		{"Already saved", strconv.Itoa(summary.Exists)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Skipped failed", strconv.Itoa(summary.SkippedFailed)},
		{"Elapsed", summary.Elapsed.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderTable(out, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	if summary.Failed > 0 || summary.SkippedFailed > 0 {
		fmt.Fprintln(out, "Some articles failed; requeue them with `a2z mirror retry`")
	}
}

func publishMirrorFailure(cmd *cobra.Command, ctx *commandContext, logger *slog.Logger, sheet string, runErr error) {
	if errors.Is(runErr, context.Canceled) {
		return
	}
	publish(cmd, ctx, logger, notifications.EventMirrorFailed, notifications.Payload{
		"sheet": sheet,
		"error": runErr.Error(),
	})
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	parts := strings.Split(status, "_")
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func formatDisplayTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("2006-01-02 15:04")
}
