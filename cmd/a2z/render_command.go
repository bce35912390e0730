package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/localize"
	"github.com/Jrchintu/a2z-old-sheet/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var contentDir string
	var outputDir string
	var skipLocalize bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render mirrored article JSON into a browsable HTML tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			content := cfg.Paths.ContentDir
			if dir := strings.TrimSpace(contentDir); dir != "" {
				if content, err = config.ExpandPath(dir); err != nil {
					return err
				}
			}
			output := cfg.Paths.OutputDir
			if dir := strings.TrimSpace(outputDir); dir != "" {
				if output, err = config.ExpandPath(dir); err != nil {
					return err
				}
			}

			renderer, err := render.NewRenderer(cfg, logger)
			if err != nil {
				return err
			}
			pages, err := renderer.RenderDir(cmd.Context(), content, output)
			if err != nil {
				return err
			}
			if err := renderer.WriteIndex(output, pages); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rendered %d pages into %s\n", len(pages), output)
			if skipLocalize || len(pages) == 0 {
				return nil
			}

			// Rendered pages still reference remote assets; pull them down
			// so the output tree works offline.
			localizer := localize.New(cfg, logger)
			summary, err := localizer.Run(cmd.Context(), output, localize.RunOptions{})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Localized assets: %d fetched, %d already cached, %d failed\n",
				summary.Fetched, summary.AlreadyCached, summary.FetchFailed)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentDir, "content-dir", "", "Directory scanned for article JSON (default from config)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for rendered HTML (default from config)")
	cmd.Flags().BoolVar(&skipLocalize, "skip-localize", false, "Skip localizing assets referenced by the rendered pages")
	return cmd
}
