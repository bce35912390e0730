package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/linkclean"
	"github.com/Jrchintu/a2z-old-sheet/internal/textutil"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Strip tracking parameters from quoted URLs in a file",
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

			input, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			output := strings.TrimSpace(outputPath)
			if output == "" {
				output = textutil.SuffixedPath(input, "_cleaned")
			} else if output, err = config.ExpandPath(output); err != nil {
				return err
			}

			cleaner := linkclean.New(cfg, logger)
			summary, err := cleaner.CleanFile(input, output)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cleaned %d of %d links (%d replacements)\n", summary.Changed, summary.Found, summary.Replaced)
			fmt.Fprintf(out, "Wrote %s\n", summary.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default <name>_cleaned<ext>)")
	return cmd
}
