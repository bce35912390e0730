package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/linkexpand"
	"github.com/Jrchintu/a2z-old-sheet/internal/textutil"
)

func newExpandCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "expand <file>",
		Short: "Replace shortened links in a file with their destinations",
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
				output = textutil.SuffixedPath(input, "_expanded")
			} else if output, err = config.ExpandPath(output); err != nil {
				return err
			}

			expander := linkexpand.New(cfg, logger)
			summary, err := expander.ExpandFile(cmd.Context(), input, output)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Expanded %d of %d short links (%d failed)\n", summary.Expanded, summary.Found, summary.Failed)
			fmt.Fprintf(out, "Wrote %s\n", summary.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default <name>_expanded<ext>)")
	return cmd
}
