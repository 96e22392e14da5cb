package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/pixelwall/internal/presentation/tui"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize how the grid is painted",
	Long:  `Prints cell counts and a color histogram. Output is rendered markdown on a terminal and raw markdown otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStats(cmd.Context(), cmd.Flags(), cmd.OutOrStdout(), tui.IsTerminal(os.Stdout)); err != nil {
			fmt.Fprintf(os.Stderr, "Stats failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(ctx context.Context, flags *pflag.FlagSet, out io.Writer, rich bool) error {
	wall, closeWall, logger, err := openWall(flags, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer closeWall()

	md := tui.StatsMarkdown(wall.Load(ctx), wall.Size(), wall.DefaultColor())
	if rich {
		render := tui.NewRenderer(tui.TerminalWidth(os.Stdout))
		rendered, err := render(md)
		if err != nil {
			logger.Warn("Markdown render failed, printing raw", "err", err)
		} else {
			md = rendered
		}
	}

	_, err = io.WriteString(out, md)
	return err
}
