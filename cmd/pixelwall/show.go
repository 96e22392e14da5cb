package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/pixelwall/internal/presentation/tui"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Draw the grid in the terminal",
	Long:  `Renders every cell as a colored block. Use --plain when the terminal has no color support.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runShow(cmd.Context(), cmd.Flags(), cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	addShowFlags(showCmd.Flags())
}

func addShowFlags(fs *pflag.FlagSet) {
	fs.Bool("plain", false, "Draw with ASCII characters instead of colors")
}

func runShow(ctx context.Context, flags *pflag.FlagSet, out io.Writer) error {
	wall, closeWall, _, err := openWall(flags, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer closeWall()

	r := tui.NewGridRenderer(wall.Size(), wall.DefaultColor())
	if plain, _ := flags.GetBool("plain"); plain {
		r.Profile = termenv.Ascii
	}

	_, err = io.WriteString(out, r.Render(wall.Load(ctx)))
	return err
}
