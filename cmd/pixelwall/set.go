package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/pixelwall/internal/cli"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var setCmd = &cobra.Command{
	Use:   "set <id> <color>",
	Short: "Set the color of one cell",
	Long:  `Applies a single update with the same validation as POST /update.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSet(cmd.Context(), cmd.Flags(), cmd.OutOrStdout(), args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(ctx context.Context, flags *pflag.FlagSet, out io.Writer, id, color string) error {
	wall, closeWall, _, err := openWall(flags, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer closeWall()

	req := domain.UpdateRequest{ID: id, Color: color}
	if err := wall.Update(ctx, req); err != nil {
		return err
	}

	upd, _ := req.Validate(wall.Size())
	cli.PrintSystemMessage(out, "Cell %d set to %s.", upd.ID, upd.Color)
	return nil
}
