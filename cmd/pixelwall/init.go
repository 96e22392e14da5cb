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

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default grid if the store is empty",
	Long:  `Persists a grid with every cell set to the default color. An existing grid is never overwritten.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(cmd.Context(), cmd.Flags(), cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(ctx context.Context, flags *pflag.FlagSet, out io.Writer) error {
	wall, closeWall, _, err := openWall(flags, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer closeWall()

	created, err := wall.Ensure(ctx)
	if err != nil {
		return err
	}
	if created {
		cli.PrintSystemMessage(out, "Created grid with %d cells.", wall.Size())
	} else {
		cli.PrintSystemMessage(out, "Grid already exists, left untouched.")
	}
	return nil
}
