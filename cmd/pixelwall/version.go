package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pixelwall"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pixelwall",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pixelwall version %s\n", strings.TrimSpace(pixelwall.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
