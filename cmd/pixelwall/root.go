package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/pixelwall/internal/cli"
	"github.com/aretw0/pixelwall/internal/config"
	"github.com/aretw0/pixelwall/pkg/canvas"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "pixelwall",
	Short: "pixelwall is a shared pixel canvas",
	Long:  `pixelwall keeps a fixed-size grid of colored cells in a durable store and lets anyone repaint one cell at a time.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	addConfigFlags(rootCmd.PersistentFlags())
}

func addConfigFlags(pf *pflag.FlagSet) {
	pf.String("config", "", "Path to a YAML config file (default ./"+config.DefaultFile+" if present)")
	pf.String("store", config.BackendFile, "Store backend: file, memory, redis or sqlite")
	pf.String("path", "", "Store path for the file and sqlite backends")
	pf.Int("size", domain.DefaultSize, "Number of cells in the grid")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-format", "text", "Log format: text or json")
}

// loadConfig resolves the configuration: file and environment first, then any
// flag the user set explicitly.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	return loadConfigOver(config.Default(), flags)
}

// loadConfigOver is loadConfig with command-specific defaults in base.
func loadConfigOver(base config.Config, flags *pflag.FlagSet) (config.Config, error) {
	path, _ := flags.GetString("config")
	cfg, err := config.LoadOver(base, path)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("store") {
		cfg.Store.Backend, _ = flags.GetString("store")
	}
	if flags.Changed("path") {
		cfg.Store.Path, _ = flags.GetString("path")
	}
	if flags.Changed("size") {
		cfg.Size, _ = flags.GetInt("size")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Lookup("locking") != nil && flags.Changed("locking") {
		cfg.Locking, _ = flags.GetString("locking")
	}

	return cfg, cfg.Validate()
}

// openWall loads the configuration and builds the Grid Store it describes.
// Logs go to Stderr so Stdout stays free for command output.
func openWall(flags *pflag.FlagSet, hooks domain.LifecycleHooks) (*canvas.Canvas, cli.CloseFunc, *slog.Logger, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, nil, err
	}
	return openWallWithConfig(cfg, hooks)
}

func openWallWithConfig(cfg config.Config, hooks domain.LifecycleHooks) (*canvas.Canvas, cli.CloseFunc, *slog.Logger, error) {
	logger, err := cli.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	wall, closeWall, err := cli.NewWall(cfg, logger, hooks)
	if err != nil {
		return nil, nil, nil, err
	}
	return wall, closeWall, logger, nil
}
