package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	httpAdapter "github.com/aretw0/pixelwall/internal/adapters/http"
	"github.com/aretw0/pixelwall/internal/cli"
	"github.com/aretw0/pixelwall/internal/config"
	"github.com/aretw0/pixelwall/internal/metrics"
	"github.com/aretw0/pixelwall/internal/presentation/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// shutdownTimeout gives outstanding requests a deadline for completion.
const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Creates the default grid if needed, then serves the wall page, GET /pixels and
POST /update until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}
		if err := runServe(cli.NewSignalContext(context.Background()), cmd.Flags()); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd.Flags())
}

func addServeFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":5000", "Address to listen on")
	fs.String("locking", config.LockLocal, "Update serialization: none, local or redis")
	fs.Bool("metrics", true, "Expose Prometheus metrics at /metrics")
}

// concurrentDefaults are the defaults of commands serving many clients at once:
// updates are serialized unless the config file, environment or a flag says otherwise.
func concurrentDefaults() config.Config {
	cfg := config.Default()
	cfg.Locking = config.LockLocal
	return cfg
}

func runServe(sc *cli.SignalContext, flags *pflag.FlagSet) error {
	defer sc.Cancel()

	cfg, err := loadConfigOver(concurrentDefaults(), flags)
	if err != nil {
		return err
	}

	m := metrics.New()
	wall, closeWall, logger, err := openWallWithConfig(cfg, m.Hooks())
	if err != nil {
		return err
	}
	defer closeWall()

	created, err := wall.Ensure(sc)
	if err != nil {
		return fmt.Errorf("failed to initialize grid: %w", err)
	}
	if created {
		logger.Info("Initialized grid store", "backend", cfg.Store.Backend, "size", cfg.Size)
	}

	opts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
	if enabled, _ := flags.GetBool("metrics"); enabled {
		opts = append(opts, httpAdapter.WithMetrics(m.Handler()))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpAdapter.NewHandler(wall, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting pixelwall server", "addr", srv.Addr, "backend", cfg.Store.Backend, "locking", cfg.Locking)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-sc.Done():
		logger.Info("Start shutdown", "signal", sc.Signal())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("pixelwall server stopped gracefully")
		return nil
	}
}
