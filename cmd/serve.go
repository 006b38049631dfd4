package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/settlesavvy/settlemap-cli/internal/viewer"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local map viewer",
	Long:  "Serves the Leaflet viewer page and its overlay API on localhost, proxying the scoring API through the stored session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := initEnv()

		snapshots, err := initSnapshots()
		if err != nil {
			return err
		}
		defer snapshots.Close() //nolint:errcheck
		if err := snapshots.Migrate(ctx); err != nil {
			return err
		}

		cache := viewer.NewOverlayCache(
			cfg.Viewer.OverlayCacheMax,
			time.Duration(cfg.Viewer.OverlayTTLSecs)*time.Second,
		)
		server := viewer.NewServer(e.api, e.guard, cache, snapshots)

		warm, _ := cmd.Flags().GetBool("warm")
		if warm || cfg.Viewer.Warm {
			if err := server.Warm(ctx); err != nil {
				zap.L().Warn("overlay warm-up failed", zap.Error(err))
			}
		}

		port := servePort
		if port == 0 {
			port = cfg.Viewer.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down viewer")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting viewer", zap.Int("port", port))
		fmt.Printf("Viewer running at http://localhost:%d/\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "viewer listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "viewer port (default from config)")
	serveCmd.Flags().Bool("warm", false, "prefetch overlays for all maps before serving")
	rootCmd.AddCommand(serveCmd)
}
