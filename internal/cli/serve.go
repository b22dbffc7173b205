package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"music-tagger/internal/database"
	"music-tagger/internal/identify"
	"music-tagger/internal/parser"
	"music-tagger/internal/server"
)

func init() {
	cmdRoot.AddCommand(cmdServe())
}

func cmdServe() *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Serve the identification API",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := database.Open(e.cfg.Registry.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := identify.Runner{
				Config:  e.cfg.MatcherConfig(),
				Sources: e.sources(ctx),
				DB:      db,
			}
			api := server.New(runner, e.cfg.Identify.Workers, e.logger,
				server.WithLister("spotify", e.spotify(ctx), "spotify.com", "googleusercontent.com"),
				server.WithLister("youtube", parser.NewYouTube(), "youtube.com", "youtu.be"),
			)

			srv := &http.Server{
				Addr:              ":" + e.cfg.Server.Port,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				e.logger.Info("listening", zap.String("addr", srv.Addr), zap.String("registry", e.cfg.Registry.Path))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			e.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
