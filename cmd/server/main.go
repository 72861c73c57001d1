package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ascendant/internal/app"
	"ascendant/internal/config"
	"ascendant/internal/logging"
	"ascendant/internal/repository"
	"ascendant/internal/static"
	"ascendant/internal/tui"
)

func main() {
	root := &cobra.Command{
		Use:   "server",
		Short: "Ascendant Protocol landing page and assessment server",
		Long: `Serves the Ascendant Protocol page and runs the assessment wizard,
reveal gate and scroll animations for each visitor session.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(serveCmd())
	root.AddCommand(previewCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func previewCmd() *cobra.Command {
	var questionsFile string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Walk through the assessment in the terminal",
		Long: `Runs the assessment wizard in the terminal against the same page layout
the server uses.

Keys:
  1-9, 0    Rate the current statement (0 is 10)
  ←/→       Move along the scale
  Enter     Select the focused value
  s         Submit once the warning is shown
  q         Quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := repository.NewDefaultQuestionRepo()
			if questionsFile != "" {
				var err error
				if repo, err = repository.NewFileQuestionRepo(questionsFile); err != nil {
					return err
				}
			}
			set, err := repo.GetSet(cmd.Context(), "")
			if err != nil {
				return err
			}
			layout, err := static.DefaultLayout()
			if err != nil {
				return err
			}
			return tui.Run(layout, set.Questions)
		},
	}
	cmd.Flags().StringVar(&questionsFile, "questions", "", "YAML question file (default: embedded list)")
	return cmd
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return err
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      a.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server running at http://localhost:%d/", cfg.Port),
			zap.String("addr", cfg.Addr()),
			zap.Bool("debug", cfg.Debug),
		)
		logger.Info("Endpoints:")
		logger.Info("  GET  /")
		logger.Info("  GET  /health")
		logger.Info("  POST /v1/sessions")
		logger.Info("  GET  /v1/session")
		logger.Info("  POST /v1/session/events")
		logger.Info("  WS   /v1/ws/session")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("listen failed", zap.Error(err))
			a.Close(context.Background())
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := a.Close(shutdownCtx); err != nil {
		logger.Warn("close backends", zap.Error(err))
	}

	logger.Info("Server exited")
	return nil
}
