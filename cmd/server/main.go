package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/content-synth/internal/api"
	"github.com/content-synth/internal/app"
	"github.com/content-synth/internal/config"
	"github.com/content-synth/internal/session"
	"github.com/content-synth/pkg/logger"
)

var (
	cfgFile string
	port    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "content-synth-server",
		Short: "HTTP API for persona-based caption generation",
		Long: `Serves the caption generation API and runs background jobs:
idle session cleanup and periodic tracker sync.`,
		RunE: runServer,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.LoggerConfig())
	log.Info().Msg("Starting Content Synth server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Startup failed")
		return err
	}
	defer a.Close()

	store := session.NewStore()

	c := cron.New(cron.WithLogger(cronLogger{log}))
	if err := scheduleJobs(c, a, store, cfg, log); err != nil {
		return err
	}
	c.Start()
	log.Info().Msg("Scheduler started")

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.NewHandler(a.Agent, store, log))

	if port == 0 {
		port = cfg.Server.Port
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
	}

	log.Info().Msg("Shutting down")
	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func scheduleJobs(c *cron.Cron, a *app.App, store *session.Store, cfg *config.Config, log *logger.Logger) error {
	idle := cfg.Server.SessionIdleTimeout
	if idle > 0 && cfg.Scheduler.SessionCleanupCron != "" {
		_, err := c.AddFunc(cfg.Scheduler.SessionCleanupCron, func() {
			ended := store.Reap(idle)
			if len(ended) > 0 {
				log.Info().
					Int("ended", len(ended)).
					Int("live", store.Len()).
					Msg("Idle sessions reaped")
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule session cleanup: %w", err)
		}
		log.Info().Str("cron", cfg.Scheduler.SessionCleanupCron).Msg("Session cleanup scheduled")
	}

	if a.Tracker != nil && a.Repository != nil && cfg.Scheduler.TrackerSyncCron != "" {
		_, err := c.AddFunc(cfg.Scheduler.TrackerSyncCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			n, err := a.Tracker.SyncPending(ctx, a.Repository, 100)
			if err != nil {
				log.Error().Err(err).Int("synced", n).Msg("Scheduled tracker sync failed")
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule tracker sync: %w", err)
		}
		log.Info().Str("cron", cfg.Scheduler.TrackerSyncCron).Msg("Tracker sync scheduled")
	}

	return nil
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
