package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mrcaqui/fit-proof-sub000/internal/api"
	"github.com/mrcaqui/fit-proof-sub000/internal/app/profile"
	"github.com/mrcaqui/fit-proof-sub000/internal/health"
	_ "github.com/mrcaqui/fit-proof-sub000/internal/infra/metrics" // Register Prometheus metrics
	"github.com/mrcaqui/fit-proof-sub000/internal/infra/sqlite"
	"github.com/mrcaqui/fit-proof-sub000/internal/jobs"
)

// Daemon is the core FitProof runtime. It wires together all services.
type Daemon struct {
	Config    Config
	DB        *sqlite.DB
	Profiles  *profile.Service
	Server    *api.Server
	Health    *health.Checker
	Scheduler *jobs.Scheduler
	cancel    context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	setupLogging(cfg.Logging)

	dataDir := cfg.Data.Dir
	if dataDir == "" {
		dataDir = Home()
	}
	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	profiles := profile.NewService(db, cfg.Engine.WindowDays)
	checker := health.NewChecker(db, dataDir)

	srv := api.NewServer(profiles, checker)
	srv.EnableMetrics()

	return &Daemon{
		Config:    cfg,
		DB:        db,
		Profiles:  profiles,
		Server:    srv,
		Health:    checker,
		Scheduler: jobs.NewScheduler(profiles, cfg.Jobs.Timezone, cfg.Jobs.RecomputeCron),
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	if err := d.Scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		d.Scheduler.Stop()
		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	log.WithField("addr", addr).Info("FitProof serving")
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Scheduler != nil {
		d.Scheduler.Stop()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// setupLogging applies the logging configuration globally.
func setupLogging(cfg LoggingConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.WithError(err).Warn("cannot open log file, using stderr")
			return
		}
		log.SetOutput(f)
	}
}
