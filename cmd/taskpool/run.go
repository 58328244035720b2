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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/taskpool/api/v1"
	"github.com/kubev2v/taskpool/internal/config"
	"github.com/kubev2v/taskpool/internal/handlers"
	"github.com/kubev2v/taskpool/internal/logger"
	"github.com/kubev2v/taskpool/internal/metrics"
	"github.com/kubev2v/taskpool/internal/server"
	"github.com/kubev2v/taskpool/internal/services"
	"github.com/kubev2v/taskpool/internal/store"
	"github.com/kubev2v/taskpool/internal/store/migrations"
	"github.com/kubev2v/taskpool/pkg/scheduler"
)

func NewRunCmd() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler and its HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			restore, err := logger.SetupLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer restore()

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	registerFlags(cmd, cfg)
	return cmd
}

func registerFlags(cmd *cobra.Command, cfg *config.Configuration) {
	f := cmd.Flags()

	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (console, json)")

	f.IntVar(&cfg.Server.HTTPPort, "http-port", cfg.Server.HTTPPort, "HTTP listen port")
	f.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode (dev, prod)")
	f.StringVar(&cfg.Server.TLSCertFile, "tls-cert-file", cfg.Server.TLSCertFile, "TLS certificate file")
	f.StringVar(&cfg.Server.TLSKeyFile, "tls-key-file", cfg.Server.TLSKeyFile, "TLS key file")
	f.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", cfg.Server.ShutdownTimeout, "Grace period for in-flight requests")

	f.IntVar(&cfg.Pool.MinWorkers, "min-workers", cfg.Pool.MinWorkers, "Workers kept alive while idle")
	f.IntVar(&cfg.Pool.MaxWorkers, "max-workers", cfg.Pool.MaxWorkers, "Upper bound on workers")
	f.IntVar(&cfg.Pool.MaxQueueSize, "max-queue-size", cfg.Pool.MaxQueueSize, "Queue capacity, 0 is unbounded")
	f.DurationVar(&cfg.Pool.IdleTimeout, "idle-timeout", cfg.Pool.IdleTimeout, "Idle time before a worker above the minimum is reaped")
	f.DurationVar(&cfg.Pool.DefaultTimeout, "task-timeout", cfg.Pool.DefaultTimeout, "Default per-attempt timeout")
	f.IntVar(&cfg.Pool.MaxRetries, "max-retries", cfg.Pool.MaxRetries, "Default retries after the first attempt")
	f.IntVar(&cfg.Pool.ErrorThreshold, "error-threshold", cfg.Pool.ErrorThreshold, "Errors before a worker is replaced")
	f.DurationVar(&cfg.Pool.HealthCheckInterval, "health-check-interval", cfg.Pool.HealthCheckInterval, "Health monitor period")
	f.Float64Var(&cfg.Pool.SpawnRate, "spawn-rate", cfg.Pool.SpawnRate, "Workers created per second, 0 is unlimited")
	f.IntVar(&cfg.Pool.SpawnBurst, "spawn-burst", cfg.Pool.SpawnBurst, "Spawn limiter burst")
	f.BoolVar(&cfg.Pool.Preheat, "preheat", cfg.Pool.Preheat, "Warm new workers with a noop task")
	f.DurationVar(&cfg.Pool.ShutdownGrace, "shutdown-grace", cfg.Pool.ShutdownGrace, "Wait for running attempts on shutdown")
	f.IntVar(&cfg.Pool.HistoryBuffer, "history-buffer", cfg.Pool.HistoryBuffer, "History records buffered before dropping")

	f.BoolVar(&cfg.Scoring.SmartScheduling, "smart-scheduling", cfg.Scoring.SmartScheduling, "Score workers instead of taking the first idle one")
	f.Float64Var(&cfg.Scoring.TypeWeight, "type-weight", cfg.Scoring.TypeWeight, "Weight of the per-type success rate")
	f.Float64Var(&cfg.Scoring.OverallWeight, "overall-weight", cfg.Scoring.OverallWeight, "Weight of the overall success rate")
	f.Float64Var(&cfg.Scoring.LoadWeight, "load-weight", cfg.Scoring.LoadWeight, "Weight of the inverse load")
	f.Float64Var(&cfg.Scoring.ErrorPenalty, "error-penalty", cfg.Scoring.ErrorPenalty, "Penalty per recent error")

	f.StringVar(&cfg.Store.Path, "db-path", cfg.Store.Path, "DuckDB file, :memory: for an in-memory database")

	f.BoolVar(&cfg.Auth.Enabled, "auth-enabled", cfg.Auth.Enabled, "Require a bearer token on /api/v1")
	f.StringVar(&cfg.Auth.Secret, "auth-secret", cfg.Auth.Secret, "HS256 signing secret")
	f.StringVar(&cfg.Auth.Issuer, "auth-issuer", cfg.Auth.Issuer, "Expected token issuer")
}

func run(ctx context.Context, cfg *config.Configuration) (err error) {
	log := zap.S().Named("run")
	log.Infow("configuration loaded", "config", cfg.DebugMap())

	db, err := store.NewDB(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	st := store.NewStore(db)
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	schedCfg := cfg.SchedulerConfig()
	if err := services.RestoreBounds(ctx, st, &schedCfg); err != nil {
		return fmt.Errorf("failed to restore pool bounds: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := metrics.NewExporter("", reg, metrics.ExporterOptions{})
	if err != nil {
		return fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	recorder := services.NewHistoryRecorder(st, cfg.Pool.HistoryBuffer)
	schedCfg.Hooks = recorder.Hooks()
	schedCfg.Metrics = exporter

	sched, err := scheduler.NewScheduler(schedCfg)
	if err != nil {
		_ = recorder.Close(context.Background())
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	poolSrv := services.NewPoolService(sched, st)
	historySrv := services.NewHistoryService(st)
	h := handlers.New(poolSrv, historySrv)

	srv, err := server.NewServer(cfg, reg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, h)
	})
	if err != nil {
		sched.Terminate()
		_ = recorder.Close(context.Background())
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case e := <-errCh:
		if !errors.Is(e, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server failed: %w", e)
		}
	}

	return multierr.Append(serveErr, shutdown(cfg, srv, sched, recorder))
}

// shutdown stops the server, then the scheduler, then the recorder so that
// the outcomes of rejected pending tasks still reach the history.
func shutdown(cfg *config.Configuration, srv *server.Server, sched *scheduler.Scheduler, recorder *services.HistoryRecorder) error {
	log := zap.S().Named("run")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs error
	if err := srv.Stop(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to stop server: %w", err))
	}

	sched.Terminate()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := recorder.Close(flushCtx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to flush history: %w", err))
	}
	if n := recorder.Dropped(); n > 0 {
		log.Warnw("history records dropped", "count", n)
	}

	log.Info("shutdown complete")
	return errs
}
