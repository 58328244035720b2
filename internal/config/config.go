package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/kubev2v/taskpool/pkg/scheduler"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Pool Scoring Store Auth

type Configuration struct {
	Server    Server  `debugmap:"visible"`
	Pool      Pool    `debugmap:"visible"`
	Scoring   Scoring `debugmap:"visible"`
	Store     Store   `debugmap:"visible"`
	Auth      Auth    `debugmap:"visible"`
	LogFormat string  `debugmap:"visible" default:"console"`
	LogLevel  string  `debugmap:"visible" default:"debug"`
}

type Server struct {
	HTTPPort        int           `debugmap:"visible" default:"8080"`
	ServerMode      string        `debugmap:"visible" default:"dev"`
	TLSCertFile     string        `debugmap:"visible"`
	TLSKeyFile      string        `debugmap:"visible"`
	ShutdownTimeout time.Duration `debugmap:"visible" default:"10s"`
}

type Pool struct {
	MinWorkers          int           `debugmap:"visible" default:"1"`
	MaxWorkers          int           `debugmap:"visible" default:"4"`
	MaxQueueSize        int           `debugmap:"visible" default:"0"`
	IdleTimeout         time.Duration `debugmap:"visible" default:"30s"`
	DefaultTimeout      time.Duration `debugmap:"visible" default:"30s"`
	MaxRetries          int           `debugmap:"visible" default:"2"`
	ErrorThreshold      int           `debugmap:"visible" default:"3"`
	HealthCheckInterval time.Duration `debugmap:"visible" default:"5s"`
	SpawnRate           float64       `debugmap:"visible" default:"0"`
	SpawnBurst          int           `debugmap:"visible" default:"1"`
	Preheat             bool          `debugmap:"visible" default:"true"`
	ShutdownGrace       time.Duration `debugmap:"visible" default:"5s"`
	HistoryBuffer       int           `debugmap:"visible" default:"1024"`
}

type Scoring struct {
	SmartScheduling bool    `debugmap:"visible" default:"true"`
	TypeWeight      float64 `debugmap:"visible" default:"0.4"`
	OverallWeight   float64 `debugmap:"visible" default:"0.4"`
	LoadWeight      float64 `debugmap:"visible" default:"0.2"`
	ErrorPenalty    float64 `debugmap:"visible" default:"0.5"`
}

type Store struct {
	Path string `debugmap:"visible" default:"taskpool.duckdb"`
}

type Auth struct {
	Enabled bool   `debugmap:"visible" default:"false"`
	Secret  string `debugmap:"sensitive"`
	Issuer  string `debugmap:"visible" default:"taskpool"`
}

const (
	ServerModeDev  = "dev"
	ServerModeProd = "prod"
)

// Validate checks the settings the scheduler does not validate itself.
func (c *Configuration) Validate() error {
	if c.Server.ServerMode != ServerModeDev && c.Server.ServerMode != ServerModeProd {
		return fmt.Errorf("invalid server mode %q: expected %q or %q", c.Server.ServerMode, ServerModeDev, ServerModeProd)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.Server.HTTPPort)
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return errors.New("tls cert and key files must be set together")
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return errors.New("auth is enabled but no secret is set")
	}
	if c.Pool.SpawnRate < 0 {
		return fmt.Errorf("invalid spawn rate %v", c.Pool.SpawnRate)
	}
	if c.Store.Path == "" {
		return errors.New("store path is required")
	}
	return nil
}

// SchedulerConfig maps the application configuration onto the scheduler's.
// Fields the application does not expose keep their library defaults.
func (c *Configuration) SchedulerConfig() scheduler.Config {
	cfg := scheduler.DefaultConfig()

	cfg.MinWorkers = c.Pool.MinWorkers
	cfg.MaxWorkers = c.Pool.MaxWorkers
	cfg.MaxQueueSize = c.Pool.MaxQueueSize
	cfg.IdleTimeout = c.Pool.IdleTimeout
	cfg.DefaultTimeout = c.Pool.DefaultTimeout
	cfg.MaxRetries = c.Pool.MaxRetries
	cfg.ErrorThreshold = c.Pool.ErrorThreshold
	cfg.HealthCheckInterval = c.Pool.HealthCheckInterval
	cfg.SpawnBurst = c.Pool.SpawnBurst
	cfg.Preheat = c.Pool.Preheat
	cfg.ShutdownGrace = c.Pool.ShutdownGrace

	// zero means unlimited
	cfg.SpawnRate = rate.Inf
	if c.Pool.SpawnRate > 0 {
		cfg.SpawnRate = rate.Limit(c.Pool.SpawnRate)
	}

	cfg.SmartScheduling = c.Scoring.SmartScheduling
	cfg.Weights = scheduler.Weights{
		Type:         c.Scoring.TypeWeight,
		Overall:      c.Scoring.OverallWeight,
		Load:         c.Scoring.LoadWeight,
		ErrorPenalty: c.Scoring.ErrorPenalty,
	}

	return cfg
}
