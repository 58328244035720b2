package scheduler

import (
	"time"

	"golang.org/x/time/rate"

	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

// Weights tune the smart worker selection score.
type Weights struct {
	Type         float64
	Overall      float64
	Load         float64
	ErrorPenalty float64
}

// BackoffConfig configures the delay between retries after the first one.
type BackoffConfig struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64
}

// ExecutorFactory builds the executor bound to a new worker.
type ExecutorFactory func(workerID string) Executor

type Config struct {
	MinWorkers   int
	MaxWorkers   int
	MaxQueueSize int // 0 means unbounded

	IdleTimeout    time.Duration
	DefaultTimeout time.Duration
	MaxRetries     int
	// A worker whose error count exceeds ErrorThreshold is replaced.
	ErrorThreshold int

	SmartScheduling bool
	Weights         Weights
	Backoff         BackoffConfig
	// LoadAge is the EWMA age used for the worker load estimate.
	LoadAge float64

	Preheat      bool
	PreheatTasks []Task

	HealthCheckInterval time.Duration
	SpawnRate           rate.Limit
	SpawnBurst          int
	ShutdownGrace       time.Duration

	NewExecutor ExecutorFactory
	Hooks       Hooks
	Metrics     Metrics
}

func DefaultConfig() Config {
	return Config{
		MinWorkers:      1,
		MaxWorkers:      4,
		IdleTimeout:     30 * time.Second,
		DefaultTimeout:  30 * time.Second,
		MaxRetries:      2,
		ErrorThreshold:  3,
		SmartScheduling: true,
		Weights: Weights{
			Type:         0.4,
			Overall:      0.4,
			Load:         0.2,
			ErrorPenalty: 0.5,
		},
		Backoff: BackoffConfig{
			InitialInterval:     100 * time.Millisecond,
			MaxInterval:         5 * time.Second,
			Multiplier:          2,
			RandomizationFactor: 0.2,
		},
		LoadAge:             10,
		PreheatTasks:        []Task{{Type: TaskTypeNoop}},
		HealthCheckInterval: 5 * time.Second,
		SpawnRate:           rate.Inf,
		SpawnBurst:          1,
		ShutdownGrace:       5 * time.Second,
	}
}

// Validate checks bounds and fills the optional collaborators.
func (c *Config) Validate() error {
	if c.MinWorkers < 0 {
		return srvErrors.NewInvalidArgumentError("minWorkers", "must not be negative")
	}
	if c.MaxWorkers < 0 {
		return srvErrors.NewInvalidArgumentError("maxWorkers", "must not be negative")
	}
	if c.MinWorkers > c.MaxWorkers {
		return srvErrors.NewInvalidArgumentError("minWorkers", "must not exceed maxWorkers")
	}
	if c.MaxQueueSize < 0 {
		return srvErrors.NewInvalidArgumentError("maxQueueSize", "must not be negative")
	}
	if c.DefaultTimeout <= 0 {
		return srvErrors.NewInvalidArgumentError("defaultTimeout", "must be positive")
	}
	if c.MaxRetries < 0 {
		return srvErrors.NewInvalidArgumentError("maxRetries", "must not be negative")
	}
	if c.HealthCheckInterval <= 0 {
		return srvErrors.NewInvalidArgumentError("healthCheckInterval", "must be positive")
	}
	if c.IdleTimeout <= 0 {
		return srvErrors.NewInvalidArgumentError("idleTimeout", "must be positive")
	}

	if c.NewExecutor == nil {
		registry := NewRegistry()
		c.NewExecutor = func(string) Executor { return registry }
	}
	if c.Metrics == nil {
		c.Metrics = noopMetrics{}
	}
	if c.SpawnRate == 0 {
		c.SpawnRate = rate.Inf
	}
	if c.SpawnBurst <= 0 {
		c.SpawnBurst = 1
	}
	if c.LoadAge <= 0 {
		c.LoadAge = 10
	}
	return nil
}
