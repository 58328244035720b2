// Package config defines the configuration structure for taskpool.
//
// Configuration is organized into logical sections (Server, Pool, Scoring,
// Store, Auth) and uses code generation via optgen to create functional
// option helpers.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - HTTP server settings
//	├── Pool           - Worker bounds, timeouts, retries, health checks
//	├── Scoring        - Smart worker selection weights
//	├── Store          - DuckDB location
//	├── Auth           - JWT authentication
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8080    │ HTTP server listen port                │
//	│ TLSCertFile      │ ""      │ Serve TLS when set with TLSKeyFile     │
//	│ TLSKeyFile       │ ""      │                                        │
//	│ ShutdownTimeout  │ 10s     │ Grace period for in-flight requests    │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Pool Configuration
//
//	┌─────────────────────┬─────────┬──────────────────────────────────────┐
//	│ Field               │ Default │ Description                          │
//	├─────────────────────┼─────────┼──────────────────────────────────────┤
//	│ MinWorkers          │ 1       │ Workers kept alive while idle        │
//	│ MaxWorkers          │ 4       │ Upper bound on workers               │
//	│ MaxQueueSize        │ 0       │ Queue capacity, 0 is unbounded       │
//	│ IdleTimeout         │ 30s     │ Idle time before a worker is reaped  │
//	│ DefaultTimeout      │ 30s     │ Per-attempt timeout                  │
//	│ MaxRetries          │ 2       │ Retries after the first attempt      │
//	│ ErrorThreshold      │ 3       │ Errors before a worker is replaced   │
//	│ HealthCheckInterval │ 5s      │ Health monitor period                │
//	│ SpawnRate           │ 0       │ Workers per second, 0 is unlimited   │
//	│ SpawnBurst          │ 1       │ Spawn limiter burst                  │
//	│ Preheat             │ true    │ Warm new workers with a noop task    │
//	│ ShutdownGrace       │ 5s      │ Wait for running attempts on stop    │
//	│ HistoryBuffer       │ 1024    │ Pending history records before drop  │
//	└─────────────────────┴─────────┴──────────────────────────────────────┘
//
// Bounds saved through PUT /pool win over MinWorkers/MaxWorkers on restart.
//
// # Scoring Configuration
//
//	┌─────────────────┬─────────┬──────────────────────────────────────────┐
//	│ Field           │ Default │ Description                              │
//	├─────────────────┼─────────┼──────────────────────────────────────────┤
//	│ SmartScheduling │ true    │ Score workers, else first idle one       │
//	│ TypeWeight      │ 0.4     │ Weight of the per-type success rate      │
//	│ OverallWeight   │ 0.4     │ Weight of the overall success rate       │
//	│ LoadWeight      │ 0.2     │ Weight of the inverse load               │
//	│ ErrorPenalty    │ 0.5     │ Subtracted per recent error              │
//	└─────────────────┴─────────┴──────────────────────────────────────────┘
//
// # Authentication Configuration
//
//	┌─────────┬────────────┬───────────────────────────────────────────────┐
//	│ Field   │ Default    │ Description                                   │
//	├─────────┼────────────┼───────────────────────────────────────────────┤
//	│ Enabled │ false      │ Require an HS256 bearer token on /api/v1      │
//	│ Secret  │ ""         │ Signing secret (sensitive)                    │
//	│ Issuer  │ "taskpool" │ Expected iss claim                            │
//	└─────────┴────────────┴───────────────────────────────────────────────┘
//
// # Code Generation
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Pool Scoring Store Auth
//
// # Usage Example
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(
//	    config.WithPool(*config.NewPoolWithOptionsAndDefaults(
//	        config.WithMaxWorkers(8),
//	    )),
//	    config.WithLogLevel("info"),
//	)
//	schedCfg := cfg.SchedulerConfig()
//
// # Debug Logging
//
// Auth.Secret is tagged `debugmap:"sensitive"` and is masked in DebugMap():
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
