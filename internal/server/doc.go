// Package server provides the HTTP server for taskpool.
//
// The server uses the Gin web framework. TLS is served when both a
// certificate and a key file are configured; otherwise it listens on plain
// HTTP.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.GinzapWithConfig (access log, "http" logger)    │  │
//	│  │  ginzap.RecoveryWithZap (panic recovery with stack)     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /health   liveness, public                                   │
//	│  /metrics  promhttp over the given gatherer, public           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  middlewares.Authenticator (only when Auth.Enabled)     │  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"): gin runs in debug mode.
// Production Mode (ServerMode = "prod"): gin runs in release mode.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, registry, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlers(router, handler)
//	})
//
//	go func() {
//	    if err := srv.Start(ctx); !errors.Is(err, http.ErrServerClosed) {
//	        zap.S().Errorw("server failed", "error", err)
//	    }
//	}()
//
//	<-ctx.Done()
//	srv.Stop(shutdownCtx)
//
// Stop performs a graceful shutdown, waiting for in-flight requests until
// its context ends. Requests waiting on a task (POST /tasks?wait=true) see
// their context canceled when the Start context ends.
//
// # Authentication
//
// middlewares.Authenticator accepts "Authorization: Bearer <jwt>" where the
// token is HS256 signed with Auth.Secret, carries iss = Auth.Issuer and an
// exp claim. The subject is stored in the gin context under
// middlewares.SubjectKey. Failures return 401 with {"error": "..."}.
// client.NewToken in pkg/client mints compatible tokens.
//
// Unknown routes under /api/v1 return a JSON 404.
package server
