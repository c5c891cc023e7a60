// Package health provides health check endpoints for Polyglot Hermes.
//
// # Overview
//
// The health package implements liveness and readiness probes for Kubernetes
// and other orchestration systems, along with a version information endpoint.
// Component checks are registered as functions, so the checker stays
// decoupled from the router, cache and store packages it reports on.
//
// # Endpoints
//
// The package provides three main endpoints:
//
//   - /health: Liveness probe - indicates if the process is running
//   - /ready: Readiness probe - indicates if the gateway can serve traffic
//   - /version: Build information - version, commit, build time
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//
//	// Register component checks
//	checker.RegisterCheck("providers", health.ProviderCheck(func() int {
//	    return router.HealthyProviderCount()
//	}))
//	checker.RegisterCheck("cache", func(ctx context.Context) error {
//	    return cacheClient.Ping(ctx)
//	})
//
//	// Mount on the router
//	r.Get("/health", checker.LivenessHandler())
//	r.Get("/ready", checker.ReadinessHandler())
//	r.Get("/version", health.VersionHandler("1.0.0", "abc123", "2026-08-24"))
//
// # Liveness vs Readiness
//
// The liveness probe (/health) only verifies the process is alive; it stays
// 200 even when every upstream backend is down, because restarting the
// gateway does not fix unhealthy backends. The readiness probe (/ready) runs
// all registered component checks concurrently and returns 503 when any
// fails, which takes the instance out of the load balancer rotation while
// the health monitor works on recovering providers.
//
// # Component Health Checks
//
// Checks registered by the gateway:
//   - providers: at least one backend is healthy and can serve
//   - cache: response cache backend reachable (redis ping; memory always ok)
//   - configstore: credential store reachable
//
// Each check runs under the checker's per-check timeout (default 5s); a
// check that overruns is reported unhealthy with a timeout message.
//
// # Example Responses
//
// Readiness response (/ready):
//
//	{
//	    "status": "ready",
//	    "checks": {
//	        "providers": {"status": "ok", "duration_ms": 0.1},
//	        "cache": {"status": "ok", "duration_ms": 1.4},
//	        "configstore": {"status": "ok", "duration_ms": 0.6}
//	    },
//	    "timestamp": "2026-08-24T10:30:00Z"
//	}
//
// Degraded response (/ready):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "providers": {"status": "unhealthy", "message": "no healthy providers"},
//	        "cache": {"status": "ok"}
//	    },
//	    "timestamp": "2026-08-24T10:30:00Z"
//	}
package health
