package routing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// healthCheckConcurrency bounds how many providers are probed at once
// during a sweep.
const healthCheckConcurrency = 4

// HealthMonitor probes provider health in the background. Each sweep runs
// the per-provider checks concurrently in a bounded group, with an
// individual time budget per provider so one hung backend cannot stall
// the sweep. A stopped monitor never restarts.
type HealthMonitor struct {
	registry *Registry
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	started  bool
	stopped  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewHealthMonitor creates a monitor over the registry. Non-positive
// interval or timeout fall back to the defaults.
func NewHealthMonitor(registry *Registry, interval, timeout time.Duration, logger *slog.Logger) *HealthMonitor {
	if interval <= 0 {
		interval = DefaultHealthCheckInterval
	}
	if timeout <= 0 {
		timeout = DefaultHealthCheckTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthMonitor{
		registry: registry,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "health_monitor"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. Starting twice or starting after
// Stop is a no-op.
func (m *HealthMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.stopped {
		return
	}
	m.started = true
	m.logger.Info("health monitor started", "interval", m.interval, "timeout", m.timeout)
	go m.run()
}

// Stop halts the loop and waits for an in-flight sweep to finish. It is
// idempotent, and the monitor cannot be started again afterwards.
func (m *HealthMonitor) Stop() {
	m.mu.Lock()
	m.stopped = true
	started := m.started
	m.mu.Unlock()

	if !started {
		return
	}
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

func (m *HealthMonitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Probe immediately so unreachable backends surface before the first
	// full interval elapses.
	m.sweep()

	for {
		select {
		case <-m.stop:
			m.logger.Info("health monitor stopped")
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep probes every provider once.
func (m *HealthMonitor) sweep() {
	var g errgroup.Group
	g.SetLimit(healthCheckConcurrency)

	for _, p := range m.registry.All() {
		g.Go(func() error {
			m.checkProvider(p)
			return nil
		})
	}
	g.Wait()
}

// checkProvider runs one health check under the per-provider budget and
// applies the result to the registry.
func (m *HealthMonitor) checkProvider(p *Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	healthy := m.safeCheck(ctx, p)
	m.registry.ApplyHealthCheck(p.ID, healthy)
}

// safeCheck runs the adapter health check, converting a panic into an
// unhealthy result so one misbehaving adapter cannot kill the monitor.
func (m *HealthMonitor) safeCheck(ctx context.Context, p *Provider) (healthy bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("health check panicked", "provider", p.ID, "panic", r)
			healthy = false
		}
	}()
	return p.Adapter.CheckHealth(ctx)
}
