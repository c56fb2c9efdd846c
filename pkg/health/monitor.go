// Package health runs periodic dependency checks and exposes the result
// over HTTP snapshots and the standard gRPC health protocol.
package health

import (
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusUnhealthy:
		return "UNHEALTHY"
	case StatusDegraded:
		return "DEGRADED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Name         string        `json:"name"`
	Status       Status        `json:"status"`
	Critical     bool          `json:"critical"`
	Latency      time.Duration `json:"latencyNs"`
	LastCheck    time.Time     `json:"lastCheck"`
	LastError    string        `json:"error,omitempty"`
	CheckCount   int           `json:"checkCount"`
	FailureCount int           `json:"failureCount"`
}

// CheckFunc reports a dependency as healthy by returning nil.
type CheckFunc func(ctx context.Context) error

type checker struct {
	name     string
	critical bool
	fn       CheckFunc
}

func (c checker) check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Name: c.name, Critical: c.critical, LastCheck: start.UTC()}

	err := c.fn(ctx)
	result.Latency = time.Since(start)
	switch {
	case err == nil:
		result.Status = StatusHealthy
	case c.critical:
		result.Status = StatusUnhealthy
		result.LastError = err.Error()
	default:
		result.Status = StatusDegraded
		result.LastError = err.Error()
	}
	return result
}

// Report is the aggregated view served to probes.
type Report struct {
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks"`
}

// Monitor manages periodic health checks
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]checker
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	server   *grpchealth.Server
	cancel   context.CancelFunc
	running  bool
}

// NewMonitor creates a new health monitor
func NewMonitor(interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Monitor{
		checkers: make(map[string]checker),
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  5 * time.Second,
		logger:   logger,
		server:   grpchealth.NewServer(),
	}
}

// Register adds a named check. A failing critical check makes the whole
// service unhealthy; a failing optional one only degrades it.
func (m *Monitor) Register(name string, critical bool, fn CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = checker{name: name, critical: critical, fn: fn}
	m.server.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_UNKNOWN)

	m.logger.Info("Registered health checker",
		zap.String("name", name),
		zap.Bool("critical", critical),
	)
}

// Start runs the checks until ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	m.mu.Unlock()

	go m.runChecks(ctx)
}

// Stop stops the health monitor
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.running = false
	m.cancel()
	m.server.Shutdown()
}

func (m *Monitor) runChecks(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll runs every checker once and returns the aggregated report.
func (m *Monitor) CheckAll(ctx context.Context) Report {
	m.mu.RLock()
	checkers := make([]checker, 0, len(m.checkers))
	for _, c := range m.checkers {
		checkers = append(checkers, c)
	}
	m.mu.RUnlock()

	for _, c := range checkers {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		result := c.check(checkCtx)
		cancel()

		m.mu.Lock()
		if existing, ok := m.results[c.name]; ok {
			result.CheckCount = existing.CheckCount + 1
			result.FailureCount = existing.FailureCount
		} else {
			result.CheckCount = 1
		}
		if result.Status != StatusHealthy {
			result.FailureCount++
		}
		m.results[c.name] = &result
		m.mu.Unlock()

		m.server.SetServingStatus(c.name, servingStatus(result.Status))

		if result.Status != StatusHealthy {
			m.logger.Warn("Health check failed",
				zap.String("name", c.name),
				zap.String("status", result.Status.String()),
				zap.Duration("latency", result.Latency),
				zap.String("error", result.LastError),
			)
		}
	}

	report := m.Report()
	m.server.SetServingStatus("", servingStatus(report.Status))
	return report
}

func servingStatus(s Status) grpc_health_v1.HealthCheckResponse_ServingStatus {
	switch s {
	case StatusHealthy, StatusDegraded:
		return grpc_health_v1.HealthCheckResponse_SERVING
	case StatusUnhealthy:
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	default:
		return grpc_health_v1.HealthCheckResponse_UNKNOWN
	}
}

// Report aggregates the latest results without running checks.
func (m *Monitor) Report() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report := Report{Status: StatusHealthy, Checks: make([]CheckResult, 0, len(m.results))}
	if len(m.results) == 0 {
		report.Status = StatusUnknown
	}
	for _, r := range m.results {
		report.Checks = append(report.Checks, *r)
		switch {
		case r.Status == StatusUnhealthy:
			report.Status = StatusUnhealthy
		case r.Status != StatusHealthy && report.Status == StatusHealthy:
			report.Status = StatusDegraded
		}
	}
	sort.Slice(report.Checks, func(i, j int) bool { return report.Checks[i].Name < report.Checks[j].Name })
	return report
}

// GetResult gets the latest result for a named check
func (m *Monitor) GetResult(name string) (CheckResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, ok := m.results[name]
	if !ok {
		return CheckResult{}, false
	}
	return *result, true
}

// HealthServer exposes the grpc_health_v1 implementation.
func (m *Monitor) HealthServer() *grpchealth.Server {
	return m.server
}

// Serve exposes the health service on addr until ctx is cancelled.
func (m *Monitor) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, m.server)

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	m.logger.Info("gRPC health server listening", zap.String("addr", lis.Addr().String()))
	return srv.Serve(lis)
}
