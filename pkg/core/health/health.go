// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     health
// Description: Health check registry for the parse service. Reports are
//              published to the standard gRPC health service.
// License:     Apache-2.0
// ============================================================================

package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Checker is an interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type namedCheck struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &namedCheck{name: name, fn: fn}
}

func (c *namedCheck) Name() string {
	return c.name
}

func (c *namedCheck) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// ErrorCheck adapts a function that only fails or succeeds. A failure
// reports unhealthy unless degraded is set.
func ErrorCheck(name string, degraded bool, fn func(ctx context.Context) error) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		if err := fn(ctx); err != nil {
			status := StatusUnhealthy
			if degraded {
				status = StatusDegraded
			}
			return CheckResult{Name: name, Status: status, Message: err.Error()}
		}
		return CheckResult{Name: name, Status: StatusHealthy}
	})
}

// Registry manages multiple health checkers
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
	startAt  time.Time
}

// NewRegistry creates a new health check registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
		startAt:  time.Now(),
	}
}

// Register adds a checker to the registry, replacing one with the same name
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Unregister removes a checker from the registry
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}

// Check runs all checks concurrently and returns the overall status.
// Checks are sorted by name in the report.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Uptime:    time.Since(r.startAt),
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, len(checkers)),
	}

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()
			if result.Name == "" {
				result.Name = c.Name()
			}
			report.Checks[i] = result
		}(i, checker)
	}
	wg.Wait()

	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})

	report.Status = StatusHealthy
	for _, result := range report.Checks {
		switch result.Status {
		case StatusUnhealthy:
			report.Status = StatusUnhealthy
		case StatusDegraded:
			if report.Status != StatusUnhealthy {
				report.Status = StatusDegraded
			}
		}
	}
	return report
}

// CheckWithTimeout runs all health checks with a timeout
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

// Report represents the overall health report
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

func (r *Report) String() string {
	return fmt.Sprintf("Service: %s, Status: %s, Uptime: %v, Checks: %d",
		r.Service, r.Status, r.Uptime.Round(time.Second), len(r.Checks))
}

// ServingStatus maps a report status onto the gRPC health protocol.
// Degraded still serves.
func ServingStatus(s Status) healthpb.HealthCheckResponse_ServingStatus {
	switch s {
	case StatusHealthy, StatusDegraded:
		return healthpb.HealthCheckResponse_SERVING
	case StatusUnhealthy:
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_UNKNOWN
}

// Publisher keeps a gRPC health server in sync with a registry
type Publisher struct {
	registry *Registry
	server   *grpchealth.Server
	names    []string
	interval time.Duration
	timeout  time.Duration
	logger   *aslog.Logger
	last     Status
}

// NewPublisher publishes the registry under the overall service name ""
// and under each of names.
func NewPublisher(registry *Registry, server *grpchealth.Server, interval time.Duration, logger *aslog.Logger, names ...string) *Publisher {
	if logger == nil {
		logger = aslog.GetDefault()
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Publisher{
		registry: registry,
		server:   server,
		names:    append([]string{""}, names...),
		interval: interval,
		timeout:  interval / 2,
		logger:   logger.WithField("component", "health"),
		last:     StatusUnknown,
	}
}

// Publish runs the checks once and updates the serving status
func (p *Publisher) Publish(ctx context.Context) *Report {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	report := p.registry.Check(ctx)
	for _, name := range p.names {
		p.server.SetServingStatus(name, ServingStatus(report.Status))
	}
	if report.Status != p.last {
		p.logger.Info("Health status changed", aslog.Fields{
			"from": string(p.last),
			"to":   string(report.Status),
		})
		p.last = report.Status
	}
	return report
}

// Run publishes until ctx is done, then marks every name as not serving
func (p *Publisher) Run(ctx context.Context) {
	p.Publish(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.server.Shutdown()
			return
		case <-ticker.C:
			p.Publish(ctx)
		}
	}
}
