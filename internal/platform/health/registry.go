// Package health probes the user store and its dependencies for the
// readiness endpoint.
package health

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.HealthRegistry = (*Registry)(nil)
	_ ports.HealthChecker  = Checker{}
)

// Registry implements [ports.HealthRegistry]. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	checkers []ports.HealthChecker
	timeout  time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout bounds every individual check. Zero leaves checks bounded
// only by the caller's context.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// New creates an empty health check registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds checker to every later probe.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// Check probes every registered checker concurrently. When two checkers
// share a name, the one registered last is reported.
func (r *Registry) Check(ctx context.Context) ports.HealthReport {
	r.mu.RLock()
	byName := make(map[string]ports.HealthChecker, len(r.checkers))
	for _, c := range r.checkers {
		byName[c.Name()] = c
	}
	r.mu.RUnlock()

	report := ports.HealthReport{Checks: make([]ports.CheckResult, 0, len(byName))}
	for name := range byName {
		report.Checks = append(report.Checks, ports.CheckResult{Name: name})
	}
	slices.SortFunc(report.Checks, func(a, b ports.CheckResult) int { return strings.Compare(a.Name, b.Name) })

	var wg sync.WaitGroup
	for i := range report.Checks {
		res := &report.Checks[i]
		wg.Go(func() {
			start := time.Now()
			res.Err = r.check(ctx, byName[res.Name])
			res.Duration = time.Since(start)
		})
	}
	wg.Wait()
	return report
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return c.HealthCheck(ctx)
}

// Checker adapts a named function to [ports.HealthChecker]. Store backends
// use it to expose connection pings.
type Checker struct {
	name string
	fn   func(ctx context.Context) error
}

// NewChecker returns a Checker reporting under name.
func NewChecker(name string, fn func(ctx context.Context) error) Checker {
	return Checker{name: name, fn: fn}
}

// Name returns the checker's name.
func (c Checker) Name() string { return c.name }

// HealthCheck runs the wrapped function.
func (c Checker) HealthCheck(ctx context.Context) error { return c.fn(ctx) }
