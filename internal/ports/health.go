package ports

import (
	"context"
	"time"
)

// HealthChecker reports whether one dependency of the user store can serve
// requests: a database connection, the Redis cache, or the downstream
// Users API.
type HealthChecker interface {
	// Name identifies the dependency in readiness reports, e.g. "sqlite".
	Name() string

	// HealthCheck returns nil when the dependency is usable. It must give up
	// when ctx is done.
	HealthCheck(ctx context.Context) error
}

// CheckResult is the outcome of one HealthChecker during a probe.
type CheckResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// HealthReport collects the results of one readiness probe, ordered by name.
type HealthReport struct {
	Checks []CheckResult
}

// Healthy reports whether every check passed. An empty report is healthy.
func (r HealthReport) Healthy() bool {
	for _, c := range r.Checks {
		if c.Err != nil {
			return false
		}
	}
	return true
}

// Result returns the named check's result.
func (r HealthReport) Result(name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// HealthRegistry holds the checkers registered at start-up and probes them
// for the readiness endpoint.
type HealthRegistry interface {
	Register(checker HealthChecker)
	Check(ctx context.Context) HealthReport
}
