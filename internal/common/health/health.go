// Package health serves the /q/health liveness and readiness endpoints.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// DefaultTimeout bounds each check run.
const DefaultTimeout = 3 * time.Second

// Check represents a single health check result
type Check struct {
	Name   string         `json:"name"`
	Status Status         `json:"status"`
	Data   map[string]any `json:"data,omitempty"`
}

// HealthResponse represents the health endpoint response
type HealthResponse struct {
	Status Status  `json:"status"`
	Checks []Check `json:"checks,omitempty"`
}

// CheckFunc performs a health check. It must honor ctx.
type CheckFunc func(ctx context.Context) Check

// Checker manages health checks for the application
type Checker struct {
	mu              sync.RWMutex
	timeout         time.Duration
	livenessChecks  []CheckFunc
	readinessChecks []CheckFunc
}

// NewChecker creates a new health checker
func NewChecker() *Checker {
	return &Checker{timeout: DefaultTimeout}
}

// WithTimeout sets the per-run timeout.
func (c *Checker) WithTimeout(d time.Duration) *Checker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
	return c
}

// AddLivenessCheck adds a liveness check
func (c *Checker) AddLivenessCheck(check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.livenessChecks = append(c.livenessChecks, check)
}

// AddReadinessCheck adds a readiness check
func (c *Checker) AddReadinessCheck(check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readinessChecks = append(c.readinessChecks, check)
}

// run executes checks concurrently under the checker timeout. Results keep
// registration order.
func (c *Checker) run(ctx context.Context, checks []CheckFunc) HealthResponse {
	c.mu.RLock()
	timeout := c.timeout
	c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make([]Check, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, check CheckFunc) {
			defer wg.Done()
			results[i] = check(ctx)
		}(i, check)
	}
	wg.Wait()

	response := HealthResponse{Status: StatusUp, Checks: results}
	for _, r := range results {
		if r.Status != StatusUp {
			response.Status = StatusDown
		}
	}
	return response
}

func (c *Checker) snapshot(live, ready bool) []CheckFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []CheckFunc
	if live {
		out = append(out, c.livenessChecks...)
	}
	if ready {
		out = append(out, c.readinessChecks...)
	}
	return out
}

// GetLiveness returns the liveness status
func (c *Checker) GetLiveness(ctx context.Context) HealthResponse {
	return c.run(ctx, c.snapshot(true, false))
}

// GetReadiness returns the readiness status
func (c *Checker) GetReadiness(ctx context.Context) HealthResponse {
	return c.run(ctx, c.snapshot(false, true))
}

// GetHealth returns the combined health status
func (c *Checker) GetHealth(ctx context.Context) HealthResponse {
	return c.run(ctx, c.snapshot(true, true))
}

// HandleHealth handles the /q/health endpoint
func (c *Checker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, c.GetHealth(r.Context()))
}

// HandleLive handles the /q/health/live endpoint
func (c *Checker) HandleLive(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, c.GetLiveness(r.Context()))
}

// HandleReady handles the /q/health/ready endpoint
func (c *Checker) HandleReady(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, c.GetReadiness(r.Context()))
}

func writeResponse(w http.ResponseWriter, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")

	if response.Status == StatusDown {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

// PingCheck reports name as DOWN when ping fails.
func PingCheck(name string, ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) Check {
		if err := ping(ctx); err != nil {
			return Check{Name: name, Status: StatusDown, Data: map[string]any{"error": err.Error()}}
		}
		return Check{Name: name, Status: StatusUp}
	}
}

// MongoDBCheck creates a health check for MongoDB
func MongoDBCheck(ping func(ctx context.Context) error) CheckFunc {
	return PingCheck("MongoDB", ping)
}

// RedisCheck creates a health check for Redis
func RedisCheck(ping func(ctx context.Context) error) CheckFunc {
	return PingCheck("Redis", ping)
}

// NATSCheck creates a health check for NATS
func NATSCheck(isConnected func() bool) CheckFunc {
	return func(context.Context) Check {
		if !isConnected() {
			return Check{Name: "NATS", Status: StatusDown}
		}
		return Check{Name: "NATS", Status: StatusUp}
	}
}

// ServiceCheck reports a lifecycle service's Health.
func ServiceCheck(name string, health func() error) CheckFunc {
	return PingCheck(name, func(context.Context) error { return health() })
}
