package common

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of the liveness and readiness endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// CheckFunc probes a single dependency
type CheckFunc func(ctx context.Context) error

// HealthCheck answers liveness probes without touching dependencies
func HealthCheck(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: statusHealthy, Service: serviceName, Version: version})
	}
}

// HealthCheckWithDeps answers readiness probes. Checks run concurrently and any
// failure turns the response into a 503 that names the failing dependency.
func HealthCheckWithDeps(serviceName, version string, checks map[string]CheckFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		results := runChecks(c.Request.Context(), checks)

		resp := HealthResponse{Status: statusHealthy, Service: serviceName, Version: version, Checks: results}
		code := http.StatusOK
		for _, r := range results {
			if r != statusHealthy {
				resp.Status = statusUnhealthy
				code = http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(code, resp)
	}
}

func runChecks(ctx context.Context, checks map[string]CheckFunc) map[string]string {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(checks))
	)
	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()
			state := statusHealthy
			if err := check(ctx); err != nil {
				state = statusUnhealthy + ": " + err.Error()
			}
			mu.Lock()
			results[name] = state
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return results
}
