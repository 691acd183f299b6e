package http

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// Probe reports whether one dependency is reachable
type Probe func(ctx context.Context) error

// DependencyHealth is the result of a single probe
type DependencyHealth struct {
	Name    string  `json:"name"`
	Status  string  `json:"status"` // healthy, unhealthy
	Latency float64 `json:"latency_ms"`
	Error   string  `json:"error,omitempty"`
}

// ReadinessReport aggregates every probe
type ReadinessReport struct {
	Status       string             `json:"status"` // healthy, degraded, unhealthy
	Dependencies []DependencyHealth `json:"dependencies"`
	Uptime       float64            `json:"uptime_seconds"`
}

// HealthChecker probes the service's backing stores
type HealthChecker struct {
	mu        sync.RWMutex
	probes    map[string]Probe
	timeout   time.Duration
	startTime time.Time
}

// NewHealthChecker creates a checker whose probes each get timeout
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	return &HealthChecker{
		probes:    make(map[string]Probe),
		timeout:   timeout,
		startTime: time.Now(),
	}
}

// Register adds a named probe, replacing any previous one with that name
func (h *HealthChecker) Register(name string, probe Probe) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes[name] = probe
}

// Check runs every probe concurrently
func (h *HealthChecker) Check(ctx context.Context) ReadinessReport {
	h.mu.RLock()
	probes := make(map[string]Probe, len(h.probes))
	for name, p := range h.probes {
		probes[name] = p
	}
	h.mu.RUnlock()

	results := make([]DependencyHealth, 0, len(probes))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, probe := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := h.run(ctx, name, probe)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()

			if result.Status != "healthy" {
				logger.Warn(ctx).
					Str("dependency", name).
					Str("error", result.Error).
					Msg("Dependency health check failed")
			}
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	return ReadinessReport{
		Status:       overallStatus(results),
		Dependencies: results,
		Uptime:       time.Since(h.startTime).Seconds(),
	}
}

func (h *HealthChecker) run(ctx context.Context, name string, probe Probe) DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	result := DependencyHealth{
		Name:    name,
		Status:  "healthy",
		Latency: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		result.Status = "unhealthy"
		result.Error = err.Error()
	}
	return result
}

func overallStatus(results []DependencyHealth) string {
	healthy := 0
	for _, r := range results {
		if r.Status == "healthy" {
			healthy++
		}
	}
	switch {
	case healthy == len(results):
		return "healthy"
	case healthy > 0:
		return "degraded"
	default:
		return "unhealthy"
	}
}

// Ready handles GET /health/ready
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} ReadinessReport
// @Failure 503 {object} ReadinessReport
// @Router /health/ready [get]
func (h *HealthChecker) Ready(w http.ResponseWriter, r *http.Request) {
	report := h.Check(r.Context())
	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, report)
}
