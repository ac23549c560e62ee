// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name   string
	pinger Pinger
}

type Handler struct {
	deps     []dependency
	started  time.Time
	ready    atomic.Bool
	shutdown atomic.Bool
}

func NewHandler() *Handler {
	h := &Handler{started: time.Now()}
	h.ready.Store(true)
	return h
}

// AddDependency registers a backing service to probe during readiness.
// Call before the server starts serving.
func (h *Handler) AddDependency(name string, p Pinger) {
	h.deps = append(h.deps, dependency{name: name, pinger: p})
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.write(w, http.StatusServiceUnavailable, statusBody{
			Status: "shutting_down",
			Uptime: time.Since(h.started).String(),
		})
		return
	}

	h.write(w, http.StatusOK, statusBody{
		Status: "ok",
		Uptime: time.Since(h.started).String(),
	})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.write(w, http.StatusServiceUnavailable, readinessBody{
			Status: "shutting_down",
		})
		return
	}

	if !h.ready.Load() {
		h.write(w, http.StatusServiceUnavailable, readinessBody{
			Status: "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.probeAll(ctx)

	status := "ok"
	code := http.StatusOK
	for _, c := range checks {
		if !c.Healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	h.write(w, code, readinessBody{
		Status: status,
		Checks: checks,
	})
}

// probeAll pings every dependency concurrently so a slow one does not
// serialize the rest.
func (h *Handler) probeAll(ctx context.Context) []checkResult {
	results := make([]checkResult, len(h.deps))

	var wg sync.WaitGroup
	for i, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = probe(ctx, dep)
		}()
	}
	wg.Wait()

	return results
}

func probe(ctx context.Context, dep dependency) checkResult {
	result := checkResult{Name: dep.name, Healthy: true}

	if dep.pinger == nil {
		result.Healthy = false
		result.Message = "not configured"
		return result
	}

	start := time.Now()
	err := dep.pinger.Ping(ctx)
	result.Latency = time.Since(start).String()

	if err != nil {
		result.Healthy = false
		result.Message = "ping failed"
	}

	return result
}

func (h *Handler) write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(body)
}

type statusBody struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

type readinessBody struct {
	Status string        `json:"status"`
	Checks []checkResult `json:"checks,omitempty"`
}

type checkResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
