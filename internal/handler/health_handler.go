package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Probe checks one backing dependency, e.g. the Postgres pool.
type Probe func(ctx context.Context) error

const probeTimeout = 2 * time.Second

// HealthHandler reports liveness, the storage backend and the state of each probe.
type HealthHandler struct {
	store   string
	probes  map[string]Probe
	started time.Time
}

func NewHealthHandler(store string, probes map[string]Probe) *HealthHandler {
	return &HealthHandler{store: store, probes: probes, started: time.Now()}
}

// Health answers 503 when any probe fails.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	status, state := http.StatusOK, "ok"
	checks := make(gin.H, len(names))
	for _, name := range names {
		if err := h.probes[name](ctx); err != nil {
			checks[name] = err.Error()
			status, state = http.StatusServiceUnavailable, "degraded"
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(status, gin.H{
		"status": state,
		"store":  h.store,
		"uptime": time.Since(h.started).Round(time.Second).String(),
		"checks": checks,
	})
}
