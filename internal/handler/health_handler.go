package handler

import (
	"github.com/gin-gonic/gin"

	"insureport/internal/config"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	backends *config.BackendsConfig
}

func NewHealthHandler(backends *config.BackendsConfig) *HealthHandler {
	return &HealthHandler{backends: backends}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Ready means at least one backend credential
// is configured; which ones are reported for operator visibility.
func (h *HealthHandler) Readiness(c *gin.Context) {
	configured := []string{}
	if h.backends.ModelA.APIKey != "" {
		configured = append(configured, "modelA")
	}
	if h.backends.ModelB.APIKey != "" {
		configured = append(configured, "modelB")
	}
	if h.backends.ModelC.APIKey != "" {
		configured = append(configured, "modelC")
	}

	if len(configured) == 0 {
		RespondError(c, 503, "NO_BACKENDS", "no backend credentials configured")
		return
	}
	RespondOK(c, gin.H{"status": "ready", "backends": configured})
}
