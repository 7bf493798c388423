package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insureport/internal/config"
	"insureport/internal/handler"
)

func setupHealthRouter(backends *config.BackendsConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewHealthHandler(backends)
	r := gin.New()
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
	return r
}

func TestHealthHandler_Liveness(t *testing.T) {
	r := setupHealthRouter(&config.BackendsConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_ReadyWithConfiguredBackends(t *testing.T) {
	r := setupHealthRouter(&config.BackendsConfig{
		ModelA: config.BackendConfig{APIKey: "key-a"},
		ModelC: config.BackendConfig{APIKey: "key-c"},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ready", data["status"])
	assert.ElementsMatch(t, []interface{}{"modelA", "modelC"}, data["backends"])
}

func TestHealthHandler_NotReadyWithoutBackends(t *testing.T) {
	r := setupHealthRouter(&config.BackendsConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NO_BACKENDS", decodeResponse(t, w).Error.Code)
}
