package handlers

import (
	"net/http"

	"medstock-backend/internal/health"
	"medstock-backend/internal/syncengine"
	"medstock-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
	Engine  *syncengine.Engine
}

func NewHealthHandler(checker *health.HealthChecker, engine *syncengine.Engine) *HealthHandler {
	return &HealthHandler{Checker: checker, Engine: engine}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// Readiness reports whether the sync engine has gone live for every
// collection, which is what the frontend needs before rendering.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if !h.Engine.IsOnline() {
		utils.JSON(w, http.StatusServiceUnavailable, map[string]any{
			"ready":  false,
			"online": false,
		})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"ready":  true,
		"online": true,
	})
}
