package handlers

import (
	"encoding/json"
	"net/http"

	"medstock-backend/internal/models"
	"medstock-backend/internal/syncengine"
	"medstock-backend/pkg/utils"
)

type SettingHandler struct {
	Engine *syncengine.Engine
}

func NewSettingHandler(engine *syncengine.Engine) *SettingHandler {
	return &SettingHandler{Engine: engine}
}

func (h *SettingHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Engine.Settings())
}

// UpdateSettings replaces the singleton app settings document.
func (h *SettingHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.AppSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AppName == "" {
		utils.Error(w, http.StatusBadRequest, "appName is required")
		return
	}
	if err := h.Engine.UpdateSettings(r.Context(), req); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, req)
}
