package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"medstock-backend/internal/middleware"
	"medstock-backend/internal/models"
	"medstock-backend/internal/services"
	"medstock-backend/internal/syncengine"
	"medstock-backend/pkg/utils"
)

type AlertHandler struct {
	Service *services.AlertService
	Engine  *syncengine.Engine
}

func NewAlertHandler(service *services.AlertService, engine *syncengine.Engine) *AlertHandler {
	return &AlertHandler{Service: service, Engine: engine}
}

func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Engine.Alerts())
}

func (h *AlertHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req models.BroadcastAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username, _ := middleware.GetUsernameFromContext(r.Context())
	alert, err := h.Service.Broadcast(r.Context(), username, req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, alert)
}

func (h *AlertHandler) ReportIssue(w http.ResponseWriter, r *http.Request) {
	var req models.ReportIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username, _ := middleware.GetUsernameFromContext(r.Context())
	alert, err := h.Service.ReportIssue(r.Context(), username, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrMedicineNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, alert)
}

func (h *AlertHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAlertStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	alert, err := h.Service.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrAlertNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, alert)
}

func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.MarkRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrAlertNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Alert marked read"})
}

func (h *AlertHandler) PostChatMessage(w http.ResponseWriter, r *http.Request) {
	var req models.PostChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	sender, ok := h.Engine.User(userID)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	alert, err := h.Service.PostChatMessage(r.Context(), mux.Vars(r)["id"], sender, req.Text)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrAlertNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, alert)
}
