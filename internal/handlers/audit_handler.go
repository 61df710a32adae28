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

type AuditHandler struct {
	Service *services.AuditService
	Engine  *syncengine.Engine
}

func NewAuditHandler(service *services.AuditService, engine *syncengine.Engine) *AuditHandler {
	return &AuditHandler{Service: service, Engine: engine}
}

func (h *AuditHandler) ListAudits(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Engine.Audits())
}

func (h *AuditHandler) SubmitAudit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	auditorID, _ := middleware.GetUserIDFromContext(r.Context())
	audit, err := h.Service.SubmitAudit(r.Context(), auditorID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrMedicineNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, audit)
}

func (h *AuditHandler) ApplyAudit(w http.ResponseWriter, r *http.Request) {
	audit, err := h.Service.ApplyAudit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrAuditNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, audit)
}
