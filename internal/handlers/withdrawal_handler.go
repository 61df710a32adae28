package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"medstock-backend/internal/middleware"
	"medstock-backend/internal/models"
	"medstock-backend/internal/services"
	"medstock-backend/internal/syncengine"
	"medstock-backend/pkg/utils"
)

type WithdrawalHandler struct {
	Service *services.WithdrawalService
	Engine  *syncengine.Engine
}

func NewWithdrawalHandler(service *services.WithdrawalService, engine *syncengine.Engine) *WithdrawalHandler {
	return &WithdrawalHandler{Service: service, Engine: engine}
}

func (h *WithdrawalHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Engine.Withdrawals())
}

func (h *WithdrawalHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req models.FinalizeWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	withdrawals, err := h.Service.Finalize(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVehicleRequired),
			errors.Is(err, services.ErrEmptyCart),
			errors.Is(err, services.ErrInsufficientStock),
			errors.Is(err, services.ErrMedicineNotFound):
			utils.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrNameMismatch),
			errors.Is(err, services.ErrReauthFailed):
			utils.Error(w, http.StatusForbidden, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.JSON(w, http.StatusCreated, withdrawals)
}
