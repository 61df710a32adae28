package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"medstock-backend/internal/models"
	"medstock-backend/internal/services"
	"medstock-backend/internal/syncengine"
	"medstock-backend/pkg/utils"
)

type UserHandler struct {
	Service *services.UserService
	Engine  *syncengine.Engine
}

func NewUserHandler(service *services.UserService, engine *syncengine.Engine) *UserHandler {
	return &UserHandler{Service: service, Engine: engine}
}

// ListUsers returns all accounts with password hashes stripped.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.Engine.Users()
	sanitized := make([]models.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}
	utils.JSON(w, http.StatusOK, sanitized)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.Service.CreateUser(r.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrUsernameTaken) {
			status = http.StatusConflict
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, user.Sanitized())
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.Service.UpdateUser(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrUsernameTaken):
			status = http.StatusConflict
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, user.Sanitized())
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
