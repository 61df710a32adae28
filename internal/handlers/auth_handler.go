package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"medstock-backend/internal/auth"
	"medstock-backend/internal/cache"
	"medstock-backend/internal/middleware"
	"medstock-backend/internal/models"
	"medstock-backend/internal/services"
	"medstock-backend/internal/syncengine"
	"medstock-backend/pkg/utils"
)

type AuthHandler struct {
	Service    *services.UserService
	JWTManager *auth.JWTManager
	Engine     *syncengine.Engine
}

func NewAuthHandler(service *services.UserService, jwtManager *auth.JWTManager, engine *syncengine.Engine) *AuthHandler {
	return &AuthHandler{Service: service, JWTManager: jwtManager, Engine: engine}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Service.Login(req)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Logout revokes the presented token until its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		if claims, err := h.JWTManager.ValidateToken(authHeader[7:]); err == nil && claims.ExpiresAt != nil {
			cache.RevokeToken(r.Context(), claims.ID, time.Until(claims.ExpiresAt.Time))
		}
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	user, ok := h.Engine.User(userID)
	if !ok {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}
	utils.JSON(w, http.StatusOK, user.Sanitized())
}
