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

type OrderHandler struct {
	Service *services.OrderService
	Engine  *syncengine.Engine
}

func NewOrderHandler(service *services.OrderService, engine *syncengine.Engine) *OrderHandler {
	return &OrderHandler{Service: service, Engine: engine}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Engine.Orders())
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username, _ := middleware.GetUsernameFromContext(r.Context())
	order, err := h.Service.CreateOrder(r.Context(), username, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrMedicineNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.Service.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrOrderNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CompleteDelivery(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ReceivedBy == "" {
		req.ReceivedBy, _ = middleware.GetUsernameFromContext(r.Context())
	}
	delivery, err := h.Service.CompleteDelivery(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrOrderNotFound) || errors.Is(err, services.ErrMedicineNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, delivery)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.Engine.Order(id); !ok {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	if err := h.Engine.DeleteOrder(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}
