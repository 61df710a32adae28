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

type MedicineHandler struct {
	Service *services.InventoryService
	Engine  *syncengine.Engine
}

func NewMedicineHandler(service *services.InventoryService, engine *syncengine.Engine) *MedicineHandler {
	return &MedicineHandler{Service: service, Engine: engine}
}

func (h *MedicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Engine.Medicines())
}

func (h *MedicineHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	m, ok := h.Engine.Medicine(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusNotFound, "Medicine not found")
		return
	}
	utils.JSON(w, http.StatusOK, m)
}

// SearchByBarcode resolves a scanned barcode or serial number.
func (h *MedicineHandler) SearchByBarcode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	m, ok := h.Service.FindByBarcode(code)
	if !ok {
		utils.Error(w, http.StatusNotFound, "No medicine with this barcode")
		return
	}
	utils.JSON(w, http.StatusOK, m)
}

func (h *MedicineHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	m, err := h.Service.CreateMedicine(r.Context(), req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, m)
}

func (h *MedicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	var m models.Medicine
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	m.ID = mux.Vars(r)["id"]
	if err := h.Service.UpdateMedicine(r.Context(), m); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrMedicineNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, m)
}

func (h *MedicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username, _ := middleware.GetUsernameFromContext(r.Context())
	if err := h.Service.DeleteMedicine(r.Context(), mux.Vars(r)["id"], username, req.Reason); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrMedicineNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Medicine deleted"})
}

func (h *MedicineHandler) DisposeMedicine(w http.ResponseWriter, r *http.Request) {
	var req models.DisposeMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DisposedBy == "" {
		req.DisposedBy, _ = middleware.GetUsernameFromContext(r.Context())
	}
	entry, err := h.Service.Dispose(r.Context(), mux.Vars(r)["id"], req.DisposedBy)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrMedicineNotFound) {
			status = http.StatusNotFound
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}
