package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"medstock-backend/internal/services"
	"medstock-backend/internal/timeutil"
	"medstock-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// WithdrawalPDF streams the withdrawal log. Query params: from/to
// (YYYY-MM-DD, station-local) and btm=true for the register variant.
func (h *ReportHandler) WithdrawalPDF(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.WithdrawalFilter{
		BTMOnly: q.Get("btm") == "true",
	}
	if from := q.Get("from"); from != "" {
		t, err := time.ParseInLocation(timeutil.DateLayout, from, timeutil.Berlin)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
			return
		}
		filter.From = timeutil.StartOfDay(t)
	}
	if to := q.Get("to"); to != "" {
		t, err := time.ParseInLocation(timeutil.DateLayout, to, timeutil.Berlin)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
			return
		}
		filter.To = timeutil.EndOfDay(t)
	}

	pdfBytes, err := h.Service.GenerateWithdrawalPDF(filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := "withdrawal-log"
	if filter.BTMOnly {
		name = "btm-register"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-%s.pdf", name, timeutil.Now().Format(timeutil.DateLayout)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func (h *ReportHandler) InventoryCSV(w http.ResponseWriter, r *http.Request) {
	csvBytes, err := h.Service.GenerateInventoryCSV()
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeCSV(w, "inventory", csvBytes)
}

func (h *ReportHandler) DisposalsCSV(w http.ResponseWriter, r *http.Request) {
	csvBytes, err := h.Service.GenerateDisposalsCSV()
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeCSV(w, "disposals", csvBytes)
}

func (h *ReportHandler) DeliveriesCSV(w http.ResponseWriter, r *http.Request) {
	csvBytes, err := h.Service.GenerateDeliveriesCSV()
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeCSV(w, "deliveries", csvBytes)
}

// AuditPDF streams the count sheet for a single audit.
func (h *ReportHandler) AuditPDF(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	pdfBytes, err := h.Service.GenerateAuditPDF(id)
	if err != nil {
		if errors.Is(err, services.ErrAuditNotFound) {
			utils.Error(w, http.StatusNotFound, "Audit not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=audit-%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func writeCSV(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-%s.csv", name, timeutil.Now().Format(timeutil.DateLayout)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
