package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"medstock-backend/internal/models"
	"medstock-backend/internal/syncengine"
	"medstock-backend/internal/timeutil"
)

// ReportService renders withdrawal logs and inventory exports from the
// snapshot.
type ReportService struct {
	engine *syncengine.Engine
}

func NewReportService(engine *syncengine.Engine) *ReportService {
	return &ReportService{engine: engine}
}

// WithdrawalFilter narrows the withdrawal report.
type WithdrawalFilter struct {
	From    time.Time // zero means unbounded
	To      time.Time
	BTMOnly bool
}

func (f WithdrawalFilter) matches(w models.Withdrawal) bool {
	if f.BTMOnly && !w.IsBTM {
		return false
	}
	ts, err := time.Parse(time.RFC3339, w.Timestamp)
	if err != nil {
		return true
	}
	if !f.From.IsZero() && ts.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && ts.After(f.To) {
		return false
	}
	return true
}

// GenerateWithdrawalPDF renders the withdrawal log, newest first. The
// BTM-only variant is the controlled-substance register.
func (s *ReportService) GenerateWithdrawalPDF(filter WithdrawalFilter) ([]byte, error) {
	withdrawals := s.engine.Withdrawals()
	filtered := withdrawals[:0]
	for _, w := range withdrawals {
		if filter.matches(w) {
			filtered = append(filtered, w)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Timestamp > filtered[j].Timestamp
	})

	settings := s.engine.Settings()
	title := fmt.Sprintf("%s - Withdrawal Log", settings.AppName)
	if filter.BTMOnly {
		title = fmt.Sprintf("%s - BTM Register", settings.AppName)
	}

	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for more columns
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(32, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Medicine", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Before", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "After", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Withdrawn By", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Vehicle", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Incident", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Signature", "1", 1, "C", true, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 9)
	for _, w := range filtered {
		date := w.Timestamp
		if ts, err := time.Parse(time.RFC3339, w.Timestamp); err == nil {
			date = timeutil.ToLocal(ts).Format(timeutil.DisplayLayout)
		}
		name := w.MedicineName
		if w.IsBTM {
			name = name + " (BTM)"
		}
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		sig := w.Signature
		if len(sig) > 20 {
			sig = sig[:17] + "..."
		}
		pdf.CellFormat(32, 6, date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, strconv.Itoa(w.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(w.StockBefore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(w.StockAfter), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, w.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, w.Vehicle, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, w.IncidentNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, sig, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(277, 7, fmt.Sprintf("Total entries: %d", len(filtered)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render withdrawal pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateAuditPDF renders a single inventory audit as a signed count
// sheet. Returns ErrAuditNotFound for unknown ids.
func (s *ReportService) GenerateAuditPDF(auditID string) ([]byte, error) {
	var audit models.InventoryAudit
	found := false
	for _, a := range s.engine.Audits() {
		if a.ID == auditID {
			audit = a
			found = true
			break
		}
	}
	if !found {
		return nil, ErrAuditNotFound
	}

	names := make(map[string]string)
	for _, m := range s.engine.Medicines() {
		names[m.ID] = m.Name
	}
	auditor := audit.AuditorID
	if u, ok := s.engine.User(audit.AuditorID); ok {
		auditor = u.FullName
	}

	settings := s.engine.Settings()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, fmt.Sprintf("%s - Inventory Audit", settings.AppName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	date := audit.Timestamp
	if ts, err := time.Parse(time.RFC3339, audit.Timestamp); err == nil {
		date = timeutil.ToLocal(ts).Format(timeutil.DisplayLayout)
	}
	pdf.CellFormat(190, 6, fmt.Sprintf("Auditor: %s    Date: %s", auditor, date), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(90, 7, "Medicine", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Expected", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Counted", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Difference", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, it := range audit.Items {
		name := names[it.MedicineID]
		if name == "" {
			name = it.MedicineID
		}
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		pdf.CellFormat(90, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(it.ExpectedQty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(it.ActualQty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, strconv.Itoa(it.Difference), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(190, 7, fmt.Sprintf("Items counted: %d    Discrepancies: %d", len(audit.Items), audit.Discrepancies()), "", 1, "R", false, 0, "")
	if audit.Notes != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 6, fmt.Sprintf("Notes: %s", audit.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render audit pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateInventoryCSV exports the current medicines snapshot.
func (s *ReportService) GenerateInventoryCSV() ([]byte, error) {
	medicines := s.engine.Medicines()
	sort.Slice(medicines, func(i, j int) bool {
		return medicines[i].Name < medicines[j].Name
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "name", "location", "barcode", "serialNumber", "currentStock", "minStock", "piecesPerBox", "expiryDate", "isBTM"})
	for _, m := range medicines {
		w.Write([]string{
			m.ID, m.Name, m.Location, m.Barcode, m.SerialNumber,
			strconv.Itoa(m.CurrentStock), strconv.Itoa(m.MinStock),
			strconv.Itoa(m.PiecesPerBox), m.ExpiryDate,
			strconv.FormatBool(m.IsBTM),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write inventory csv: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateDisposalsCSV exports the expired-medicine disposal log, newest
// first.
func (s *ReportService) GenerateDisposalsCSV() ([]byte, error) {
	disposals := s.engine.Snapshot().Disposals
	sort.Slice(disposals, func(i, j int) bool {
		return disposals[i].Timestamp > disposals[j].Timestamp
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "medicineId", "medicineName", "quantity", "expiryDate", "disposedBy", "timestamp"})
	for _, d := range disposals {
		w.Write([]string{
			d.ID, d.MedicineID, d.MedicineName, strconv.Itoa(d.Quantity),
			d.ExpiryDate, d.DisposedBy, d.Timestamp,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write disposals csv: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateDeliveriesCSV exports completed restock bookings, newest first.
func (s *ReportService) GenerateDeliveriesCSV() ([]byte, error) {
	deliveries := s.engine.Snapshot().Deliveries
	sort.Slice(deliveries, func(i, j int) bool {
		return deliveries[i].Timestamp > deliveries[j].Timestamp
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "orderId", "medicineId", "medicineName", "quantity", "receivedBy", "timestamp"})
	for _, d := range deliveries {
		w.Write([]string{
			d.ID, d.OrderID, d.MedicineID, d.MedicineName,
			strconv.Itoa(d.Quantity), d.ReceivedBy, d.Timestamp,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write deliveries csv: %w", err)
	}
	return buf.Bytes(), nil
}
