package models

// AuditItem is one counted medicine within an inventory audit.
type AuditItem struct {
	MedicineID  string `json:"medicineId"`
	ExpectedQty int    `json:"expectedQty"`
	ActualQty   int    `json:"actualQty"`
	Difference  int    `json:"difference"`
}

// InventoryAudit is a completed physical stock count. Immutable once
// submitted.
type InventoryAudit struct {
	ID        string      `json:"id"`
	AuditorID string      `json:"auditorId"`
	Timestamp string      `json:"timestamp"`
	Items     []AuditItem `json:"items"`
	Notes     string      `json:"notes,omitempty"`
}

// Discrepancies counts items whose actual quantity differs from the
// expected one.
func (a InventoryAudit) Discrepancies() int {
	n := 0
	for _, it := range a.Items {
		if it.Difference != 0 {
			n++
		}
	}
	return n
}

// SubmitAuditRequest represents the request body for recording an audit.
type SubmitAuditRequest struct {
	Items []SubmitAuditItem `json:"items"`
	Notes string            `json:"notes"`
}

// SubmitAuditItem is one counted line in an audit submission.
type SubmitAuditItem struct {
	MedicineID string `json:"medicineId"`
	ActualQty  int    `json:"actualQty"`
}
