package models

// Withdrawal is one finalized stock removal of a single medicine.
type Withdrawal struct {
	ID             string `json:"id"`
	MedicineID     string `json:"medicineId"`
	MedicineName   string `json:"medicineName"`
	Quantity       int    `json:"quantity"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	Vehicle        string `json:"vehicle"`
	IncidentNumber string `json:"incidentNumber,omitempty"`
	Timestamp      string `json:"timestamp"` // RFC 3339
	StockBefore    int    `json:"stockBefore"`
	StockAfter     int    `json:"stockAfter"`
	Signature      string `json:"signature"`
	IsBTM          bool   `json:"isBTM,omitempty"`
}

// WithdrawalLine is one cart entry in a finalization request.
type WithdrawalLine struct {
	MedicineID string `json:"medicineId"`
	Quantity   int    `json:"quantity"`
}

// FinalizeWithdrawalRequest represents the request body for finalizing
// a withdrawal cart. Username and Password re-authenticate the person
// named in FullName.
type FinalizeWithdrawalRequest struct {
	Lines          []WithdrawalLine `json:"lines"`
	Vehicle        string           `json:"vehicle"`
	FullName       string           `json:"fullName"`
	IncidentNumber string           `json:"incidentNumber"`
	Username       string           `json:"username"`
	Password       string           `json:"password"`
}
