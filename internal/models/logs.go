package models

// ExpiredMedicineLog records the disposal of an expired item.
type ExpiredMedicineLog struct {
	ID           string `json:"id"`
	MedicineID   string `json:"medicineId"`
	MedicineName string `json:"medicineName"`
	Quantity     int    `json:"quantity"`
	ExpiryDate   string `json:"expiryDate"`
	DisposedBy   string `json:"disposedBy"`
	Timestamp    string `json:"timestamp"`
}

// DeletionLog records who removed a medicine and why.
type DeletionLog struct {
	ID           string `json:"id"`
	MedicineID   string `json:"medicineId"`
	MedicineName string `json:"medicineName"`
	DeletedBy    string `json:"deletedBy"`
	Reason       string `json:"reason"`
	Timestamp    string `json:"timestamp"`
}

// Delivery records a completed restock booking.
type Delivery struct {
	ID           string `json:"id"`
	OrderID      string `json:"orderId"`
	MedicineID   string `json:"medicineId"`
	MedicineName string `json:"medicineName"`
	Quantity     int    `json:"quantity"`
	ReceivedBy   string `json:"receivedBy"`
	Timestamp    string `json:"timestamp"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	MinStockSet  int    `json:"minStockSet,omitempty"`
}
