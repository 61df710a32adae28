package models

// Order statuses.
const (
	OrderStatusPending    = "Pending"
	OrderStatusOrdered    = "Ordered"
	OrderStatusInProgress = "InProgress"
	OrderStatusDelivered  = "Delivered"
)

// Order is a pending restock for one medicine.
type Order struct {
	ID           string `json:"id"`
	MedicineID   string `json:"medicineId"`
	MedicineName string `json:"medicineName"`
	Quantity     int    `json:"quantity"`
	Status       string `json:"status"`
	RequestedAt  string `json:"requestedAt"`
	RequestedBy  string `json:"requestedBy,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// CreateOrderRequest represents the request body for a manual order.
type CreateOrderRequest struct {
	MedicineID string `json:"medicineId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// CompleteDeliveryRequest books a delivered order into stock. Quantity
// is the actually delivered amount; zero means the ordered quantity.
type CompleteDeliveryRequest struct {
	Quantity   int    `json:"quantity"`
	ExpiryDate string `json:"expiryDate"`
	MinStock   int    `json:"minStock"`
	ReceivedBy string `json:"receivedBy"`
}
