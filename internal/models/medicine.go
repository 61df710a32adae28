package models

// Medicine is one stocked item on a vehicle or in the depot.
// Field names follow the document schema used by the collection store.
type Medicine struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location,omitempty"`
	Barcode      string `json:"barcode"`
	SerialNumber string `json:"serialNumber,omitempty"`
	CurrentStock int    `json:"currentStock"`
	MinStock     int    `json:"minStock"`
	PiecesPerBox int    `json:"piecesPerBox"`
	ExpiryDate   string `json:"expiryDate"` // YYYY-MM-DD
	ImageURL     string `json:"imageUrl,omitempty"`
	Notes        string `json:"notes,omitempty"`
	IsBTM        bool   `json:"isBTM,omitempty"` // controlled substance (Betäubungsmittel)
}

// CreateMedicineRequest represents the request body for adding a medicine.
// Quantity is given either as whole boxes or as single units.
type CreateMedicineRequest struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	Barcode      string `json:"barcode"`
	SerialNumber string `json:"serialNumber"`
	MinStock     int    `json:"minStock"`
	PiecesPerBox int    `json:"piecesPerBox"`
	BoxCount     int    `json:"boxCount"`
	SingleUnits  int    `json:"singleUnits"`
	ExpiryDate   string `json:"expiryDate"`
	ImageURL     string `json:"imageUrl"`
	Notes        string `json:"notes"`
	IsBTM        bool   `json:"isBTM"`
}

// DeleteMedicineRequest carries the audit reason for a deletion.
type DeleteMedicineRequest struct {
	Reason string `json:"reason"`
}

// DisposeMedicineRequest identifies who disposed of an expired item.
type DisposeMedicineRequest struct {
	DisposedBy string `json:"disposedBy"`
}
