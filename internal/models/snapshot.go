package models

// StateSnapshot is the full application state as exposed over the API
// and the state WebSocket.
type StateSnapshot struct {
	Medicines    []Medicine           `json:"medicines"`
	Users        []User               `json:"users"`
	Withdrawals  []Withdrawal         `json:"withdrawals"`
	Orders       []Order              `json:"orders"`
	Alerts       []Alert              `json:"alerts"`
	Tasks        []Task               `json:"tasks"`
	Audits       []InventoryAudit     `json:"audits"`
	Disposals    []ExpiredMedicineLog `json:"disposals"`
	DeletionLogs []DeletionLog        `json:"deletionLogs"`
	Deliveries   []Delivery           `json:"deliveries"`
	Settings     AppSettings          `json:"settings"`
	IsOnline     bool                 `json:"isOnline"`
	IsSyncing    bool                 `json:"isSyncing"`
	LastSyncTime string               `json:"lastSyncTime,omitempty"`
}
