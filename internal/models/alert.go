package models

// Alert types.
const (
	AlertTypeLowStock     = "low_stock"
	AlertTypeExpiringSoon = "expiring_soon"
	AlertTypeBroadcast    = "broadcast"
	AlertTypeIssue        = "issue_report"
)

// Alert statuses.
const (
	AlertStatusNew        = "new"
	AlertStatusInProgress = "in_progress"
	AlertStatusCompleted  = "completed"
)

// ChatMessage is one entry in an alert's discussion thread.
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Timestamp  string `json:"timestamp"`
	Text       string `json:"text"`
}

// Alert is a derived or user-raised notification.
type Alert struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Status       string        `json:"status"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Read         bool          `json:"read"`
	MedicineID   string        `json:"medicineId,omitempty"`
	TargetUserID string        `json:"targetUserId,omitempty"`
	Link         string        `json:"link,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	Timestamp    string        `json:"timestamp"`
	CreatedBy    string        `json:"createdBy,omitempty"`
	Chat         []ChatMessage `json:"chat,omitempty"`
}

// Open reports whether the alert still demands attention.
func (a Alert) Open() bool {
	return a.Status != AlertStatusCompleted
}

// BroadcastAlertRequest represents the request body for an announcement.
type BroadcastAlertRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TargetUserID string `json:"targetUserId"`
	Link         string `json:"link"`
	ImageURL     string `json:"imageUrl"`
}

// ReportIssueRequest raises an issue alert about a medicine.
type ReportIssueRequest struct {
	MedicineID  string `json:"medicineId"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// PostChatMessageRequest appends to an alert's thread.
type PostChatMessageRequest struct {
	Text string `json:"text"`
}

// UpdateAlertStatusRequest moves an alert through its lifecycle.
type UpdateAlertStatusRequest struct {
	Status string `json:"status"`
}
