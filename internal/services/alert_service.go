package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medstock-backend/internal/models"
	"medstock-backend/internal/syncengine"
)

var ErrAlertNotFound = errors.New("alert not found")

var validAlertStatuses = map[string]bool{
	models.AlertStatusNew:        true,
	models.AlertStatusInProgress: true,
	models.AlertStatusCompleted:  true,
}

type AlertService struct {
	engine *syncengine.Engine
}

func NewAlertService(engine *syncengine.Engine) *AlertService {
	return &AlertService{engine: engine}
}

// Broadcast sends an announcement, optionally targeted at one user.
func (s *AlertService) Broadcast(ctx context.Context, createdBy string, req models.BroadcastAlertRequest) (*models.Alert, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	a := models.Alert{
		ID:           uuid.NewString(),
		Type:         models.AlertTypeBroadcast,
		Status:       models.AlertStatusNew,
		Title:        req.Title,
		Description:  req.Description,
		TargetUserID: req.TargetUserID,
		Link:         req.Link,
		ImageURL:     req.ImageURL,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		CreatedBy:    createdBy,
	}
	if err := s.engine.SaveAlert(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReportIssue raises a problem report about a medicine.
func (s *AlertService) ReportIssue(ctx context.Context, createdBy string, req models.ReportIssueRequest) (*models.Alert, error) {
	m, ok := s.engine.Medicine(req.MedicineID)
	if !ok {
		return nil, ErrMedicineNotFound
	}
	a := models.Alert{
		ID:          uuid.NewString(),
		Type:        models.AlertTypeIssue,
		Status:      models.AlertStatusNew,
		Title:       "Issue: " + m.Name,
		Description: req.Description,
		MedicineID:  m.ID,
		ImageURL:    req.ImageURL,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		CreatedBy:   createdBy,
	}
	if err := s.engine.SaveAlert(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AlertService) UpdateStatus(ctx context.Context, id, status string) (*models.Alert, error) {
	if !validAlertStatuses[status] {
		return nil, fmt.Errorf("invalid alert status %q", status)
	}
	a, ok := s.engine.Alert(id)
	if !ok {
		return nil, ErrAlertNotFound
	}
	a.Status = status
	if err := s.engine.SaveAlert(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AlertService) MarkRead(ctx context.Context, id string) error {
	a, ok := s.engine.Alert(id)
	if !ok {
		return ErrAlertNotFound
	}
	if a.Read {
		return nil
	}
	a.Read = true
	return s.engine.SaveAlert(ctx, a)
}

// PostChatMessage appends to an alert's discussion thread.
func (s *AlertService) PostChatMessage(ctx context.Context, alertID string, sender models.User, text string) (*models.Alert, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("message text is required")
	}
	a, ok := s.engine.Alert(alertID)
	if !ok {
		return nil, ErrAlertNotFound
	}
	a.Chat = append(a.Chat, models.ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		SenderName: sender.FullName,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Text:       text,
	})
	if err := s.engine.SaveAlert(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}
