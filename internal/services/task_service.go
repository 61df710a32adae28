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

var ErrTaskNotFound = errors.New("task not found")

var validTaskTypes = map[string]bool{
	models.TaskTypeGeneral: true,
	models.TaskTypeAudit:   true,
	models.TaskTypeUrgent:  true,
}

type TaskService struct {
	engine *syncengine.Engine
}

func NewTaskService(engine *syncengine.Engine) *TaskService {
	return &TaskService{engine: engine}
}

func (s *TaskService) CreateTask(ctx context.Context, createdBy string, req models.CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	taskType := req.Type
	if taskType == "" {
		taskType = models.TaskTypeGeneral
	}
	if !validTaskTypes[taskType] {
		return nil, fmt.Errorf("invalid task type %q", taskType)
	}

	t := models.Task{
		ID:          uuid.NewString(),
		Type:        taskType,
		Status:      models.TaskStatusPending,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		DueDate:     req.DueDate,
	}
	if err := s.engine.SaveTask(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	t, ok := s.engine.Task(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if t.Status == models.TaskStatusCompleted {
		return &t, nil
	}
	t.Status = models.TaskStatusCompleted
	t.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.engine.SaveTask(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if _, ok := s.engine.Task(id); !ok {
		return ErrTaskNotFound
	}
	return s.engine.DeleteTask(ctx, id)
}
