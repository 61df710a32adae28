package services

import (
	"context"
	"errors"
	"testing"

	"medstock-backend/internal/models"
)

func TestTaskLifecycle(t *testing.T) {
	e := newTestEngine(t)
	svc := NewTaskService(e)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "erika", models.CreateTaskRequest{
		Title:      "Count BTM safe",
		Type:       models.TaskTypeAudit,
		AssignedTo: "user-max",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != models.TaskStatusPending || task.CreatedBy != "erika" {
		t.Fatalf("unexpected task %+v", task)
	}

	done, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.TaskStatusCompleted || done.CompletedAt == "" {
		t.Fatalf("unexpected completed task %+v", done)
	}

	// Completing twice is a no-op.
	again, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("complete twice: %v", err)
	}
	if again.CompletedAt != done.CompletedAt {
		t.Fatal("expected completion timestamp to stay put")
	}

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(e.Tasks()) != 0 {
		t.Fatal("expected task removed")
	}
	if err := svc.DeleteTask(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	e := newTestEngine(t)
	svc := NewTaskService(e)
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, "erika", models.CreateTaskRequest{Title: " "}); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := svc.CreateTask(ctx, "erika", models.CreateTaskRequest{Title: "x", Type: "bogus"}); err == nil {
		t.Fatal("expected error for invalid type")
	}

	// Missing type defaults to general.
	task, err := svc.CreateTask(ctx, "erika", models.CreateTaskRequest{Title: "Wipe shelves"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Type != models.TaskTypeGeneral {
		t.Fatalf("expected general type, got %q", task.Type)
	}
}
