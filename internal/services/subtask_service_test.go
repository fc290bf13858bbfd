package services_test

import (
	"context"
	"errors"
	"testing"

	"taskmanager/internal/apperr"
	"taskmanager/internal/models"
	"taskmanager/internal/services"
	"taskmanager/internal/testutil"
)

func newSubTaskService() (services.SubTaskService, *testutil.TaskRepo, *testutil.SubTaskRepo, *testutil.RecordingNotifier) {
	tasks := testutil.NewTaskRepo()
	subtasks := testutil.NewSubTaskRepo(tasks)
	notifier := &testutil.RecordingNotifier{}
	return services.NewSubTaskService(subtasks, tasks, notifier, clock), tasks, subtasks, notifier
}

func ptr(v int64) *int64 { return &v }

func TestSubTaskServiceCreate(t *testing.T) {
	svc, tasks, _, notifier := newSubTaskService()
	parent := tasks.Add(models.Task{Title: "parent", Status: models.StatusNew, Deadline: fixedNow})

	st, err := svc.Create(context.Background(), services.SubTaskInput{
		TaskID:   ptr(parent.ID),
		Title:    "child",
		Deadline: "2025-06-10T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.ID == 0 || *st.TaskID != parent.ID || st.Status != models.StatusNew || !st.CreatedAt.Equal(fixedNow) {
		t.Errorf("subtask = %+v", st)
	}
	if len(notifier.SubTasks) != 1 {
		t.Errorf("notifier got %d subtasks", len(notifier.SubTasks))
	}
}

func TestSubTaskServiceCreateRejectsUnknownParent(t *testing.T) {
	svc, _, subtasks, notifier := newSubTaskService()

	_, err := svc.Create(context.Background(), services.SubTaskInput{
		TaskID:   ptr(99),
		Title:    "orphan",
		Deadline: "2025-06-10T09:00:00Z",
	})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["task_id"]; !ok {
		t.Errorf("fields = %v", verr.Fields)
	}
	if subtasks.Len() != 0 || len(notifier.SubTasks) != 0 {
		t.Error("nothing should be stored or announced")
	}
}

func TestSubTaskServiceCreateMissingTitle(t *testing.T) {
	svc, _, subtasks, _ := newSubTaskService()

	_, err := svc.Create(context.Background(), services.SubTaskInput{Deadline: "2025-06-10T09:00:00Z"})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.Fields["title"] == "" {
		t.Fatalf("expected title error, got %v", err)
	}
	if subtasks.Len() != 0 {
		t.Error("invalid subtask stored")
	}
}

func TestSubTaskServiceUpdateReplacesFields(t *testing.T) {
	svc, tasks, _, _ := newSubTaskService()
	ctx := context.Background()
	parent := tasks.Add(models.Task{Title: "parent", Status: models.StatusNew, Deadline: fixedNow})

	st, err := svc.Create(ctx, services.SubTaskInput{
		TaskID: ptr(parent.ID), Title: "v1", Description: "old", Deadline: "2025-06-10T09:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, st.ID, services.SubTaskInput{
		Title: "v2", Status: "done", Deadline: "2025-06-11T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "v2" || updated.Description != "" || updated.TaskID != nil || updated.Status != models.StatusDone {
		t.Errorf("full replace expected, got %+v", updated)
	}
	if !updated.CreatedAt.Equal(st.CreatedAt) {
		t.Errorf("created_at changed: %s -> %s", st.CreatedAt, updated.CreatedAt)
	}

	got, err := svc.GetByID(ctx, st.ID)
	if err != nil || got.Title != "v2" {
		t.Errorf("GetByID after update: %+v, %v", got, err)
	}
}

func TestSubTaskServiceUpdateInvalidLeavesRecord(t *testing.T) {
	svc, _, _, _ := newSubTaskService()
	ctx := context.Background()

	st, err := svc.Create(ctx, services.SubTaskInput{Title: "keep", Deadline: "2025-06-10T09:00:00Z"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, st.ID, services.SubTaskInput{Title: "", Deadline: "bad"}); apperr.Status(err) != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
	got, _ := svc.GetByID(ctx, st.ID)
	if got.Title != "keep" {
		t.Errorf("record mutated: %+v", got)
	}
}

func TestSubTaskServiceNotFound(t *testing.T) {
	svc, _, _, _ := newSubTaskService()
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, 5); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByID: %v", err)
	}
	// not-found wins over validation
	if _, err := svc.Update(ctx, 5, services.SubTaskInput{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Update: %v", err)
	}
	if err := svc.Delete(ctx, 5); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete: %v", err)
	}
}

func TestSubTaskServiceDeleteIsFinal(t *testing.T) {
	svc, _, _, _ := newSubTaskService()
	ctx := context.Background()

	st, _ := svc.Create(ctx, services.SubTaskInput{Title: "x", Deadline: "2025-06-10T09:00:00Z"})
	if err := svc.Delete(ctx, st.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetByID(ctx, st.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("after delete: %v", err)
	}
	if err := svc.Delete(ctx, st.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}
