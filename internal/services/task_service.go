// internal/services/task_service.go
package services

import (
	"context"
	"strings"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// TaskListQuery carries the raw list parameters from the request.
type TaskListQuery struct {
	Status   string
	Deadline string
	Ordering string
	Limit    int
	Offset   int
}

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	Create(ctx context.Context, creatorID int64, in TaskInput) (*models.Task, error)
	List(ctx context.Context, q TaskListQuery) ([]models.Task, int, error)
	Stats(ctx context.Context) (*models.TaskStats, error)
}

type taskService struct {
	repo     repositories.TaskRepository
	notifier Notifier
	now      func() time.Time
}

// NewTaskService creates a new instance of TaskService. A nil notifier
// disables notifications and a nil clock means time.Now.
func NewTaskService(repo repositories.TaskRepository, notifier Notifier, now func() time.Time) TaskService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &taskService{repo: repo, notifier: notifier, now: now}
}

func (s *taskService) Create(ctx context.Context, creatorID int64, in TaskInput) (*models.Task, error) {
	task, err := ValidateTaskInput(in)
	if err != nil {
		return nil, err
	}
	task.CreatorID = creatorID
	task.CreatedAt = s.now().UTC()

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	s.notifier.TaskCreated(ctx, task)
	return task, nil
}

// List never fails on odd filter values: an unparseable deadline matches
// nothing and an unknown ordering falls back to ascending deadline.
func (s *taskService) List(ctx context.Context, q TaskListQuery) ([]models.Task, int, error) {
	filter := models.TaskFilter{
		Ordering: models.OrderDeadlineAsc,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if models.TaskOrdering(q.Ordering) == models.OrderDeadlineDesc {
		filter.Ordering = models.OrderDeadlineDesc
	}
	if q.Status != "" {
		st := models.TaskStatus(q.Status)
		filter.Status = &st
	}
	if q.Deadline != "" {
		// an unescaped "+hh:mm" offset arrives query-decoded as a space
		d, err := time.Parse(time.RFC3339, strings.ReplaceAll(q.Deadline, " ", "+"))
		if err != nil {
			return []models.Task{}, 0, nil
		}
		filter.Deadline = &d
	}
	return s.repo.FindAll(ctx, filter)
}

func (s *taskService) Stats(ctx context.Context) (*models.TaskStats, error) {
	return s.repo.Stats(ctx, s.now())
}
