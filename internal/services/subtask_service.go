package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"taskmanager/internal/apperr"
	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

type SubTaskService interface {
	List(ctx context.Context) ([]models.SubTask, error)
	Create(ctx context.Context, in SubTaskInput) (*models.SubTask, error)
	GetByID(ctx context.Context, id int64) (*models.SubTask, error)
	Update(ctx context.Context, id int64, in SubTaskInput) (*models.SubTask, error)
	Delete(ctx context.Context, id int64) error
}

type subTaskService struct {
	repo     repositories.SubTaskRepository
	tasks    repositories.TaskRepository
	notifier Notifier
	now      func() time.Time
}

func NewSubTaskService(repo repositories.SubTaskRepository, tasks repositories.TaskRepository, notifier Notifier, now func() time.Time) SubTaskService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &subTaskService{repo: repo, tasks: tasks, notifier: notifier, now: now}
}

func (s *subTaskService) List(ctx context.Context) ([]models.SubTask, error) {
	return s.repo.FindAll(ctx)
}

func missingTaskError(id int64) error {
	verr := apperr.NewValidationError()
	verr.Add("task_id", "invalid pk \""+strconv.FormatInt(id, 10)+"\" - object does not exist")
	return verr
}

// validate runs the pure checks and then confirms the parent task exists.
func (s *subTaskService) validate(ctx context.Context, in SubTaskInput) (*models.SubTask, error) {
	st, err := ValidateSubTaskInput(in)
	if err != nil {
		return nil, err
	}
	if st.TaskID != nil {
		ok, err := s.tasks.Exists(ctx, *st.TaskID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, missingTaskError(*st.TaskID)
		}
	}
	return st, nil
}

func (s *subTaskService) Create(ctx context.Context, in SubTaskInput) (*models.SubTask, error) {
	st, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	st.CreatedAt = s.now().UTC()

	if err := s.repo.Store(ctx, st); err != nil {
		// parent deleted between the check and the insert
		if errors.Is(err, repositories.ErrTaskReferenceMissing) {
			return nil, missingTaskError(*st.TaskID)
		}
		return nil, err
	}
	s.notifier.SubTaskCreated(ctx, st)
	return st, nil
}

func (s *subTaskService) GetByID(ctx context.Context, id int64) (*models.SubTask, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *subTaskService) Update(ctx context.Context, id int64, in SubTaskInput) (*models.SubTask, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	st, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	st.ID = id

	if err := s.repo.Update(ctx, st); err != nil {
		if errors.Is(err, repositories.ErrTaskReferenceMissing) {
			return nil, missingTaskError(*st.TaskID)
		}
		return nil, err
	}
	return st, nil
}

func (s *subTaskService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
