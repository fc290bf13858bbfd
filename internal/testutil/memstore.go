// Package testutil provides in-memory stand-ins for the store and notifiers.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskmanager/internal/apperr"
	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// TaskRepo is an in-memory repositories.TaskRepository.
type TaskRepo struct {
	mu     sync.RWMutex
	tasks  []models.Task
	nextID int64

	// Error injection
	StoreErr error
	ListErr  error
	StatsErr error
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{nextID: 1}
}

// Add inserts a task as-is apart from assigning its id.
func (r *TaskRepo) Add(t models.Task) models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	r.tasks = append(r.tasks, t)
	return t
}

func (r *TaskRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

func (r *TaskRepo) Store(_ context.Context, task *models.Task) error {
	if r.StoreErr != nil {
		return r.StoreErr
	}
	*task = r.Add(*task)
	return nil
}

func (r *TaskRepo) FindAll(_ context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	if r.ListErr != nil {
		return nil, 0, r.ListErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.Task{}
	for _, t := range r.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Deadline != nil && !t.Deadline.Equal(*filter.Deadline) {
			continue
		}
		matched = append(matched, t)
	}
	desc := filter.Ordering == models.OrderDeadlineDesc
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Deadline.Equal(b.Deadline) {
			if desc {
				return a.Deadline.After(b.Deadline)
			}
			return a.Deadline.Before(b.Deadline)
		}
		return a.ID < b.ID
	})

	total := len(matched)
	if filter.Limit <= 0 {
		return matched, total, nil
	}
	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total || end < start {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *TaskRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *TaskRepo) Stats(_ context.Context, now time.Time) (*models.TaskStats, error) {
	if r.StatsErr != nil {
		return nil, r.StatsErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &models.TaskStats{StatusCounts: map[string]int64{}}
	for _, t := range r.tasks {
		out.TotalTasks++
		out.StatusCounts[string(t.Status)]++
		if t.Deadline.Before(now) && (t.Status == models.StatusPending || t.Status == models.StatusInProgress) {
			out.OverdueTasks++
		}
	}
	return out, nil
}

// SubTaskRepo is an in-memory repositories.SubTaskRepository. When Tasks
// is set, task_id references are checked like a foreign key.
type SubTaskRepo struct {
	mu       sync.RWMutex
	subtasks map[int64]models.SubTask
	nextID   int64
	Tasks    *TaskRepo

	StoreErr error
}

func NewSubTaskRepo(tasks *TaskRepo) *SubTaskRepo {
	return &SubTaskRepo{subtasks: map[int64]models.SubTask{}, nextID: 1, Tasks: tasks}
}

func (r *SubTaskRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subtasks)
}

func (r *SubTaskRepo) checkRef(ctx context.Context, id *int64) error {
	if id == nil || r.Tasks == nil {
		return nil
	}
	ok, _ := r.Tasks.Exists(ctx, *id)
	if !ok {
		return repositories.ErrTaskReferenceMissing
	}
	return nil
}

func (r *SubTaskRepo) Store(ctx context.Context, st *models.SubTask) error {
	if r.StoreErr != nil {
		return r.StoreErr
	}
	if err := r.checkRef(ctx, st.TaskID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st.ID = r.nextID
	r.nextID++
	r.subtasks[st.ID] = *st
	return nil
}

func (r *SubTaskRepo) FindAll(_ context.Context) ([]models.SubTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.SubTask, 0, len(r.subtasks))
	for _, st := range r.subtasks {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SubTaskRepo) FindByID(_ context.Context, id int64) (*models.SubTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.subtasks[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &st, nil
}

func (r *SubTaskRepo) Update(ctx context.Context, st *models.SubTask) error {
	if err := r.checkRef(ctx, st.TaskID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.subtasks[st.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	st.CreatedAt = cur.CreatedAt
	r.subtasks[st.ID] = *st
	return nil
}

func (r *SubTaskRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subtasks[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.subtasks, id)
	return nil
}

// RecordingNotifier remembers what it was told.
type RecordingNotifier struct {
	mu       sync.Mutex
	Tasks    []models.Task
	SubTasks []models.SubTask
}

func (n *RecordingNotifier) TaskCreated(_ context.Context, t *models.Task) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Tasks = append(n.Tasks, *t)
}

func (n *RecordingNotifier) SubTaskCreated(_ context.Context, st *models.SubTask) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.SubTasks = append(n.SubTasks, *st)
}
