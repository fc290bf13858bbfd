// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for tasks and subtasks.
type TaskStatus string

const (
	StatusNew        TaskStatus = "new"
	StatusInProgress TaskStatus = "in_progress"
	StatusPending    TaskStatus = "pending"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists every allowed status in display order.
var TaskStatuses = []TaskStatus{StatusNew, StatusInProgress, StatusPending, StatusBlocked, StatusDone}

// OverdueStatuses are the statuses that count as overdue once the deadline passes.
var OverdueStatuses = []TaskStatus{StatusPending, StatusInProgress}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Task represents the structure of a task in the system.
type Task struct {
	ID          int64      `json:"id"`
	CreatorID   int64      `json:"creator_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Deadline    time.Time  `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskOrdering is the sort applied to task listings.
type TaskOrdering string

const (
	OrderDeadlineAsc  TaskOrdering = "deadline"
	OrderDeadlineDesc TaskOrdering = "-deadline"
)

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	Status   *TaskStatus
	Deadline *time.Time
	Ordering TaskOrdering
	Limit    int
	Offset   int
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Task  `json:"results"`
}

// TaskStats is the aggregate view over all tasks.
type TaskStats struct {
	TotalTasks   int64            `json:"total_tasks"`
	StatusCounts map[string]int64 `json:"status_counts"`
	OverdueTasks int64            `json:"overdue_tasks"`
}
