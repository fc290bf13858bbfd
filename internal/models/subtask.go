package models

import "time"

// SubTask optionally points at its parent task; it does not own it.
type SubTask struct {
	ID          int64      `json:"id"`
	TaskID      *int64     `json:"task_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Deadline    time.Time  `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
}
