package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"taskmanager/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	// FindAll returns one page of tasks and the number of tasks matching the filter.
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Stats computes all aggregates from a single snapshot.
	Stats(ctx context.Context, now time.Time) (*models.TaskStats, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, creator_id, title, description, status, deadline, created_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (creator_id, title, description, status, deadline, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		task.CreatorID, task.Title, task.Description, task.Status, task.Deadline, task.CreatedAt,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("store task: %w", err)
	}
	return nil
}

// buildTaskWhere renders the equality filters shared by the page and count queries.
func buildTaskWhere(filter models.TaskFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, string(*filter.Status))
		argID++
	}
	if filter.Deadline != nil {
		conditions = append(conditions, fmt.Sprintf("deadline = $%d", argID))
		args = append(args, *filter.Deadline)
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderClause(o models.TaskOrdering) string {
	if o == models.OrderDeadlineDesc {
		return " ORDER BY deadline DESC, id ASC"
	}
	return " ORDER BY deadline ASC, id ASC"
}

func buildTaskListQuery(filter models.TaskFilter) (string, []interface{}) {
	where, args := buildTaskWhere(filter)
	query := `SELECT ` + taskColumns + ` FROM tasks` + where + orderClause(filter.Ordering)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}
	return query, args
}

// FindAll reads the count and the page from one snapshot so that count
// agrees with results.
func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) (tasks []models.Task, total int, err error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin list tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	where, countArgs := buildTaskWhere(filter)
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query, args := buildTaskListQuery(filter)
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	tasks = []models.Task{}
	for rows.Next() {
		var t models.Task
		if err = rows.Scan(
			&t.ID, &t.CreatorID, &t.Title, &t.Description, &t.Status, &t.Deadline, &t.CreatedAt,
		); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit list tx: %w", err)
	}
	return tasks, total, nil
}

func (r *taskRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("task exists: %w", err)
	}
	return exists, nil
}

func (r *taskRepository) Stats(ctx context.Context, now time.Time) (stats *models.TaskStats, err error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin stats tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	out := &models.TaskStats{StatusCounts: map[string]int64{}}

	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&out.TotalTasks); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	for rows.Next() {
		var status string
		var n int64
		if err = rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out.StatusCounts[status] = n
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	overdue := make([]string, 0, len(models.OverdueStatuses))
	for _, s := range models.OverdueStatuses {
		overdue = append(overdue, string(s))
	}
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE deadline < $1 AND status = ANY($2)`,
		now, pq.Array(overdue),
	).Scan(&out.OverdueTasks)
	if err != nil {
		return nil, fmt.Errorf("count overdue: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stats tx: %w", err)
	}
	return out, nil
}
