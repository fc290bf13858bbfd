package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"taskmanager/internal/apperr"
	"taskmanager/internal/models"
)

// ErrTaskReferenceMissing is returned when a subtask names a task that does not exist.
var ErrTaskReferenceMissing = errors.New("referenced task does not exist")

const pqForeignKeyViolation = "23503"

type SubTaskRepository interface {
	Store(ctx context.Context, st *models.SubTask) error
	FindAll(ctx context.Context) ([]models.SubTask, error)
	FindByID(ctx context.Context, id int64) (*models.SubTask, error)
	// Update replaces every writable column; apperr.ErrNotFound if the row is gone.
	Update(ctx context.Context, st *models.SubTask) error
	Delete(ctx context.Context, id int64) error
}

type subTaskRepository struct {
	db *sql.DB
}

func NewSubTaskRepository(db *sql.DB) SubTaskRepository {
	return &subTaskRepository{db: db}
}

const subTaskColumns = `id, task_id, title, description, status, deadline, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubTask(row rowScanner) (*models.SubTask, error) {
	var (
		st     models.SubTask
		taskID sql.NullInt64
	)
	if err := row.Scan(&st.ID, &taskID, &st.Title, &st.Description, &st.Status, &st.Deadline, &st.CreatedAt); err != nil {
		return nil, err
	}
	if taskID.Valid {
		id := taskID.Int64
		st.TaskID = &id
	}
	return &st, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func mapWriteErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return ErrTaskReferenceMissing
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *subTaskRepository) Store(ctx context.Context, st *models.SubTask) error {
	query := `
		INSERT INTO subtasks (task_id, title, description, status, deadline, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		nullableID(st.TaskID), st.Title, st.Description, st.Status, st.Deadline, st.CreatedAt,
	).Scan(&st.ID, &st.CreatedAt)
	if err != nil {
		return mapWriteErr("store subtask", err)
	}
	return nil
}

func (r *subTaskRepository) FindAll(ctx context.Context) ([]models.SubTask, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subTaskColumns+` FROM subtasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	defer rows.Close()

	out := []models.SubTask{}
	for rows.Next() {
		st, err := scanSubTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subtask: %w", err)
		}
		out = append(out, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	return out, nil
}

func (r *subTaskRepository) FindByID(ctx context.Context, id int64) (*models.SubTask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subTaskColumns+` FROM subtasks WHERE id = $1`, id)
	st, err := scanSubTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get subtask %d: %w", id, err)
	}
	return st, nil
}

func (r *subTaskRepository) Update(ctx context.Context, st *models.SubTask) error {
	query := `
		UPDATE subtasks SET
			task_id=$1, title=$2, description=$3, status=$4, deadline=$5
		WHERE id=$6
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		nullableID(st.TaskID), st.Title, st.Description, st.Status, st.Deadline, st.ID,
	).Scan(&st.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return mapWriteErr(fmt.Sprintf("update subtask %d", st.ID), err)
	}
	return nil
}

func (r *subTaskRepository) Delete(ctx context.Context, id int64) error {
	var deleted int64
	err := r.db.QueryRowContext(ctx, `DELETE FROM subtasks WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("delete subtask %d: %w", id, err)
	}
	return nil
}
