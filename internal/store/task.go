// File: internal/store/task.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/database"
	"taskboard/internal/model"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, title, description, due_date, priority, status, category, user_id, created_at, updated_at`

// sortColumns 允許的排序鍵與對應欄位
var sortColumns = map[string]string{
	"dueDate":  "due_date",
	"priority": "priority",
	"status":   "status",
}

func scanTask(row pgx.Row) (*model.Task, error) {
	t := &model.Task{}
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Priority,
		&t.Status,
		&t.Category,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return t, nil
}

func CreateTask(ctx context.Context, db database.DB, t *model.Task) (*model.Task, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, due_date, priority, status, category, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		t.Title,
		t.Description,
		t.DueDate,
		t.Priority,
		t.Status,
		t.Category,
		t.UserID,
	)
	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateTask: %w", err)
	}
	return t, nil
}

// TaskFilter 空字串欄位不參與過濾；多個條件為 AND 結合
type TaskFilter struct {
	Priority string
	Category string
	Status   string
	Search   string
	SortBy   string
}

// ListTasks 回傳 ownerID 擁有的任務。搜尋為 title/description 的
// 不分大小寫子字串比對；SortBy 僅接受 sortColumns 中的鍵，其他值忽略。
func ListTasks(ctx context.Context, db database.DB, ownerID int, f TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{ownerID}

	if f.Priority != "" {
		args = append(args, f.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, f.Search)
		n := len(args)
		query += fmt.Sprintf(" AND (title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", n, n)
	}
	if col, ok := sortColumns[f.SortBy]; ok {
		query += " ORDER BY " + col
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListTasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("ListTasks: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTasks: %w", err)
	}
	return tasks, nil
}

// GetTask 以 ownerID 限定查詢；任務不存在與任務屬於他人皆回傳 ErrNotFound
func GetTask(ctx context.Context, db database.DB, ownerID, taskID int) (*model.Task, error) {
	row := db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID,
		ownerID,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetTask: %w", err)
	}
	return t, nil
}

// TaskUpdate 未設定的欄位 (nil) 不會被更新
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
	Status      *string
	Category    *string
}

func UpdateTask(ctx context.Context, db database.DB, ownerID, taskID int, upd TaskUpdate) (*model.Task, error) {
	set := []string{"updated_at = now()"}
	args := []any{}
	if upd.Title != nil {
		args = append(args, *upd.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if upd.DueDate != nil {
		args = append(args, *upd.DueDate)
		set = append(set, fmt.Sprintf("due_date = $%d", len(args)))
	}
	if upd.Priority != nil {
		args = append(args, *upd.Priority)
		set = append(set, fmt.Sprintf("priority = $%d", len(args)))
	}
	if upd.Status != nil {
		args = append(args, *upd.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	if upd.Category != nil {
		args = append(args, *upd.Category)
		set = append(set, fmt.Sprintf("category = $%d", len(args)))
	}

	args = append(args, taskID, ownerID)
	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d RETURNING `+taskColumns,
		strings.Join(set, ", "), len(args)-1, len(args),
	)
	t, err := scanTask(db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("UpdateTask: %w", err)
	}
	return t, nil
}

func DeleteTask(ctx context.Context, db database.DB, ownerID, taskID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("DeleteTask: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteTask 將任務標記為 completed；重複呼叫結果相同 (冪等)
func CompleteTask(ctx context.Context, db database.DB, ownerID, taskID int) (*model.Task, error) {
	row := db.QueryRow(ctx,
		`UPDATE tasks SET status = 'completed', updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		taskID,
		ownerID,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("CompleteTask: %w", err)
	}
	return t, nil
}
