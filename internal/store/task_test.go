// File: internal/store/task_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/database"
	"taskboard/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeTaskRow 支援兩種 Scan 呼叫場景：
// 1) len(dest)==10 → 完整任務欄位
// 2) len(dest)==3  → CreateTask (id, created_at, updated_at)
type fakeTaskRow struct {
	scanErr error
	task    *model.Task
}

func (r *fakeTaskRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	tk := r.task
	switch len(dest) {
	case 10:
		*dest[0].(*int) = tk.ID
		*dest[1].(*string) = tk.Title
		*dest[2].(*string) = tk.Description
		*dest[3].(*time.Time) = tk.DueDate
		*dest[4].(*string) = tk.Priority
		*dest[5].(*string) = tk.Status
		*dest[6].(*string) = tk.Category
		*dest[7].(*int) = tk.UserID
		*dest[8].(*time.Time) = tk.CreatedAt
		*dest[9].(*time.Time) = tk.UpdatedAt
	case 3:
		*dest[0].(*int) = tk.ID
		*dest[1].(*time.Time) = tk.CreatedAt
		*dest[2].(*time.Time) = tk.UpdatedAt
	default:
		panic("fakeTaskRow.Scan: unexpected dest count")
	}
	return nil
}

type fakeTaskRows struct {
	tasks []model.Task
	idx   int
	err   error
}

func (r *fakeTaskRows) Close()                                       {}
func (r *fakeTaskRows) Err() error                                   { return r.err }
func (r *fakeTaskRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeTaskRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeTaskRows) Next() bool {
	if r.idx >= len(r.tasks) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeTaskRows) Scan(dest ...any) error {
	return (&fakeTaskRow{task: &r.tasks[r.idx-1]}).Scan(dest...)
}

func (r *fakeTaskRows) Values() ([]any, error) { return nil, nil }
func (r *fakeTaskRows) RawValues() [][]byte    { return nil }
func (r *fakeTaskRows) Conn() *pgx.Conn        { return nil }

func sampleTask(id, userID int) model.Task {
	return model.Task{
		ID:          id,
		Title:       "T",
		Description: "D",
		DueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Priority:    model.PriorityMedium,
		Status:      model.StatusPending,
		Category:    "C",
		UserID:      userID,
	}
}

/* ---------- 完整測試 ---------- */

func TestCreateTask(t *testing.T) {
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArgs = args
				return &fakeTaskRow{task: &model.Task{ID: 11, CreatedAt: now, UpdatedAt: now}}
			},
		}
		task := sampleTask(0, 9)
		created, err := CreateTask(context.Background(), db, &task)
		require.NoError(t, err)
		require.Equal(t, 11, created.ID)
		require.Equal(t, 9, gotArgs[6])
	})

	t.Run("scan error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeTaskRow{scanErr: errors.New("boom")}
			},
		}
		task := sampleTask(0, 9)
		_, err := CreateTask(context.Background(), db, &task)
		require.Error(t, err)
	})
}

func TestListTasks(t *testing.T) {
	t.Run("owner only baseline", func(t *testing.T) {
		var gotQuery string
		var gotArgs []any
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, query string, args ...any) (pgx.Rows, error) {
				gotQuery = query
				gotArgs = args
				return &fakeTaskRows{tasks: []model.Task{sampleTask(1, 5)}}, nil
			},
		}
		all, err := ListTasks(context.Background(), db, 5, TaskFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Contains(t, gotQuery, "WHERE user_id = $1")
		require.NotContains(t, gotQuery, "ORDER BY")
		require.Equal(t, []any{5}, gotArgs)
	})

	t.Run("all filters combine as AND", func(t *testing.T) {
		var gotQuery string
		var gotArgs []any
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, query string, args ...any) (pgx.Rows, error) {
				gotQuery = query
				gotArgs = args
				return &fakeTaskRows{}, nil
			},
		}
		_, err := ListTasks(context.Background(), db, 5, TaskFilter{
			Priority: "high",
			Category: "work",
			Status:   "pending",
			Search:   "report",
			SortBy:   "dueDate",
		})
		require.NoError(t, err)
		require.Contains(t, gotQuery, "AND priority = $2")
		require.Contains(t, gotQuery, "AND category = $3")
		require.Contains(t, gotQuery, "AND status = $4")
		require.Contains(t, gotQuery, "title ILIKE")
		require.Contains(t, gotQuery, "description ILIKE")
		require.Contains(t, gotQuery, "ORDER BY due_date")
		require.Equal(t, []any{5, "high", "work", "pending", "report"}, gotArgs)
	})

	t.Run("unknown sort key ignored", func(t *testing.T) {
		var gotQuery string
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
				gotQuery = query
				return &fakeTaskRows{}, nil
			},
		}
		_, err := ListTasks(context.Background(), db, 5, TaskFilter{SortBy: "createdAt"})
		require.NoError(t, err)
		require.NotContains(t, gotQuery, "ORDER BY")
	})

	t.Run("query error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return nil, errors.New("q")
			},
		}
		_, err := ListTasks(context.Background(), db, 5, TaskFilter{})
		require.Error(t, err)
	})

	t.Run("rows error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeTaskRows{err: errors.New("rows")}, nil
			},
		}
		_, err := ListTasks(context.Background(), db, 5, TaskFilter{})
		require.Error(t, err)
	})
}

func TestGetTask(t *testing.T) {
	t.Run("scopes by owner", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArgs = args
				tk := sampleTask(3, 5)
				return &fakeTaskRow{task: &tk}
			},
		}
		task, err := GetTask(context.Background(), db, 5, 3)
		require.NoError(t, err)
		require.Equal(t, 3, task.ID)
		require.Equal(t, []any{3, 5}, gotArgs)
	})

	t.Run("not found covers foreign tasks", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeTaskRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := GetTask(context.Background(), db, 6, 3)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateTask(t *testing.T) {
	title := "X"
	due := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("builds dynamic set clause", func(t *testing.T) {
		var gotQuery string
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, query string, args ...any) pgx.Row {
				gotQuery = query
				gotArgs = args
				tk := sampleTask(4, 5)
				tk.Title = title
				return &fakeTaskRow{task: &tk}
			},
		}
		task, err := UpdateTask(context.Background(), db, 5, 4, TaskUpdate{Title: &title, DueDate: &due})
		require.NoError(t, err)
		require.Equal(t, "X", task.Title)
		require.Contains(t, gotQuery, "updated_at = now()")
		require.Contains(t, gotQuery, "title = $1")
		require.Contains(t, gotQuery, "due_date = $2")
		require.NotContains(t, gotQuery, "priority =")
		require.Contains(t, gotQuery, "WHERE id = $3 AND user_id = $4")
		require.Equal(t, []any{"X", due, 4, 5}, gotArgs)
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeTaskRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := UpdateTask(context.Background(), db, 5, 4, TaskUpdate{Title: &title})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				gotArgs = args
				return pgconn.NewCommandTag("DELETE 1"), nil
			},
		}
		require.NoError(t, DeleteTask(context.Background(), db, 5, 4))
		require.Equal(t, []any{4, 5}, gotArgs)
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("DELETE 0"), nil
			},
		}
		require.ErrorIs(t, DeleteTask(context.Background(), db, 5, 4), ErrNotFound)
	})
}

func TestCompleteTask(t *testing.T) {
	t.Run("sets completed", func(t *testing.T) {
		var gotQuery string
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, query string, args ...any) pgx.Row {
				gotQuery = query
				require.Equal(t, []any{4, 5}, args)
				tk := sampleTask(4, 5)
				tk.Status = model.StatusCompleted
				return &fakeTaskRow{task: &tk}
			},
		}
		task, err := CompleteTask(context.Background(), db, 5, 4)
		require.NoError(t, err)
		require.Equal(t, model.StatusCompleted, task.Status)
		require.Contains(t, gotQuery, "status = 'completed'")
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeTaskRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := CompleteTask(context.Background(), db, 5, 4)
		require.ErrorIs(t, err, ErrNotFound)
	})
}
