// File: internal/store/user_test.go
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

// fakeUserRow 支援兩種 Scan 呼叫場景：
// 1) len(dest)==8 → 完整使用者欄位
// 2) len(dest)==3 → CreateUser (id, uid, created_at)
type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 8:
		*dest[0].(*int) = u.ID
		*dest[1].(*int) = u.UID
		*dest[2].(*string) = u.Name
		*dest[3].(*string) = u.Email
		*dest[4].(*string) = u.PasswordHash
		*dest[5].(*string) = u.Role
		*dest[6].(*bool) = u.EmailVerified
		*dest[7].(*time.Time) = u.CreatedAt
	case 3:
		*dest[0].(*int) = u.ID
		*dest[1].(*int) = u.UID
		*dest[2].(*time.Time) = u.CreatedAt
	default:
		panic("fakeUserRow.Scan: unexpected dest count")
	}
	return nil
}

// fakeUserRows 將多個使用者包裝為 pgx.Rows
type fakeUserRows struct {
	users   []model.User
	idx     int
	err     error
	scanErr error
}

func (r *fakeUserRows) Close()                                       {}
func (r *fakeUserRows) Err() error                                   { return r.err }
func (r *fakeUserRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeUserRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeUserRows) Next() bool {
	if r.idx >= len(r.users) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeUserRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	return (&fakeUserRow{user: &r.users[r.idx-1]}).Scan(dest...)
}

func (r *fakeUserRows) Values() ([]any, error) { return nil, nil }
func (r *fakeUserRows) RawValues() [][]byte    { return nil }
func (r *fakeUserRows) Conn() *pgx.Conn        { return nil }

/* ---------- 完整測試 ---------- */

func TestCreateUser(t *testing.T) {
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{user: &model.User{ID: 42, UID: 7, CreatedAt: now}}
			},
		}
		u, err := CreateUser(context.Background(), db, &model.User{
			Name:         "Bob",
			Email:        "bob@example.com",
			PasswordHash: "pwdhash",
			Role:         model.RoleUser,
		})
		require.NoError(t, err)
		require.Equal(t, 42, u.ID)
		require.Equal(t, 7, u.UID)
		require.Equal(t, now, u.CreatedAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: &pgconn.PgError{Code: "23505"}}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{Email: "dup@example.com"})
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("scan error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("boom")}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{})
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestGetUserByEmail(t *testing.T) {
	sample := &model.User{ID: 7, UID: 3, Name: "Alice", Email: "alice@example.com", PasswordHash: "hash123", Role: model.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, []any{"alice@example.com"}, args)
				return &fakeUserRow{user: sample}
			},
		}
		u, err := GetUserByEmail(context.Background(), db, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)
		require.Equal(t, model.RoleAdmin, u.Role)
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := GetUserByEmail(context.Background(), db, "nobody@example.com")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetUserByUID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, []any{3}, args)
				return &fakeUserRow{user: &model.User{ID: 7, UID: 3}}
			},
		}
		u, err := GetUserByUID(context.Background(), db, 3)
		require.NoError(t, err)
		require.Equal(t, 3, u.UID)
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := GetUserByUID(context.Background(), db, 999)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeUserRows{users: []model.User{{ID: 1, UID: 1}, {ID: 2, UID: 2}}}, nil
			},
		}
		all, err := ListUsers(context.Background(), db)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, 2, all[1].UID)
	})

	t.Run("query error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return nil, errors.New("q")
			},
		}
		_, err := ListUsers(context.Background(), db)
		require.Error(t, err)
	})

	t.Run("rows error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeUserRows{err: errors.New("rows")}, nil
			},
		}
		_, err := ListUsers(context.Background(), db)
		require.Error(t, err)
	})
}

func TestUpdateUserByUID(t *testing.T) {
	name := "New"
	email := "new@example.com"
	verified := true

	t.Run("builds dynamic set clause", func(t *testing.T) {
		var gotQuery string
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, query string, args ...any) pgx.Row {
				gotQuery = query
				gotArgs = args
				return &fakeUserRow{user: &model.User{ID: 1, UID: 9, Name: name, Email: email, EmailVerified: verified}}
			},
		}
		u, err := UpdateUserByUID(context.Background(), db, 9, UserUpdate{
			Name:          &name,
			Email:         &email,
			EmailVerified: &verified,
		})
		require.NoError(t, err)
		require.Equal(t, "New", u.Name)
		require.Contains(t, gotQuery, "name = $1")
		require.Contains(t, gotQuery, "email = $2")
		require.Contains(t, gotQuery, "email_verified = $3")
		require.NotContains(t, gotQuery, "role =")
		require.Contains(t, gotQuery, "WHERE uid = $4")
		require.Equal(t, []any{"New", "new@example.com", true, 9}, gotArgs)
	})

	t.Run("no fields falls back to get", func(t *testing.T) {
		var gotQuery string
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, query string, _ ...any) pgx.Row {
				gotQuery = query
				return &fakeUserRow{user: &model.User{ID: 1, UID: 9}}
			},
		}
		u, err := UpdateUserByUID(context.Background(), db, 9, UserUpdate{})
		require.NoError(t, err)
		require.Equal(t, 9, u.UID)
		require.Contains(t, gotQuery, "SELECT")
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := UpdateUserByUID(context.Background(), db, 9, UserUpdate{Name: &name})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: &pgconn.PgError{Code: "23505"}}
			},
		}
		_, err := UpdateUserByUID(context.Background(), db, 9, UserUpdate{Email: &email})
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestDeleteUserByUID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				require.Equal(t, []any{5}, args)
				return pgconn.NewCommandTag("DELETE 1"), nil
			},
		}
		require.NoError(t, DeleteUserByUID(context.Background(), db, 5))
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("DELETE 0"), nil
			},
		}
		require.ErrorIs(t, DeleteUserByUID(context.Background(), db, 5), ErrNotFound)
	})

	t.Run("exec error", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("exec")
			},
		}
		require.Error(t, DeleteUserByUID(context.Background(), db, 5))
	})
}
