// File: internal/store/user.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/database"
	"taskboard/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, uid, name, email, password_hash, role, email_verified, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.UID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.EmailVerified,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser 建立使用者，uid 由 users_uid_seq 原子遞增產生
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (uid, name, email, password_hash, role, email_verified)
		 VALUES (nextval('users_uid_seq'), $1, $2, $3, $4, $5)
		 RETURNING id, uid, created_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.EmailVerified,
	)
	if err := row.Scan(&u.ID, &u.UID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func GetUserByUID(ctx context.Context, db database.DB, uid int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE uid = $1`,
		uid,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetUserByUID: %w", err)
	}
	return u, nil
}

func ListUsers(ctx context.Context, db database.DB) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY uid`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUsers: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

// UserUpdate 未設定的欄位 (nil) 不會被更新
type UserUpdate struct {
	Name          *string
	Email         *string
	Role          *string
	EmailVerified *bool
}

func UpdateUserByUID(ctx context.Context, db database.DB, uid int, upd UserUpdate) (*model.User, error) {
	set := []string{}
	args := []any{}
	if upd.Name != nil {
		args = append(args, *upd.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.Email != nil {
		args = append(args, *upd.Email)
		set = append(set, fmt.Sprintf("email = $%d", len(args)))
	}
	if upd.Role != nil {
		args = append(args, *upd.Role)
		set = append(set, fmt.Sprintf("role = $%d", len(args)))
	}
	if upd.EmailVerified != nil {
		args = append(args, *upd.EmailVerified)
		set = append(set, fmt.Sprintf("email_verified = $%d", len(args)))
	}
	if len(set) == 0 {
		return GetUserByUID(ctx, db, uid)
	}

	args = append(args, uid)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE uid = $%d RETURNING `+userColumns,
		strings.Join(set, ", "), len(args),
	)
	u, err := scanUser(db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("UpdateUserByUID: %w", err)
	}
	return u, nil
}

func DeleteUserByUID(ctx context.Context, db database.DB, uid int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM users WHERE uid = $1`,
		uid,
	)
	if err != nil {
		return fmt.Errorf("DeleteUserByUID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
