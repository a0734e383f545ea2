// File: internal/store/errors.go
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound 查無資料，或資料不屬於呼叫者
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail Email 已被註冊
	ErrDuplicateEmail = errors.New("email already registered")
)

// isUniqueViolation 判斷是否為 Postgres unique constraint 錯誤 (23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
