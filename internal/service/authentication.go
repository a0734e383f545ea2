// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"taskboard/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL 存取令牌有效期限
const AccessTokenTTL = time.Hour

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID int    `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthenticateUser 根據使用者結構和明文密碼驗證
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	// 使用 ComparePassword 進行 bcrypt 比對
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return errors.New("invalid password")
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
