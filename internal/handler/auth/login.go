package auth

import (
	"fmt"
	"net/http"
	"strings"

	"taskboard/internal/api"
	"taskboard/internal/database"
	"taskboard/internal/service"
	"taskboard/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByEmail   = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
)

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌 (1 小時有效)
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.LoginRequest true "登入資料"
// @Success     200 {object} api.LoginResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		// 查無帳號與密碼錯誤回應一致，避免洩漏帳號是否存在
		user, err := getUserByEmail(c.Request().Context(), db, strings.ToLower(req.Email))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid email or password"})
		}
		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid email or password"})
		}

		token, err := issueAccessToken(*user, service.AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to issue token: %v", err)})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{Token: token})
	}
}
