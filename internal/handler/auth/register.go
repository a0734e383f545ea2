package auth

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"taskboard/internal/api"
	"taskboard/internal/database"
	"taskboard/internal/model"
	"taskboard/internal/service"
	"taskboard/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword = service.HashPassword
	createUser   = store.CreateUser
)

// @Summary     Register a new account
// @Description 接收註冊資料並建立新帳號 (Email 會自動轉小寫)
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.RegisterRequest true "註冊資料"
// @Success     201 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		req.Email = strings.ToLower(req.Email)
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid email format"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "failed to hash password"})
		}

		_, err = createUser(c.Request().Context(), db, &model.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         model.RoleUser,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "email already registered"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusCreated, api.MessageResponse{Message: "user registered successfully"})
	}
}
