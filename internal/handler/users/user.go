package users

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"taskboard/internal/api"
	"taskboard/internal/database"
	"taskboard/internal/model"
	"taskboard/internal/service"
	"taskboard/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword    = service.HashPassword
	createUser      = store.CreateUser
	listUsers       = store.ListUsers
	updateUserByUID = store.UpdateUserByUID
	deleteUserByUID = store.DeleteUserByUID
)

func toUserResponse(u *model.User) api.UserResponse {
	return api.UserResponse{
		ID:            u.ID,
		UID:           u.UID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// @Summary     List all users
// @Description 回傳所有使用者 (不含密碼哈希)
// @Tags        users
// @Produce     json
// @Success     200 {array}  api.UserResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		all, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		resp := make([]api.UserResponse, 0, len(all))
		for i := range all {
			resp = append(resp, toUserResponse(&all[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Create a new user
// @Description 接收使用者資料並建立新帳號 (Email 會自動轉小寫)
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body api.CreateUserRequest true "使用者資料"
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
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

		role := req.Role
		if role == "" {
			role = model.RoleUser
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Name:          req.Name,
			Email:         req.Email,
			PasswordHash:  hash,
			Role:          role,
			EmailVerified: req.EmailVerified,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "email already registered"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusCreated, toUserResponse(user))
	}
}

// @Summary     Update a user by UID
// @Description 根據序號 (uid) 更新使用者欄位，未提供的欄位維持不變
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       uid  path int                   true "使用者序號"
// @Param       body body api.UpdateUserRequest true "更新欄位"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/{uid} [put]
func UpdateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := strconv.Atoi(c.Param("uid"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user UID"})
		}
		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if req.Email != nil {
			lower := strings.ToLower(*req.Email)
			req.Email = &lower
		}

		user, err := updateUserByUID(c.Request().Context(), db, uid, store.UserUpdate{
			Name:          req.Name,
			Email:         req.Email,
			Role:          req.Role,
			EmailVerified: req.EmailVerified,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "email already registered"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// @Summary     Delete a user by UID
// @Description 根據序號 (uid) 刪除使用者
// @Tags        users
// @Produce     json
// @Param       uid path int true "使用者序號"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/{uid} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := strconv.Atoi(c.Param("uid"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user UID"})
		}
		if err := deleteUserByUID(c.Request().Context(), db, uid); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "user deleted successfully"})
	}
}
