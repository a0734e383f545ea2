package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/service"
	"taskboard/internal/store"
	"taskboard/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// taskListTTL 未過濾任務清單的快取有效期限
const taskListTTL = 30 * time.Second

var (
	createTask   = store.CreateTask
	listTasks    = store.ListTasks
	getTask      = store.GetTask
	updateTask   = store.UpdateTask
	deleteTask   = store.DeleteTask
	completeTask = store.CompleteTask
)

// dueDateLayouts 允許的到期日格式 (RFC3339 或 yyyy-mm-dd)
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date: %q", s)
}

// currentClaims 從 context 取得 JWT claims
func currentClaims(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok
}

func listCacheKey(ownerID int) string {
	return fmt.Sprintf("tasks:user:%d", ownerID)
}

// invalidateListCache 透過 worker pool 非同步清除任務清單快取
func invalidateListCache(rdb cache.Cache, wp worker.Pool, ownerID int) {
	key := listCacheKey(ownerID)
	wp.Submit(func() {
		rdb.Del(context.Background(), key)
	})
}

func toTaskResponse(t *model.Task) api.TaskResponse {
	return api.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		Category:    t.Category,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// @Summary     Create a task
// @Description 建立新任務，擁有者為目前登入的使用者
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       body body api.CreateTaskRequest true "任務欄位"
// @Success     201 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks [post]
func CreateTaskHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.CreateTaskRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		priority := req.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		status := req.Status
		if status == "" {
			status = model.StatusPending
		}

		task, err := createTask(c.Request().Context(), db, &model.Task{
			Title:       req.Title,
			Description: req.Description,
			DueDate:     dueDate,
			Priority:    priority,
			Status:      status,
			Category:    req.Category,
			UserID:      claims.UserID,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		invalidateListCache(rdb, wp, claims.UserID)
		return c.JSON(http.StatusCreated, toTaskResponse(task))
	}
}

// @Summary     List tasks
// @Description 回傳目前使用者的任務；可依 priority/category/status 過濾、
// @Description search 搜尋 title 與 description、sortBy 排序 (dueDate|priority|status)
// @Tags        tasks
// @Produce     json
// @Param       priority query string false "優先度"   Enums(low, medium, high)
// @Param       category query string false "分類"
// @Param       status   query string false "狀態"     Enums(pending, completed)
// @Param       search   query string false "搜尋文字"
// @Param       sortBy   query string false "排序鍵"   Enums(dueDate, priority, status)
// @Success     200 {array}  api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks [get]
func ListTasksHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.ListTasksRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		// 未過濾的完整清單才走快取
		cacheable := req == (api.ListTasksRequest{})
		key := listCacheKey(claims.UserID)
		if cacheable {
			if cached, err := rdb.Get(c.Request().Context(), key).Result(); err == nil {
				return c.JSONBlob(http.StatusOK, []byte(cached))
			} else if !errors.Is(err, redis.Nil) {
				c.Logger().Warnf("task list cache get failed: %v", err)
			}
		}

		all, err := listTasks(c.Request().Context(), db, claims.UserID, store.TaskFilter{
			Priority: req.Priority,
			Category: req.Category,
			Status:   req.Status,
			Search:   req.Search,
			SortBy:   req.SortBy,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		resp := make([]api.TaskResponse, 0, len(all))
		for i := range all {
			resp = append(resp, toTaskResponse(&all[i]))
		}

		if cacheable {
			if data, err := json.Marshal(resp); err == nil {
				if err := rdb.Set(c.Request().Context(), key, data, taskListTTL).Err(); err != nil {
					c.Logger().Warnf("task list cache set failed: %v", err)
				}
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Get a task by ID
// @Description 取得單一任務；任務不存在或屬於他人皆回傳 404
// @Tags        tasks
// @Produce     json
// @Param       id path int true "任務 ID"
// @Success     200 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks/{id} [get]
func GetTaskHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid task ID"})
		}
		task, err := getTask(c.Request().Context(), db, claims.UserID, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "task not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, toTaskResponse(task))
	}
}

// @Summary     Update a task by ID
// @Description 更新任務欄位，未提供的欄位維持不變
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       id   path int                   true "任務 ID"
// @Param       body body api.UpdateTaskRequest true "更新欄位"
// @Success     200 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks/{id} [put]
func UpdateTaskHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid task ID"})
		}

		var req api.UpdateTaskRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		upd := store.TaskUpdate{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			Status:      req.Status,
			Category:    req.Category,
		}
		if req.DueDate != nil {
			dueDate, err := parseDueDate(*req.DueDate)
			if err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
			}
			upd.DueDate = &dueDate
		}

		task, err := updateTask(c.Request().Context(), db, claims.UserID, id, upd)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "task not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		invalidateListCache(rdb, wp, claims.UserID)
		return c.JSON(http.StatusOK, toTaskResponse(task))
	}
}

// @Summary     Delete a task by ID
// @Description 刪除任務；任務不存在或屬於他人皆回傳 404
// @Tags        tasks
// @Produce     json
// @Param       id path int true "任務 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks/{id} [delete]
func DeleteTaskHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid task ID"})
		}
		if err := deleteTask(c.Request().Context(), db, claims.UserID, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "task not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		invalidateListCache(rdb, wp, claims.UserID)
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "task deleted successfully"})
	}
}

// @Summary     Mark a task as completed
// @Description 將任務狀態設為 completed，重複呼叫為冪等操作
// @Tags        tasks
// @Produce     json
// @Param       id path int true "任務 ID"
// @Success     200 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks/{id}/complete [patch]
func CompleteTaskHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid task ID"})
		}
		task, err := completeTask(c.Request().Context(), db, claims.UserID, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "task not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		invalidateListCache(rdb, wp, claims.UserID)
		return c.JSON(http.StatusOK, toTaskResponse(task))
	}
}
