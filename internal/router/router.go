// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/handler"
	"taskboard/internal/handler/auth"
	"taskboard/internal/handler/tasks"
	"taskboard/internal/handler/users"
	"taskboard/internal/middleware"
	"taskboard/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, wp worker.Pool) {
	// 健康檢查（需登入）
	e.GET("/ping", handler.PingHandler(db, rdb), middleware.RequireAuth)

	// 註冊與登入
	e.POST("/register", auth.RegisterHandler(db))
	e.POST("/login", auth.LoginHandler(db))

	// Users CRUD
	e.GET("/users", users.ListUsersHandler(db), middleware.RequireAuth)
	e.POST("/users", users.CreateUserHandler(db))
	e.PUT("/users/:uid", users.UpdateUserHandler(db))
	e.DELETE("/users/:uid", users.DeleteUserHandler(db))

	// Tasks CRUD，一律以登入者為擁有者
	apiTasks := e.Group("/tasks", middleware.RequireAuth)
	apiTasks.POST("", tasks.CreateTaskHandler(db, rdb, wp))
	apiTasks.GET("", tasks.ListTasksHandler(db, rdb))
	apiTasks.GET("/:id", tasks.GetTaskHandler(db))
	apiTasks.PUT("/:id", tasks.UpdateTaskHandler(db, rdb, wp))
	apiTasks.DELETE("/:id", tasks.DeleteTaskHandler(db, rdb, wp))
	apiTasks.PATCH("/:id/complete", tasks.CompleteTaskHandler(db, rdb, wp))
}
