package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-manager-api/internal/container"
	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

type TaskStatusModule struct {
	Handler *handlers.TaskStatusHandler
	JWT     *helpers.JWTManager
}

func NewTaskStatusModule(h *handlers.TaskStatusHandler, jwt *helpers.JWTManager) *TaskStatusModule {
	return &TaskStatusModule{Handler: h, JWT: jwt}
}

func (m *TaskStatusModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/task_statuses", m.Handler.Index)
		auth.GET("/task_statuses/:id", m.Handler.Show)
		auth.POST("/task_statuses", m.Handler.Create)
		auth.PUT("/task_statuses/:id", m.Handler.Update)
		auth.DELETE("/task_statuses/:id", m.Handler.Delete)
	}
}
