package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-manager-api/internal/container"
	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

type LabelModule struct {
	Handler *handlers.LabelHandler
	JWT     *helpers.JWTManager
}

func NewLabelModule(h *handlers.LabelHandler, jwt *helpers.JWTManager) *LabelModule {
	return &LabelModule{Handler: h, JWT: jwt}
}

func (m *LabelModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/labels", m.Handler.Index)
		auth.GET("/labels/:id", m.Handler.Show)
		auth.POST("/labels", m.Handler.Create)
		auth.PUT("/labels/:id", m.Handler.Update)
		auth.DELETE("/labels/:id", m.Handler.Delete)
	}
}
