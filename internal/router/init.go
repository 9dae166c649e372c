package router

import (
	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/container"
	pginfra "github.com/oksasatya/task-manager-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/router/modules"
)

// InitModules builds repositories, services and handlers from the
// container singletons and registers every feature module with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	pool := container.GetPGPool()
	users := pginfra.NewUserRepository(pool)
	statuses := pginfra.NewTaskStatusRepository(pool)
	labels := pginfra.NewLabelRepository(pool)
	tasks := pginfra.NewTaskRepository(pool)

	authSvc := application.NewAuthService(users, jwt, container.GetRedis(), logger)
	userSvc := application.NewUserService(users, tasks, logger, container.GetGCS(), cfg.GCSBucket)
	taskSvc := application.NewTaskService(tasks, statuses, users, labels, logger)
	taskSvc.ES = container.GetES()
	taskSvc.ESTasksIndex = cfg.ESTasksIndex
	taskSvc.Notify = container.GetRabbitPub()
	statusSvc := application.NewTaskStatusService(statuses, tasks, logger)
	labelSvc := application.NewLabelService(labels, tasks, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), jwt))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, logger), jwt))
	r.Add(modules.NewTaskStatusModule(handlers.NewTaskStatusHandler(statusSvc, logger), jwt))
	r.Add(modules.NewLabelModule(handlers.NewLabelHandler(labelSvc, logger), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
