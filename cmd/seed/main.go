package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/task-manager-api/config"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	pginfra "github.com/oksasatya/task-manager-api/internal/infrastructure/postgres"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

// Seeds the default admin account, the standard task statuses and the
// base labels. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	statuses := pginfra.NewTaskStatusRepository(pool)
	labels := pginfra.NewLabelRepository(pool)

	exists, err := users.ExistsByEmail(cfg.SeedAdminEmail)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if !exists {
		digest, hErr := helpers.HashPassword(cfg.SeedAdminPassword)
		if hErr != nil {
			log.Fatalf("seed: %v", hErr)
		}
		admin := &entity.User{Email: cfg.SeedAdminEmail, PasswordDigest: digest, Role: entity.RoleAdmin}
		if cErr := users.Create(admin); cErr != nil {
			log.Fatalf("seed admin: %v", cErr)
		}
		logger.WithField("email", cfg.SeedAdminEmail).Info("admin user created")
	}

	defaultStatuses := []entity.TaskStatus{
		{Name: "Draft", Slug: "draft"},
		{Name: "To Review", Slug: "to_review"},
		{Name: "To Be Fixed", Slug: "to_be_fixed"},
		{Name: "To Publish", Slug: "to_publish"},
		{Name: "Published", Slug: "published"},
	}
	for i := range defaultStatuses {
		st := defaultStatuses[i]
		taken, sErr := statuses.ExistsBySlug(st.Slug)
		if sErr != nil {
			log.Fatalf("seed statuses: %v", sErr)
		}
		if taken {
			continue
		}
		if cErr := statuses.Create(&st); cErr != nil {
			log.Fatalf("seed status %s: %v", st.Slug, cErr)
		}
		logger.WithField("slug", st.Slug).Info("task status created")
	}

	for _, name := range []string{"feature", "bug"} {
		taken, lErr := labels.ExistsByName(name)
		if lErr != nil {
			log.Fatalf("seed labels: %v", lErr)
		}
		if taken {
			continue
		}
		if cErr := labels.Create(&entity.Label{Name: name}); cErr != nil {
			log.Fatalf("seed label %s: %v", name, cErr)
		}
		logger.WithField("name", name).Info("label created")
	}

	logger.Info("seed complete")
}
