package repository

import "github.com/oksasatya/task-manager-api/internal/domain/entity"

// TaskStatusRepository defines the interface for task status storage.
type TaskStatusRepository interface {
	Create(s *entity.TaskStatus) error
	GetByID(id int64) (*entity.TaskStatus, error)
	GetBySlug(slug string) (*entity.TaskStatus, error)
	ExistsByName(name string) (bool, error)
	ExistsBySlug(slug string) (bool, error)
	Update(s *entity.TaskStatus) error
	Delete(id int64) error
	List() ([]*entity.TaskStatus, error)
}
