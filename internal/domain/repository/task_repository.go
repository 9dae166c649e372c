package repository

import (
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
)

// TaskRepository defines the interface for task-related database operations.
// The ExistsBy* probes back the referential-integrity guard: a user,
// status or label still referenced by a task must not be deleted.
type TaskRepository interface {
	Create(t *entity.Task) error
	GetByID(id int64) (*entity.Task, error)
	Update(t *entity.Task) error
	Delete(id int64) error
	FindMatching(f query.TaskFilter, p query.Page) ([]*entity.Task, int64, error)

	ExistsByAssigneeID(userID int64) (bool, error)
	ExistsByStatusID(statusID int64) (bool, error)
	ExistsByLabelID(labelID int64) (bool, error)
}
