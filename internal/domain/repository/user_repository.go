package repository

import (
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id int64) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Update(u *entity.User) error
	Delete(id int64) error
	// FindMatching returns the page of users satisfying the filter plus
	// the total match count, so callers can paginate without a second
	// count query.
	FindMatching(f query.UserFilter, p query.Page) ([]*entity.User, int64, error)
}
