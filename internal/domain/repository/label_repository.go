package repository

import "github.com/oksasatya/task-manager-api/internal/domain/entity"

// LabelRepository defines the interface for label storage.
type LabelRepository interface {
	Create(l *entity.Label) error
	GetByID(id int64) (*entity.Label, error)
	// GetByIDs returns the labels found for ids; callers compare lengths
	// to detect unresolvable ids.
	GetByIDs(ids []int64) ([]*entity.Label, error)
	ExistsByName(name string) (bool, error)
	Update(l *entity.Label) error
	Delete(id int64) error
	List() ([]*entity.Label, error)
}
