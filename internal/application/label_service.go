package application

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/patch"
)

const (
	labelNameMin = 3
	labelNameMax = 1000
)

// LabelService handles label CRUD with name uniqueness and the delete
// guard against tasks still carrying the label.
type LabelService struct {
	Labels repo.LabelRepository
	Tasks  repo.TaskRepository
	Logger *logrus.Logger
}

func NewLabelService(labels repo.LabelRepository, tasks repo.TaskRepository, logger *logrus.Logger) *LabelService {
	return &LabelService{Labels: labels, Tasks: tasks, Logger: logger}
}

type LabelCreateInput struct {
	Name string
}

type LabelUpdateInput struct {
	Name patch.Field[string]
}

func (s *LabelService) List() ([]*entity.Label, error) {
	return s.Labels.List()
}

func (s *LabelService) Get(id int64) (*entity.Label, error) {
	l, err := s.Labels.GetByID(id)
	if err != nil || l == nil {
		return nil, notFound("Label", id)
	}
	return l, nil
}

func (s *LabelService) Create(in LabelCreateInput) (*entity.Label, error) {
	if len(in.Name) < labelNameMin || len(in.Name) > labelNameMax {
		return nil, invalidField("name", "must be between 3 and 1000 characters long")
	}
	exists, err := s.Labels.ExistsByName(in.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("Label with name %s already exists", in.Name)
	}
	l := &entity.Label{Name: in.Name}
	if err := s.Labels.Create(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LabelService) Update(id int64, in LabelUpdateInput) (*entity.Label, error) {
	current, err := s.Labels.GetByID(id)
	if err != nil || current == nil {
		return nil, notFound("Label", id)
	}
	next := *current

	if in.Name.Present() {
		name, ok := in.Name.Get()
		if !ok {
			return nil, invalidField("name", "must not be null")
		}
		if len(name) < labelNameMin || len(name) > labelNameMax {
			return nil, invalidField("name", "must be between 3 and 1000 characters long")
		}
		if name != current.Name {
			exists, eErr := s.Labels.ExistsByName(name)
			if eErr != nil {
				return nil, eErr
			}
			if exists {
				return nil, conflict("Label with name %s already exists", name)
			}
		}
		next.Name = name
	}

	if err := s.Labels.Update(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *LabelService) Delete(id int64) error {
	l, err := s.Labels.GetByID(id)
	if err != nil || l == nil {
		return notFound("Label", id)
	}
	referenced, err := s.Tasks.ExistsByLabelID(id)
	if err != nil {
		return err
	}
	if referenced {
		return conflict("Cannot delete label with associated tasks")
	}
	return s.Labels.Delete(id)
}
