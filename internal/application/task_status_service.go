package application

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/patch"
)

// TaskStatusService handles task status CRUD with slug/name uniqueness
// and the delete guard against referencing tasks.
type TaskStatusService struct {
	Statuses repo.TaskStatusRepository
	Tasks    repo.TaskRepository
	Logger   *logrus.Logger
}

func NewTaskStatusService(statuses repo.TaskStatusRepository, tasks repo.TaskRepository, logger *logrus.Logger) *TaskStatusService {
	return &TaskStatusService{Statuses: statuses, Tasks: tasks, Logger: logger}
}

type TaskStatusCreateInput struct {
	Name string
	Slug string
}

type TaskStatusUpdateInput struct {
	Name patch.Field[string]
	Slug patch.Field[string]
}

func (s *TaskStatusService) List() ([]*entity.TaskStatus, error) {
	return s.Statuses.List()
}

func (s *TaskStatusService) Get(id int64) (*entity.TaskStatus, error) {
	st, err := s.Statuses.GetByID(id)
	if err != nil || st == nil {
		return nil, notFound("TaskStatus", id)
	}
	return st, nil
}

func (s *TaskStatusService) Create(in TaskStatusCreateInput) (*entity.TaskStatus, error) {
	if exists, err := s.Statuses.ExistsByName(in.Name); err != nil {
		return nil, err
	} else if exists {
		return nil, conflict("Task status with name %s already exists", in.Name)
	}
	if exists, err := s.Statuses.ExistsBySlug(in.Slug); err != nil {
		return nil, err
	} else if exists {
		return nil, conflict("Task status with slug %s already exists", in.Slug)
	}
	st := &entity.TaskStatus{Name: in.Name, Slug: in.Slug}
	if err := s.Statuses.Create(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *TaskStatusService) Update(id int64, in TaskStatusUpdateInput) (*entity.TaskStatus, error) {
	current, err := s.Statuses.GetByID(id)
	if err != nil || current == nil {
		return nil, notFound("TaskStatus", id)
	}
	next := *current

	if in.Name.Present() {
		name, ok := in.Name.Get()
		if !ok {
			return nil, invalidField("name", "must not be null")
		}
		if strings.TrimSpace(name) == "" {
			return nil, invalidField("name", "is required")
		}
		if name != current.Name {
			exists, eErr := s.Statuses.ExistsByName(name)
			if eErr != nil {
				return nil, eErr
			}
			if exists {
				return nil, conflict("Task status with name %s already exists", name)
			}
		}
		next.Name = name
	}
	if in.Slug.Present() {
		slug, ok := in.Slug.Get()
		if !ok {
			return nil, invalidField("slug", "must not be null")
		}
		if strings.TrimSpace(slug) == "" {
			return nil, invalidField("slug", "is required")
		}
		if slug != current.Slug {
			exists, eErr := s.Statuses.ExistsBySlug(slug)
			if eErr != nil {
				return nil, eErr
			}
			if exists {
				return nil, conflict("Task status with slug %s already exists", slug)
			}
		}
		next.Slug = slug
	}

	if err := s.Statuses.Update(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *TaskStatusService) Delete(id int64) error {
	st, err := s.Statuses.GetByID(id)
	if err != nil || st == nil {
		return notFound("TaskStatus", id)
	}
	referenced, err := s.Tasks.ExistsByStatusID(id)
	if err != nil {
		return err
	}
	if referenced {
		return conflict("Cannot delete task status with associated tasks")
	}
	return s.Statuses.Delete(id)
}
