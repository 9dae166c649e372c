package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
	"github.com/oksasatya/task-manager-api/pkg/mailer"
	"github.com/oksasatya/task-manager-api/pkg/patch"
)

// TaskService owns task CRUD, the tri-state patch applier and the
// referential wiring to statuses, users and labels.
//
// Two concurrent updates to the same task are a last-writer-wins race
// at the storage layer; callers needing optimistic concurrency must add
// a version check below this service.
type TaskService struct {
	Tasks    repo.TaskRepository
	Statuses repo.TaskStatusRepository
	Users    repo.UserRepository
	Labels   repo.LabelRepository
	Logger   *logrus.Logger

	// Optional collaborators; all nil-safe.
	ES           *elasticsearch.Client
	ESTasksIndex string
	Notify       *helpers.RabbitPublisher
}

func NewTaskService(tasks repo.TaskRepository, statuses repo.TaskStatusRepository, users repo.UserRepository, labels repo.LabelRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Statuses: statuses, Users: users, Labels: labels, Logger: logger}
}

type TaskCreateInput struct {
	Index      *int
	Title      string
	Content    string
	Status     string
	AssigneeID *int64
	LabelIDs   []int64
}

type TaskUpdateInput struct {
	Index      patch.Field[int]
	Title      patch.Field[string]
	Content    patch.Field[string]
	Status     patch.Field[string]
	AssigneeID patch.Field[int64]
	LabelIDs   patch.Field[[]int64]
}

func (s *TaskService) List(f query.TaskFilter, p query.Page) ([]*entity.Task, int64, error) {
	return s.Tasks.FindMatching(f, p.Normalize(query.DefaultTaskPageSize))
}

func (s *TaskService) Get(id int64) (*entity.Task, error) {
	t, err := s.Tasks.GetByID(id)
	if err != nil || t == nil {
		return nil, notFound("Task", id)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, in TaskCreateInput) (*entity.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidField("title", "is required")
	}
	status, err := s.resolveStatus(in.Status)
	if err != nil {
		return nil, err
	}
	t := &entity.Task{
		Index:       in.Index,
		Name:        in.Title,
		Description: in.Content,
		StatusID:    status.ID,
		StatusSlug:  status.Slug,
	}
	if in.AssigneeID != nil {
		assignee, aErr := s.resolveAssignee(*in.AssigneeID)
		if aErr != nil {
			return nil, aErr
		}
		t.AssigneeID = &assignee.ID
	}
	if len(in.LabelIDs) > 0 {
		labelIDs, lErr := s.resolveLabelIDs(in.LabelIDs)
		if lErr != nil {
			return nil, lErr
		}
		t.LabelIDs = labelIDs
	}
	if err := s.Tasks.Create(t); err != nil {
		return nil, err
	}
	s.indexTask(ctx, t)
	if t.AssigneeID != nil {
		s.notifyAssigned(ctx, t, *t.AssigneeID)
	}
	return t, nil
}

// Update applies a tri-state patch to the task.
//
// Every foreign key is resolved and every value validated against a
// scratch copy before the repository sees anything, so a NotFound on
// the third label id leaves the task exactly as it was (no partial
// label sets, no stranded reverse links).
func (s *TaskService) Update(ctx context.Context, id int64, in TaskUpdateInput) (*entity.Task, error) {
	current, err := s.Tasks.GetByID(id)
	if err != nil || current == nil {
		return nil, notFound("Task", id)
	}
	next := *current
	next.LabelIDs = append([]int64(nil), current.LabelIDs...)
	prevAssignee := current.AssigneeID

	if in.Title.Present() {
		title, ok := in.Title.Get()
		if !ok {
			return nil, invalidField("title", "must not be null")
		}
		if strings.TrimSpace(title) == "" {
			return nil, invalidField("title", "must be at least 1 characters long")
		}
		next.Name = title
	}
	if in.Index.Present() {
		if idx, ok := in.Index.Get(); ok {
			next.Index = &idx
		} else {
			next.Index = nil
		}
	}
	if in.Content.Present() {
		v, _ := in.Content.Get()
		next.Description = v // null clears
	}
	if in.Status.Present() {
		slug, ok := in.Status.Get()
		if !ok {
			// Status is mandatory; clearing it is a validation error,
			// not a silent no-op.
			return nil, invalidField("status", "must not be null")
		}
		status, sErr := s.resolveStatus(slug)
		if sErr != nil {
			return nil, sErr
		}
		next.StatusID = status.ID
		next.StatusSlug = status.Slug
	}
	if in.AssigneeID.Present() {
		if uid, ok := in.AssigneeID.Get(); ok {
			assignee, aErr := s.resolveAssignee(uid)
			if aErr != nil {
				return nil, aErr
			}
			next.AssigneeID = &assignee.ID
		} else {
			next.AssigneeID = nil // clears the back-reference too
		}
	}
	if in.LabelIDs.Present() {
		// The sent set replaces the whole label set, it is not a merge.
		ids, _ := in.LabelIDs.Get()
		labelIDs, lErr := s.resolveLabelIDs(ids)
		if lErr != nil {
			return nil, lErr
		}
		next.LabelIDs = labelIDs
	}

	if err := s.Tasks.Update(&next); err != nil {
		return nil, err
	}
	s.indexTask(ctx, &next)
	if next.AssigneeID != nil && (prevAssignee == nil || *prevAssignee != *next.AssigneeID) {
		s.notifyAssigned(ctx, &next, *next.AssigneeID)
	}
	return &next, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	t, err := s.Tasks.GetByID(id)
	if err != nil || t == nil {
		return notFound("Task", id)
	}
	if err := s.Tasks.Delete(id); err != nil {
		return err
	}
	s.deindexTask(ctx, id)
	return nil
}

func (s *TaskService) resolveStatus(slug string) (*entity.TaskStatus, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, invalidField("status", "is required")
	}
	status, err := s.Statuses.GetBySlug(slug)
	if err != nil || status == nil {
		return nil, notFound("TaskStatus", slug)
	}
	return status, nil
}

func (s *TaskService) resolveAssignee(userID int64) (*entity.User, error) {
	u, err := s.Users.GetByID(userID)
	if err != nil || u == nil {
		return nil, notFound("User", userID)
	}
	return u, nil
}

// resolveLabelIDs resolves the whole set or fails; an unknown id is a
// hard failure, never silently dropped.
func (s *TaskService) resolveLabelIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	found, err := s.Labels.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]bool, len(found))
	for _, l := range found {
		byID[l.ID] = true
	}
	resolved := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !byID[id] {
			return nil, notFound("Label", id)
		}
		if !containsID(resolved, id) {
			resolved = append(resolved, id)
		}
	}
	return resolved, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// notifyAssigned publishes an assignment event for the notify worker.
// Best-effort: a broker outage must not fail the mutation.
func (s *TaskService) notifyAssigned(ctx context.Context, t *entity.Task, assigneeID int64) {
	if s.Notify == nil {
		return
	}
	assignee, err := s.Users.GetByID(assigneeID)
	if err != nil || assignee == nil {
		return
	}
	job := mailer.AssignmentJob{
		To:        assignee.Email,
		TaskID:    t.ID,
		TaskTitle: t.Name,
		Status:    t.StatusSlug,
	}
	if err := s.Notify.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("assignment notification publish failed")
	}
}

// indexTask mirrors the task into Elasticsearch for full-text search.
func (s *TaskService) indexTask(ctx context.Context, t *entity.Task) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          t.ID,
		"title":       t.Name,
		"content":     t.Description,
		"status":      t.StatusSlug,
		"created_at":  t.CreatedAt.Format(time.RFC3339Nano),
		"assignee_id": t.AssigneeID,
		"label_ids":   t.LabelIDs,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESTasksIndex, DocumentID: helpers.FormatID(t.ID), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("task_id", t.ID).Warn("es index response error")
	}
}

func (s *TaskService) deindexTask(ctx context.Context, id int64) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESTasksIndex, DocumentID: helpers.FormatID(id)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over task titles and descriptions.
func (s *TaskService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESTasksIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
