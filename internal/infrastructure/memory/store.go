// Package memory provides an in-process implementation of the domain
// repositories. It backs unit tests and executes query predicates
// directly instead of translating them to SQL.
//
// Entities live in id-keyed arenas; the weak back-reference sets
// (User.AssignedTaskIDs, TaskStatus.TaskIDs, Label.TaskIDs) are derived
// indices recomputed on every task mutation so both directions of a
// relation always state the same fact.
package memory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
)

// ErrNotFound is returned for lookups of ids the store has never seen
// or that were deleted.
var ErrNotFound = errors.New("not found")

type Store struct {
	mu sync.Mutex

	users    map[int64]*entity.User
	statuses map[int64]*entity.TaskStatus
	labels   map[int64]*entity.Label
	tasks    map[int64]*entity.Task

	nextID int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*entity.User),
		statuses: make(map[int64]*entity.TaskStatus),
		labels:   make(map[int64]*entity.Label),
		tasks:    make(map[int64]*entity.Task),
	}
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// The store viewed through each repository interface.
func (s *Store) Users() *UserRepo      { return &UserRepo{s} }
func (s *Store) Statuses() *StatusRepo { return &StatusRepo{s} }
func (s *Store) Labels() *LabelRepo    { return &LabelRepo{s} }
func (s *Store) Tasks() *TaskRepo      { return &TaskRepo{s} }

// reindex rebuilds every derived back-reference set from the tasks
// arena. Called with the lock held after any task mutation; rebuilding
// keeps the two sides of each relation symmetric by construction.
func (s *Store) reindex() {
	for _, u := range s.users {
		u.AssignedTaskIDs = nil
	}
	for _, st := range s.statuses {
		st.TaskIDs = nil
	}
	for _, l := range s.labels {
		l.TaskIDs = nil
	}
	ids := make([]int64, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		t := s.tasks[id]
		if t.AssigneeID != nil {
			if u, ok := s.users[*t.AssigneeID]; ok {
				u.AssignedTaskIDs = append(u.AssignedTaskIDs, t.ID)
			}
		}
		if st, ok := s.statuses[t.StatusID]; ok {
			st.TaskIDs = append(st.TaskIDs, t.ID)
		}
		for _, lid := range t.LabelIDs {
			if l, ok := s.labels[lid]; ok {
				l.TaskIDs = append(l.TaskIDs, t.ID)
			}
		}
	}
}

func copyIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	c.AssignedTaskIDs = copyIDs(u.AssignedTaskIDs)
	return &c
}

func copyStatus(st *entity.TaskStatus) *entity.TaskStatus {
	c := *st
	c.TaskIDs = copyIDs(st.TaskIDs)
	return &c
}

func copyLabel(l *entity.Label) *entity.Label {
	c := *l
	c.TaskIDs = copyIDs(l.TaskIDs)
	return &c
}

func (s *Store) copyTask(t *entity.Task) *entity.Task {
	c := *t
	c.LabelIDs = copyIDs(t.LabelIDs)
	if t.Index != nil {
		idx := *t.Index
		c.Index = &idx
	}
	if t.AssigneeID != nil {
		aid := *t.AssigneeID
		c.AssigneeID = &aid
	}
	if st, ok := s.statuses[t.StatusID]; ok {
		c.StatusSlug = st.Slug
	}
	return &c
}

// ---- users ----

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.ID = r.s.allocID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepo) GetByID(id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *UserRepo) ExistsByEmail(email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	u.CreatedAt = stored.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	c := copyUser(u)
	c.AssignedTaskIDs = copyIDs(stored.AssignedTaskIDs)
	r.s.users[u.ID] = c
	return nil
}

func (r *UserRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) FindMatching(f query.UserFilter, p query.Page) ([]*entity.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pred := f.Predicate()
	matched := make([]*entity.User, 0, len(r.s.users))
	for _, u := range sortedValues(r.s.users) {
		if pred(u) {
			matched = append(matched, copyUser(u))
		}
	}
	total := int64(len(matched))
	return query.Slice(matched, p), total, nil
}

// ---- task statuses ----

type StatusRepo struct{ s *Store }

func (r *StatusRepo) Create(st *entity.TaskStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st.ID = r.s.allocID()
	st.CreatedAt = time.Now().UTC()
	r.s.statuses[st.ID] = copyStatus(st)
	return nil
}

func (r *StatusRepo) GetByID(id int64) (*entity.TaskStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.statuses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyStatus(st), nil
}

func (r *StatusRepo) GetBySlug(slug string) (*entity.TaskStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.statuses {
		if st.Slug == slug {
			return copyStatus(st), nil
		}
	}
	return nil, ErrNotFound
}

func (r *StatusRepo) ExistsByName(name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.statuses {
		if st.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *StatusRepo) ExistsBySlug(slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.statuses {
		if st.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *StatusRepo) Update(st *entity.TaskStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.statuses[st.ID]
	if !ok {
		return ErrNotFound
	}
	st.CreatedAt = stored.CreatedAt
	c := copyStatus(st)
	c.TaskIDs = copyIDs(stored.TaskIDs)
	r.s.statuses[st.ID] = c
	return nil
}

func (r *StatusRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.statuses[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.statuses, id)
	return nil
}

func (r *StatusRepo) List() ([]*entity.TaskStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.TaskStatus, 0, len(r.s.statuses))
	for _, st := range sortedValues(r.s.statuses) {
		out = append(out, copyStatus(st))
	}
	return out, nil
}

// ---- labels ----

type LabelRepo struct{ s *Store }

func (r *LabelRepo) Create(l *entity.Label) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.allocID()
	l.CreatedAt = time.Now().UTC()
	r.s.labels[l.ID] = copyLabel(l)
	return nil
}

func (r *LabelRepo) GetByID(id int64) (*entity.Label, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.labels[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyLabel(l), nil
}

func (r *LabelRepo) GetByIDs(ids []int64) ([]*entity.Label, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Label, 0, len(ids))
	for _, id := range ids {
		if l, ok := r.s.labels[id]; ok {
			out = append(out, copyLabel(l))
		}
	}
	return out, nil
}

func (r *LabelRepo) ExistsByName(name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.labels {
		if l.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *LabelRepo) Update(l *entity.Label) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.labels[l.ID]
	if !ok {
		return ErrNotFound
	}
	l.CreatedAt = stored.CreatedAt
	c := copyLabel(l)
	c.TaskIDs = copyIDs(stored.TaskIDs)
	r.s.labels[l.ID] = c
	return nil
}

func (r *LabelRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.labels[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.labels, id)
	return nil
}

func (r *LabelRepo) List() ([]*entity.Label, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Label, 0, len(r.s.labels))
	for _, l := range sortedValues(r.s.labels) {
		out = append(out, copyLabel(l))
	}
	return out, nil
}

// ---- tasks ----

type TaskRepo struct{ s *Store }

func (r *TaskRepo) Create(t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.allocID()
	t.CreatedAt = time.Now().UTC()
	r.s.tasks[t.ID] = r.s.copyTask(t)
	r.s.reindex()
	if st, ok := r.s.statuses[t.StatusID]; ok {
		t.StatusSlug = st.Slug
	}
	return nil
}

func (r *TaskRepo) GetByID(id int64) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.s.copyTask(t), nil
}

func (r *TaskRepo) Update(t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tasks[t.ID]
	if !ok {
		return ErrNotFound
	}
	t.CreatedAt = stored.CreatedAt
	r.s.tasks[t.ID] = r.s.copyTask(t)
	r.s.reindex()
	if st, ok := r.s.statuses[t.StatusID]; ok {
		t.StatusSlug = st.Slug
	}
	return nil
}

func (r *TaskRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.tasks, id)
	r.s.reindex()
	return nil
}

func (r *TaskRepo) FindMatching(f query.TaskFilter, p query.Page) ([]*entity.Task, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pred := f.Predicate()
	matched := make([]*entity.Task, 0, len(r.s.tasks))
	for _, t := range sortedValues(r.s.tasks) {
		hydrated := r.s.copyTask(t)
		if pred(hydrated) {
			matched = append(matched, hydrated)
		}
	}
	total := int64(len(matched))
	return query.Slice(matched, p), total, nil
}

func (r *TaskRepo) ExistsByAssigneeID(userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *TaskRepo) ExistsByStatusID(statusID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tasks {
		if t.StatusID == statusID {
			return true, nil
		}
	}
	return false, nil
}

func (r *TaskRepo) ExistsByLabelID(labelID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tasks {
		for _, lid := range t.LabelIDs {
			if lid == labelID {
				return true, nil
			}
		}
	}
	return false, nil
}

func sortedValues[V any](m map[int64]V) []V {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
