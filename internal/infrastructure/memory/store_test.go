package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
)

func seedGraph(t *testing.T, s *Store) (*entity.TaskStatus, *entity.User, *entity.Label, *entity.Task) {
	t.Helper()
	status := &entity.TaskStatus{Name: "Draft", Slug: "draft"}
	require.NoError(t, s.Statuses().Create(status))
	user := &entity.User{Email: "jack@example.com", Role: entity.RoleUser}
	require.NoError(t, s.Users().Create(user))
	label := &entity.Label{Name: "bug"}
	require.NoError(t, s.Labels().Create(label))
	task := &entity.Task{Name: "t", StatusID: status.ID, AssigneeID: &user.ID, LabelIDs: []int64{label.ID}}
	require.NoError(t, s.Tasks().Create(task))
	return status, user, label, task
}

func TestStoreBackReferenceSymmetry(t *testing.T) {
	s := NewStore()
	status, user, label, task := seedGraph(t, s)

	t.Run("create links both sides", func(t *testing.T) {
		st, err := s.Statuses().GetByID(status.ID)
		require.NoError(t, err)
		assert.Contains(t, st.TaskIDs, task.ID)

		u, err := s.Users().GetByID(user.ID)
		require.NoError(t, err)
		assert.Contains(t, u.AssignedTaskIDs, task.ID)

		l, err := s.Labels().GetByID(label.ID)
		require.NoError(t, err)
		assert.Contains(t, l.TaskIDs, task.ID)
	})

	t.Run("update relinks", func(t *testing.T) {
		task.AssigneeID = nil
		task.LabelIDs = nil
		require.NoError(t, s.Tasks().Update(task))

		u, err := s.Users().GetByID(user.ID)
		require.NoError(t, err)
		assert.Empty(t, u.AssignedTaskIDs)
		l, err := s.Labels().GetByID(label.ID)
		require.NoError(t, err)
		assert.Empty(t, l.TaskIDs)
	})

	t.Run("delete unlinks", func(t *testing.T) {
		require.NoError(t, s.Tasks().Delete(task.ID))
		st, err := s.Statuses().GetByID(status.ID)
		require.NoError(t, err)
		assert.Empty(t, st.TaskIDs)
	})
}

func TestStoreHydratesStatusSlug(t *testing.T) {
	s := NewStore()
	_, _, _, task := seedGraph(t, s)

	got, err := s.Tasks().GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.StatusSlug)

	listed, total, err := s.Tasks().FindMatching(query.TaskFilter{Status: "draft"}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, task.ID, listed[0].ID)
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	_, _, label, task := seedGraph(t, s)

	got, err := s.Tasks().GetByID(task.ID)
	require.NoError(t, err)
	// mutating the returned value must not leak into the store
	got.Name = "mutated"
	got.LabelIDs[0] = 9999

	again, err := s.Tasks().GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", again.Name)
	assert.Equal(t, []int64{label.ID}, again.LabelIDs)
}

func TestStoreNotFound(t *testing.T) {
	s := NewStore()

	_, err := s.Tasks().GetByID(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users().GetByEmail("missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Labels().Delete(1), ErrNotFound)
	assert.ErrorIs(t, s.Statuses().Update(&entity.TaskStatus{ID: 42}), ErrNotFound)
}
