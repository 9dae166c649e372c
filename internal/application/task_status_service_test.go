package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/infrastructure/memory"
	"github.com/oksasatya/task-manager-api/pkg/patch"
)

func newStatusFixture(t *testing.T) (*memory.Store, *TaskStatusService) {
	t.Helper()
	store := memory.NewStore()
	return store, NewTaskStatusService(store.Statuses(), store.Tasks(), nil)
}

func TestTaskStatusServiceCreate(t *testing.T) {
	_, svc := newStatusFixture(t)

	st, err := svc.Create(TaskStatusCreateInput{Name: "Draft", Slug: "draft"})
	require.NoError(t, err)
	assert.NotZero(t, st.ID)

	var cf *ConflictError
	_, err = svc.Create(TaskStatusCreateInput{Name: "Draft", Slug: "draft2"})
	require.ErrorAs(t, err, &cf)

	_, err = svc.Create(TaskStatusCreateInput{Name: "Draft 2", Slug: "draft"})
	require.ErrorAs(t, err, &cf)
}

func TestTaskStatusServiceUpdate(t *testing.T) {
	t.Run("null name rejected", func(t *testing.T) {
		_, svc := newStatusFixture(t)
		st, err := svc.Create(TaskStatusCreateInput{Name: "Draft", Slug: "draft"})
		require.NoError(t, err)

		_, err = svc.Update(st.ID, TaskStatusUpdateInput{Name: patch.Null[string]()})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)

		_, err = svc.Update(st.ID, TaskStatusUpdateInput{Slug: patch.Null[string]()})
		require.ErrorAs(t, err, &ve)
	})

	t.Run("uniqueness checked only when changed", func(t *testing.T) {
		_, svc := newStatusFixture(t)
		st, err := svc.Create(TaskStatusCreateInput{Name: "Draft", Slug: "draft"})
		require.NoError(t, err)
		_, err = svc.Create(TaskStatusCreateInput{Name: "Published", Slug: "published"})
		require.NoError(t, err)

		// resending the current slug is fine
		got, err := svc.Update(st.ID, TaskStatusUpdateInput{Slug: patch.Value("draft"), Name: patch.Value("Draft v2")})
		require.NoError(t, err)
		assert.Equal(t, "Draft v2", got.Name)

		_, err = svc.Update(st.ID, TaskStatusUpdateInput{Slug: patch.Value("published")})
		var cf *ConflictError
		require.ErrorAs(t, err, &cf)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, svc := newStatusFixture(t)
		_, err := svc.Update(9999, TaskStatusUpdateInput{Name: patch.Value("X")})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestTaskStatusServiceDelete(t *testing.T) {
	store, svc := newStatusFixture(t)
	st, err := svc.Create(TaskStatusCreateInput{Name: "Draft", Slug: "draft"})
	require.NoError(t, err)

	task := &entity.Task{Name: "t", StatusID: st.ID}
	require.NoError(t, store.Tasks().Create(task))

	err = svc.Delete(st.ID)
	var cf *ConflictError
	require.ErrorAs(t, err, &cf)
	assert.Contains(t, cf.Reason, "associated tasks")

	require.NoError(t, store.Tasks().Delete(task.ID))
	require.NoError(t, svc.Delete(st.ID))

	var nf *NotFoundError
	require.ErrorAs(t, svc.Delete(st.ID), &nf)
}
