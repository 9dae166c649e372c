package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
	"github.com/oksasatya/task-manager-api/internal/infrastructure/memory"
	"github.com/oksasatya/task-manager-api/pkg/patch"
)

type taskFixture struct {
	store *memory.Store
	svc   *TaskService

	draft     *entity.TaskStatus
	published *entity.TaskStatus
	alice     *entity.User
	bob       *entity.User
	feature   *entity.Label
	bug       *entity.Label
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	store := memory.NewStore()
	f := &taskFixture{
		store:     store,
		svc:       NewTaskService(store.Tasks(), store.Statuses(), store.Users(), store.Labels(), nil),
		draft:     &entity.TaskStatus{Name: "Draft", Slug: "draft"},
		published: &entity.TaskStatus{Name: "Published", Slug: "published"},
		alice:     &entity.User{Email: "alice@example.com", Role: entity.RoleUser},
		bob:       &entity.User{Email: "bob@example.com", Role: entity.RoleUser},
		feature:   &entity.Label{Name: "feature"},
		bug:       &entity.Label{Name: "bug"},
	}
	require.NoError(t, store.Statuses().Create(f.draft))
	require.NoError(t, store.Statuses().Create(f.published))
	require.NoError(t, store.Users().Create(f.alice))
	require.NoError(t, store.Users().Create(f.bob))
	require.NoError(t, store.Labels().Create(f.feature))
	require.NoError(t, store.Labels().Create(f.bug))
	return f
}

func (f *taskFixture) createTask(t *testing.T, in TaskCreateInput) *entity.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	return task
}

func TestTaskServiceCreate(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	t.Run("full task", func(t *testing.T) {
		task, err := f.svc.Create(ctx, TaskCreateInput{
			Title:      "Write docs",
			Content:    "user guide",
			Status:     "draft",
			AssigneeID: &f.alice.ID,
			LabelIDs:   []int64{f.feature.ID, f.bug.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, "Write docs", task.Name)
		assert.Equal(t, "draft", task.StatusSlug)
		assert.Equal(t, f.draft.ID, task.StatusID)
		require.NotNil(t, task.AssigneeID)
		assert.Equal(t, f.alice.ID, *task.AssigneeID)
		assert.ElementsMatch(t, []int64{f.feature.ID, f.bug.ID}, task.LabelIDs)

		// back-references follow
		alice, err := f.store.Users().GetByID(f.alice.ID)
		require.NoError(t, err)
		assert.Contains(t, alice.AssignedTaskIDs, task.ID)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := f.svc.Create(ctx, TaskCreateInput{Title: "   ", Status: "draft"})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "title")
	})

	t.Run("unknown status slug", func(t *testing.T) {
		_, err := f.svc.Create(ctx, TaskCreateInput{Title: "x", Status: "nope"})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "TaskStatus", nf.Resource)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		missing := int64(9999)
		_, err := f.svc.Create(ctx, TaskCreateInput{Title: "x", Status: "draft", AssigneeID: &missing})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "User", nf.Resource)
	})

	t.Run("unknown label fails whole create", func(t *testing.T) {
		_, err := f.svc.Create(ctx, TaskCreateInput{
			Title:    "x",
			Status:   "draft",
			LabelIDs: []int64{f.feature.ID, 9999},
		})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Label", nf.Resource)
	})

	t.Run("duplicate label ids collapsed", func(t *testing.T) {
		task := f.createTask(t, TaskCreateInput{
			Title:    "dup labels",
			Status:   "draft",
			LabelIDs: []int64{f.bug.ID, f.bug.ID},
		})
		assert.Equal(t, []int64{f.bug.ID}, task.LabelIDs)
	})
}

func TestTaskServiceUpdatePatchSemantics(t *testing.T) {
	ctx := context.Background()

	t.Run("all fields absent is a no-op", func(t *testing.T) {
		f := newTaskFixture(t)
		orig := f.createTask(t, TaskCreateInput{
			Title:      "stable",
			Content:    "body",
			Status:     "draft",
			AssigneeID: &f.alice.ID,
			LabelIDs:   []int64{f.feature.ID},
		})

		got, err := f.svc.Update(ctx, orig.ID, TaskUpdateInput{})
		require.NoError(t, err)
		assert.Equal(t, orig.Name, got.Name)
		assert.Equal(t, orig.Description, got.Description)
		assert.Equal(t, orig.StatusID, got.StatusID)
		assert.Equal(t, orig.AssigneeID, got.AssigneeID)
		assert.Equal(t, orig.LabelIDs, got.LabelIDs)
	})

	t.Run("null title rejected", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft"})

		_, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{Title: patch.Null[string]()})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "title")
	})

	t.Run("null status rejected", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft"})

		_, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{Status: patch.Null[string]()})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "status")
	})

	t.Run("null content clears", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Content: "body", Status: "draft"})

		got, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{Content: patch.Null[string]()})
		require.NoError(t, err)
		assert.Empty(t, got.Description)
	})

	t.Run("null assignee clears both sides", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft", AssigneeID: &f.alice.ID})

		got, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{AssigneeID: patch.Null[int64]()})
		require.NoError(t, err)
		assert.Nil(t, got.AssigneeID)

		alice, err := f.store.Users().GetByID(f.alice.ID)
		require.NoError(t, err)
		assert.NotContains(t, alice.AssignedTaskIDs, task.ID)
	})

	t.Run("status change moves back-references", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft"})

		got, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{Status: patch.Value("published")})
		require.NoError(t, err)
		assert.Equal(t, "published", got.StatusSlug)

		draft, err := f.store.Statuses().GetByID(f.draft.ID)
		require.NoError(t, err)
		assert.NotContains(t, draft.TaskIDs, task.ID)
		published, err := f.store.Statuses().GetByID(f.published.ID)
		require.NoError(t, err)
		assert.Contains(t, published.TaskIDs, task.ID)
	})

	t.Run("reassignment moves back-references", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft", AssigneeID: &f.alice.ID})

		got, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{AssigneeID: patch.Value(f.bob.ID)})
		require.NoError(t, err)
		require.NotNil(t, got.AssigneeID)
		assert.Equal(t, f.bob.ID, *got.AssigneeID)

		alice, err := f.store.Users().GetByID(f.alice.ID)
		require.NoError(t, err)
		assert.NotContains(t, alice.AssignedTaskIDs, task.ID)
		bob, err := f.store.Users().GetByID(f.bob.ID)
		require.NoError(t, err)
		assert.Contains(t, bob.AssignedTaskIDs, task.ID)
	})

	t.Run("unknown task", func(t *testing.T) {
		f := newTaskFixture(t)
		_, err := f.svc.Update(ctx, 9999, TaskUpdateInput{Title: patch.Value("x")})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Task", nf.Resource)
	})
}

func TestTaskServiceUpdateLabelReplacement(t *testing.T) {
	ctx := context.Background()

	t.Run("sent set replaces, not merges", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft", LabelIDs: []int64{f.feature.ID}})

		got, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{
			LabelIDs: patch.Value([]int64{f.bug.ID}),
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.bug.ID}, got.LabelIDs)

		feature, err := f.store.Labels().GetByID(f.feature.ID)
		require.NoError(t, err)
		assert.NotContains(t, feature.TaskIDs, task.ID)
		bug, err := f.store.Labels().GetByID(f.bug.ID)
		require.NoError(t, err)
		assert.Contains(t, bug.TaskIDs, task.ID)
	})

	t.Run("empty set clears labels and back-references", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft", LabelIDs: []int64{f.feature.ID, f.bug.ID}})

		got, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{
			LabelIDs: patch.Value([]int64{}),
		})
		require.NoError(t, err)
		assert.Empty(t, got.LabelIDs)

		for _, labelID := range []int64{f.feature.ID, f.bug.ID} {
			l, lErr := f.store.Labels().GetByID(labelID)
			require.NoError(t, lErr)
			assert.NotContains(t, l.TaskIDs, task.ID)
		}
	})

	t.Run("unresolvable id fails the whole replacement", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft", LabelIDs: []int64{f.feature.ID}})

		_, err := f.svc.Update(ctx, task.ID, TaskUpdateInput{
			LabelIDs: patch.Value([]int64{f.bug.ID, 9999}),
		})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Label", nf.Resource)

		// stored task untouched: still the original set, no partial write
		current, gErr := f.store.Tasks().GetByID(task.ID)
		require.NoError(t, gErr)
		assert.Equal(t, []int64{f.feature.ID}, current.LabelIDs)
		feature, lErr := f.store.Labels().GetByID(f.feature.ID)
		require.NoError(t, lErr)
		assert.Contains(t, feature.TaskIDs, task.ID)
	})

	t.Run("replacement is idempotent", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{Title: "t", Status: "draft"})
		in := TaskUpdateInput{LabelIDs: patch.Value([]int64{f.feature.ID, f.bug.ID})}

		first, err := f.svc.Update(ctx, task.ID, in)
		require.NoError(t, err)
		second, err := f.svc.Update(ctx, task.ID, in)
		require.NoError(t, err)
		assert.Equal(t, first.LabelIDs, second.LabelIDs)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete drops all back-references", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, TaskCreateInput{
			Title:      "t",
			Status:     "draft",
			AssigneeID: &f.alice.ID,
			LabelIDs:   []int64{f.feature.ID},
		})

		require.NoError(t, f.svc.Delete(ctx, task.ID))

		_, err := f.svc.Get(task.ID)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)

		alice, err := f.store.Users().GetByID(f.alice.ID)
		require.NoError(t, err)
		assert.NotContains(t, alice.AssignedTaskIDs, task.ID)
		feature, err := f.store.Labels().GetByID(f.feature.ID)
		require.NoError(t, err)
		assert.NotContains(t, feature.TaskIDs, task.ID)
	})

	t.Run("unknown task", func(t *testing.T) {
		f := newTaskFixture(t)
		err := f.svc.Delete(ctx, 9999)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestTaskServiceList(t *testing.T) {
	f := newTaskFixture(t)

	f.createTask(t, TaskCreateInput{Title: "Fix login bug", Status: "draft", AssigneeID: &f.alice.ID, LabelIDs: []int64{f.bug.ID}})
	f.createTask(t, TaskCreateInput{Title: "Ship search feature", Status: "published", AssigneeID: &f.bob.ID, LabelIDs: []int64{f.feature.ID}})
	f.createTask(t, TaskCreateInput{Title: "Fix search ranking", Status: "published", AssigneeID: &f.alice.ID})

	tests := []struct {
		name       string
		filter     query.TaskFilter
		wantTitles []string
	}{
		{
			name:       "no filter returns everything",
			filter:     query.TaskFilter{},
			wantTitles: []string{"Fix login bug", "Ship search feature", "Fix search ranking"},
		},
		{
			name:       "title substring, case-insensitive",
			filter:     query.TaskFilter{TitleCont: "fix"},
			wantTitles: []string{"Fix login bug", "Fix search ranking"},
		},
		{
			name:       "by assignee",
			filter:     query.TaskFilter{AssigneeID: &f.bob.ID},
			wantTitles: []string{"Ship search feature"},
		},
		{
			name:       "by status slug",
			filter:     query.TaskFilter{Status: "published"},
			wantTitles: []string{"Ship search feature", "Fix search ranking"},
		},
		{
			name:       "by label",
			filter:     query.TaskFilter{LabelID: &f.bug.ID},
			wantTitles: []string{"Fix login bug"},
		},
		{
			name:       "conjunction of predicates",
			filter:     query.TaskFilter{TitleCont: "search", Status: "published", AssigneeID: &f.alice.ID},
			wantTitles: []string{"Fix search ranking"},
		},
		{
			name:       "unknown status slug matches nothing",
			filter:     query.TaskFilter{Status: "archived"},
			wantTitles: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := f.svc.List(tt.filter, query.Page{})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.wantTitles)), total)
			titles := make([]string, 0, len(tasks))
			for _, task := range tasks {
				titles = append(titles, task.Name)
			}
			assert.ElementsMatch(t, tt.wantTitles, titles)
		})
	}

	t.Run("pagination", func(t *testing.T) {
		tasks, total, err := f.svc.List(query.TaskFilter{}, query.Page{Number: 1, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, tasks, 2)

		tasks, _, err = f.svc.List(query.TaskFilter{}, query.Page{Number: 2, Size: 2})
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})
}
