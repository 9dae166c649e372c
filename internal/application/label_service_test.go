package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/infrastructure/memory"
	"github.com/oksasatya/task-manager-api/pkg/patch"
)

func newLabelFixture(t *testing.T) (*memory.Store, *LabelService) {
	t.Helper()
	store := memory.NewStore()
	return store, NewLabelService(store.Labels(), store.Tasks(), nil)
}

func TestLabelServiceCreate(t *testing.T) {
	_, svc := newLabelFixture(t)

	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{name: "valid", label: "bug", wantErr: false},
		{name: "too short", label: "ab", wantErr: true},
		{name: "too long", label: strings.Repeat("x", 1001), wantErr: true},
		{name: "max length ok", label: strings.Repeat("y", 1000), wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(LabelCreateInput{Name: tt.label})
			if tt.wantErr {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
		})
	}

	_, err := svc.Create(LabelCreateInput{Name: "bug"})
	var cf *ConflictError
	require.ErrorAs(t, err, &cf)
}

func TestLabelServiceUpdate(t *testing.T) {
	_, svc := newLabelFixture(t)
	l, err := svc.Create(LabelCreateInput{Name: "bug"})
	require.NoError(t, err)
	_, err = svc.Create(LabelCreateInput{Name: "feature"})
	require.NoError(t, err)

	_, err = svc.Update(l.ID, LabelUpdateInput{Name: patch.Null[string]()})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	// renaming onto self is not a conflict
	got, err := svc.Update(l.ID, LabelUpdateInput{Name: patch.Value("bug")})
	require.NoError(t, err)
	assert.Equal(t, "bug", got.Name)

	_, err = svc.Update(l.ID, LabelUpdateInput{Name: patch.Value("feature")})
	var cf *ConflictError
	require.ErrorAs(t, err, &cf)

	got, err = svc.Update(l.ID, LabelUpdateInput{Name: patch.Value("defect")})
	require.NoError(t, err)
	assert.Equal(t, "defect", got.Name)
}

func TestLabelServiceDelete(t *testing.T) {
	store, svc := newLabelFixture(t)
	l, err := svc.Create(LabelCreateInput{Name: "bug"})
	require.NoError(t, err)

	status := &entity.TaskStatus{Name: "Draft", Slug: "draft"}
	require.NoError(t, store.Statuses().Create(status))
	task := &entity.Task{Name: "t", StatusID: status.ID, LabelIDs: []int64{l.ID}}
	require.NoError(t, store.Tasks().Create(task))

	err = svc.Delete(l.ID)
	var cf *ConflictError
	require.ErrorAs(t, err, &cf)
	assert.Contains(t, cf.Reason, "associated tasks")

	// detaching the label from the task unblocks the delete
	task.LabelIDs = nil
	require.NoError(t, store.Tasks().Update(task))
	require.NoError(t, svc.Delete(l.ID))
}
