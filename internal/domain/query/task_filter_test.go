package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

func ptr[T any](v T) *T { return &v }

func sampleTask() *entity.Task {
	return &entity.Task{
		ID:         1,
		Name:       "Create user authentication filter",
		StatusID:   2,
		StatusSlug: "to_review",
		AssigneeID: ptr(int64(7)),
		LabelIDs:   []int64{3, 5},
	}
}

func TestTaskFilter_Predicate(t *testing.T) {
	tests := []struct {
		name   string
		filter TaskFilter
		want   bool
	}{
		{"empty filter is a tautology", TaskFilter{}, true},
		{"title contains, case-insensitive", TaskFilter{TitleCont: "AUTH"}, true},
		{"title not contained", TaskFilter{TitleCont: "deploy"}, false},
		{"assignee match", TaskFilter{AssigneeID: ptr(int64(7))}, true},
		{"assignee mismatch", TaskFilter{AssigneeID: ptr(int64(8))}, false},
		{"status slug match", TaskFilter{Status: "to_review"}, true},
		{"status slug mismatch", TaskFilter{Status: "draft"}, false},
		{"label membership", TaskFilter{LabelID: ptr(int64(5))}, true},
		{"label not attached", TaskFilter{LabelID: ptr(int64(9))}, false},
		{
			"all filters AND together",
			TaskFilter{TitleCont: "filter", AssigneeID: ptr(int64(7)), Status: "to_review", LabelID: ptr(int64(3))},
			true,
		},
		{
			"one failing atom fails the conjunction",
			TaskFilter{TitleCont: "filter", Status: "draft"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Predicate()(sampleTask()))
		})
	}
}

func TestTaskFilter_NoAssignee(t *testing.T) {
	task := sampleTask()
	task.AssigneeID = nil
	assert.False(t, TaskFilter{AssigneeID: ptr(int64(7))}.Predicate()(task))
	assert.True(t, TaskFilter{}.Predicate()(task))
}

func TestAndEmptyIsTrue(t *testing.T) {
	assert.True(t, And[*entity.Task]()(sampleTask()))
	assert.True(t, True[*entity.Task]()(nil))
}
