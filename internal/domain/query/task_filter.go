package query

import (
	"strings"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

// TaskFilter holds the optional list-filter parameters of the task
// endpoint. Zero values / nil pointers mean "filter not applied".
type TaskFilter struct {
	TitleCont  string
	AssigneeID *int64
	Status     string
	LabelID    *int64
}

// Predicate composes the filter into a single conjunctive predicate.
func (f TaskFilter) Predicate() Predicate[*entity.Task] {
	return And(
		withTitleCont(f.TitleCont),
		withAssigneeID(f.AssigneeID),
		withStatus(f.Status),
		withLabelID(f.LabelID),
	)
}

func withTitleCont(titleCont string) Predicate[*entity.Task] {
	if strings.TrimSpace(titleCont) == "" {
		return True[*entity.Task]()
	}
	needle := strings.ToLower(titleCont)
	return func(t *entity.Task) bool {
		return strings.Contains(strings.ToLower(t.Name), needle)
	}
}

func withAssigneeID(assigneeID *int64) Predicate[*entity.Task] {
	if assigneeID == nil {
		return True[*entity.Task]()
	}
	return func(t *entity.Task) bool {
		return t.AssigneeID != nil && *t.AssigneeID == *assigneeID
	}
}

func withStatus(slug string) Predicate[*entity.Task] {
	if strings.TrimSpace(slug) == "" {
		return True[*entity.Task]()
	}
	return func(t *entity.Task) bool {
		return t.StatusSlug == slug
	}
}

// withLabelID matches tasks carrying the label; the relational
// backends express the same test as a join/EXISTS instead of a scan.
func withLabelID(labelID *int64) Predicate[*entity.Task] {
	if labelID == nil {
		return True[*entity.Task]()
	}
	return func(t *entity.Task) bool {
		return t.HasLabel(*labelID)
	}
}
