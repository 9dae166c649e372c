package entity

import "time"

// Task references its status, assignee and labels by id rather than by
// pointer, so the graph stays acyclic and trivially serializable. The
// reverse sides (TaskStatus.TaskIDs, User.AssignedTaskIDs,
// Label.TaskIDs) are derived indices kept in sync by the storage layer.
type Task struct {
	ID          int64
	Index       *int
	Name        string
	Description string
	StatusID    int64
	AssigneeID  *int64
	LabelIDs    []int64
	CreatedAt   time.Time

	// StatusSlug is hydrated on load (joined from the status row);
	// StatusID is authoritative.
	StatusSlug string
}

// HasLabel reports membership of a label id in the task's label set.
func (t *Task) HasLabel(labelID int64) bool {
	for _, id := range t.LabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}
