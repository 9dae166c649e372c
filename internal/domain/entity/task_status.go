package entity

import "time"

// TaskStatus is a workflow column a task can sit in.
// Slug is the stable identifier used on the wire and in filters;
// Name is the human-readable label. Both are unique.
type TaskStatus struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time

	// TaskIDs is a weak back-reference set; Task.StatusID owns the fact.
	TaskIDs []int64
}
