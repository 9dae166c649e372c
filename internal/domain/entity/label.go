package entity

import "time"

// Label is a free-form tag attached to tasks (many-to-many).
// Name is unique, 3..1000 characters.
type Label struct {
	ID        int64
	Name      string
	CreatedAt time.Time

	// TaskIDs is a weak back-reference set; Task.LabelIDs owns the fact.
	TaskIDs []int64
}
