package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

func sampleUser() *entity.User {
	return &entity.User{
		ID:        4,
		Email:     "john.doe@example.com",
		FirstName: "John",
		LastName:  "Doe",
		CreatedAt: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
	}
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestUserFilter_Predicate(t *testing.T) {
	tests := []struct {
		name   string
		filter UserFilter
		want   bool
	}{
		{"empty filter is a tautology", UserFilter{}, true},
		{"id match", UserFilter{ID: ptr(int64(4))}, true},
		{"id mismatch", UserFilter{ID: ptr(int64(5))}, false},
		{"email exact", UserFilter{Email: "john.doe@example.com"}, true},
		{"email exact is case-sensitive", UserFilter{Email: "John.Doe@example.com"}, false},
		{"email contains, case-insensitive", UserFilter{EmailCont: "DOE"}, true},
		{"first name exact", UserFilter{FirstName: "John"}, true},
		{"first name contains", UserFilter{FirstNameCont: "oh"}, true},
		{"last name exact mismatch", UserFilter{LastName: "Smith"}, false},
		{"last name contains", UserFilter{LastNameCont: "do"}, true},
		{"created on the same day ignores time of day", UserFilter{CreatedAt: day(2024, 3, 15)}, true},
		{"created on another day", UserFilter{CreatedAt: day(2024, 3, 16)}, false},
		{"created strictly after", UserFilter{CreatedAtGt: day(2024, 3, 14)}, true},
		{"gt is strict on the same day", UserFilter{CreatedAtGt: day(2024, 3, 15)}, false},
		{"created strictly before", UserFilter{CreatedAtLt: day(2024, 3, 16)}, true},
		{"lt is strict on the same day", UserFilter{CreatedAtLt: day(2024, 3, 15)}, false},
		{
			"gt and lt combine into a range",
			UserFilter{CreatedAtGt: day(2024, 3, 14), CreatedAtLt: day(2024, 3, 16)},
			true,
		},
		{
			"empty range excludes",
			UserFilter{CreatedAtGt: day(2024, 3, 16), CreatedAtLt: day(2024, 3, 18)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Predicate()(sampleUser()))
		})
	}
}

func TestPage(t *testing.T) {
	p := Page{}.Normalize(10)
	assert.Equal(t, Page{Number: 1, Size: 10}, p)
	assert.Equal(t, 0, p.Offset())

	p = Page{Number: 3, Size: 10}
	assert.Equal(t, 20, p.Offset())

	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, Slice(items, Page{Number: 2, Size: 2}))
	assert.Equal(t, []int{5}, Slice(items, Page{Number: 3, Size: 2}))
	assert.Empty(t, Slice(items, Page{Number: 4, Size: 2}))
}
