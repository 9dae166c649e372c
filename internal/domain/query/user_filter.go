package query

import (
	"strings"
	"time"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

// UserFilter holds the optional list-filter parameters of the user
// endpoint. Exact and "contains" variants are independently selectable;
// the three date filters combine into a range when Gt and Lt are set.
type UserFilter struct {
	ID            *int64
	Email         string
	EmailCont     string
	FirstName     string
	FirstNameCont string
	LastName      string
	LastNameCont  string
	CreatedAt     *time.Time
	CreatedAtGt   *time.Time
	CreatedAtLt   *time.Time
}

// Predicate composes the filter into a single conjunctive predicate.
func (f UserFilter) Predicate() Predicate[*entity.User] {
	return And(
		withUserID(f.ID),
		withEquals(f.Email, func(u *entity.User) string { return u.Email }),
		withContains(f.EmailCont, func(u *entity.User) string { return u.Email }),
		withEquals(f.FirstName, func(u *entity.User) string { return u.FirstName }),
		withContains(f.FirstNameCont, func(u *entity.User) string { return u.FirstName }),
		withEquals(f.LastName, func(u *entity.User) string { return u.LastName }),
		withContains(f.LastNameCont, func(u *entity.User) string { return u.LastName }),
		withCreatedOn(f.CreatedAt),
		withCreatedAfter(f.CreatedAtGt),
		withCreatedBefore(f.CreatedAtLt),
	)
}

func withUserID(id *int64) Predicate[*entity.User] {
	if id == nil {
		return True[*entity.User]()
	}
	return func(u *entity.User) bool { return u.ID == *id }
}

func withEquals(want string, get func(*entity.User) string) Predicate[*entity.User] {
	if want == "" {
		return True[*entity.User]()
	}
	return func(u *entity.User) bool { return get(u) == want }
}

func withContains(sub string, get func(*entity.User) string) Predicate[*entity.User] {
	if sub == "" {
		return True[*entity.User]()
	}
	needle := strings.ToLower(sub)
	return func(u *entity.User) bool {
		return strings.Contains(strings.ToLower(get(u)), needle)
	}
}

// Date filters compare calendar days in UTC, not instants.

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func withCreatedOn(day *time.Time) Predicate[*entity.User] {
	if day == nil {
		return True[*entity.User]()
	}
	want := dateOf(*day)
	return func(u *entity.User) bool { return dateOf(u.CreatedAt).Equal(want) }
}

func withCreatedAfter(day *time.Time) Predicate[*entity.User] {
	if day == nil {
		return True[*entity.User]()
	}
	want := dateOf(*day)
	return func(u *entity.User) bool { return dateOf(u.CreatedAt).After(want) }
}

func withCreatedBefore(day *time.Time) Predicate[*entity.User] {
	if day == nil {
		return True[*entity.User]()
	}
	want := dateOf(*day)
	return func(u *entity.User) bool { return dateOf(u.CreatedAt).Before(want) }
}
