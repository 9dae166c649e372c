package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/infrastructure/memory"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
	"github.com/oksasatya/task-manager-api/pkg/patch"
)

func newUserFixture(t *testing.T) (*memory.Store, *UserService) {
	t.Helper()
	store := memory.NewStore()
	return store, NewUserService(store.Users(), store.Tasks(), nil, nil, "")
}

func asPrincipal(u *entity.User) Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

func TestUserServiceCreate(t *testing.T) {
	_, svc := newUserFixture(t)

	u, err := svc.Create(UserCreateInput{Email: "jack@example.com", FirstName: "Jack", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.True(t, helpers.CompareHashAndPassword(u.PasswordDigest, "secret"))

	_, err = svc.Create(UserCreateInput{Email: "jack@example.com", Password: "other"})
	var cf *ConflictError
	require.ErrorAs(t, err, &cf)
}

func TestUserServiceUpdate(t *testing.T) {
	t.Run("patch fields", func(t *testing.T) {
		_, svc := newUserFixture(t)
		u, err := svc.Create(UserCreateInput{Email: "jack@example.com", FirstName: "Jack", LastName: "Doe", Password: "secret"})
		require.NoError(t, err)

		got, err := svc.Update(asPrincipal(u), u.ID, UserUpdateInput{
			FirstName: patch.Value("John"),
			LastName:  patch.Null[string](),
		})
		require.NoError(t, err)
		assert.Equal(t, "John", got.FirstName)
		assert.Empty(t, got.LastName)
		assert.Equal(t, "jack@example.com", got.Email)
	})

	t.Run("null email rejected", func(t *testing.T) {
		_, svc := newUserFixture(t)
		u, err := svc.Create(UserCreateInput{Email: "jack@example.com", Password: "secret"})
		require.NoError(t, err)

		_, err = svc.Update(asPrincipal(u), u.ID, UserUpdateInput{Email: patch.Null[string]()})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "email")
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		_, svc := newUserFixture(t)
		u, err := svc.Create(UserCreateInput{Email: "jack@example.com", Password: "secret"})
		require.NoError(t, err)

		_, err = svc.Update(asPrincipal(u), u.ID, UserUpdateInput{Email: patch.Value("not-an-email")})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("email conflict only when changed", func(t *testing.T) {
		_, svc := newUserFixture(t)
		u, err := svc.Create(UserCreateInput{Email: "jack@example.com", Password: "secret"})
		require.NoError(t, err)
		_, err = svc.Create(UserCreateInput{Email: "jill@example.com", Password: "secret"})
		require.NoError(t, err)

		// resending own email is a no-op, not a conflict
		_, err = svc.Update(asPrincipal(u), u.ID, UserUpdateInput{Email: patch.Value("jack@example.com")})
		require.NoError(t, err)

		_, err = svc.Update(asPrincipal(u), u.ID, UserUpdateInput{Email: patch.Value("jill@example.com")})
		var cf *ConflictError
		require.ErrorAs(t, err, &cf)
	})

	t.Run("password rules", func(t *testing.T) {
		_, svc := newUserFixture(t)
		u, err := svc.Create(UserCreateInput{Email: "jack@example.com", Password: "secret"})
		require.NoError(t, err)

		_, err = svc.Update(asPrincipal(u), u.ID, UserUpdateInput{Password: patch.Null[string]()})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)

		_, err = svc.Update(asPrincipal(u), u.ID, UserUpdateInput{Password: patch.Value("ab")})
		require.ErrorAs(t, err, &ve)

		got, err := svc.Update(asPrincipal(u), u.ID, UserUpdateInput{Password: patch.Value("newpass")})
		require.NoError(t, err)
		assert.True(t, helpers.CompareHashAndPassword(got.PasswordDigest, "newpass"))
	})

	t.Run("authorization", func(t *testing.T) {
		_, svc := newUserFixture(t)
		u, err := svc.Create(UserCreateInput{Email: "jack@example.com", Password: "secret"})
		require.NoError(t, err)
		other, err := svc.Create(UserCreateInput{Email: "jill@example.com", Password: "secret"})
		require.NoError(t, err)

		_, err = svc.Update(asPrincipal(other), u.ID, UserUpdateInput{FirstName: patch.Value("X")})
		assert.ErrorIs(t, err, ErrForbidden)

		admin := Principal{ID: 9999, Role: entity.RoleAdmin}
		_, err = svc.Update(admin, u.ID, UserUpdateInput{FirstName: patch.Value("X")})
		assert.NoError(t, err)
	})
}

func TestUserServiceDelete(t *testing.T) {
	t.Run("guarded by assigned tasks", func(t *testing.T) {
		store, svc := newUserFixture(t)
		u, err := svc.Create(UserCreateInput{Email: "jack@example.com", Password: "secret"})
		require.NoError(t, err)

		status := &entity.TaskStatus{Name: "Draft", Slug: "draft"}
		require.NoError(t, store.Statuses().Create(status))
		task := &entity.Task{Name: "t", StatusID: status.ID, AssigneeID: &u.ID}
		require.NoError(t, store.Tasks().Create(task))

		err = svc.Delete(asPrincipal(u), u.ID)
		var cf *ConflictError
		require.ErrorAs(t, err, &cf)
		assert.Contains(t, cf.Reason, "associated tasks")

		// releasing the task unblocks the delete
		task.AssigneeID = nil
		require.NoError(t, store.Tasks().Update(task))
		require.NoError(t, svc.Delete(asPrincipal(u), u.ID))
	})

	t.Run("only self or admin", func(t *testing.T) {
		_, svc := newUserFixture(t)
		u, err := svc.Create(UserCreateInput{Email: "jack@example.com", Password: "secret"})
		require.NoError(t, err)
		other, err := svc.Create(UserCreateInput{Email: "jill@example.com", Password: "secret"})
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(asPrincipal(other), u.ID), ErrForbidden)
		assert.NoError(t, svc.Delete(Principal{ID: 1, Role: entity.RoleAdmin}, u.ID))
	})
}
