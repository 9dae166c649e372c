package application

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
	"github.com/oksasatya/task-manager-api/pkg/patch"
)

// Principal identifies the authenticated caller. Passed explicitly into
// operations that need authorization instead of being read from ambient
// request state.
type Principal struct {
	ID   int64
	Role entity.Role
}

func (p Principal) IsAdmin() bool { return p.Role == entity.RoleAdmin }

// canMutateUser: a user may change or delete only themselves; admins
// may touch anyone.
func (p Principal) canMutateUser(targetID int64) bool {
	return p.IsAdmin() || p.ID == targetID
}

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService handles user CRUD. Tri-state update semantics live in
// Update; Create takes a definite tuple of fields.
type UserService struct {
	Users     repo.UserRepository
	Tasks     repo.TaskRepository
	Logger    *logrus.Logger
	GCS       *storage.Client
	GCSBucket string
}

func NewUserService(users repo.UserRepository, tasks repo.TaskRepository, logger *logrus.Logger, gcs *storage.Client, gcsBucket string) *UserService {
	return &UserService{Users: users, Tasks: tasks, Logger: logger, GCS: gcs, GCSBucket: gcsBucket}
}

type UserCreateInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type UserUpdateInput struct {
	Email     patch.Field[string]
	FirstName patch.Field[string]
	LastName  patch.Field[string]
	Password  patch.Field[string]
}

func (s *UserService) List(f query.UserFilter, p query.Page) ([]*entity.User, int64, error) {
	return s.Users.FindMatching(f, p)
}

func (s *UserService) Get(id int64) (*entity.User, error) {
	u, err := s.Users.GetByID(id)
	if err != nil || u == nil {
		return nil, notFound("User", id)
	}
	return u, nil
}

func (s *UserService) Create(in UserCreateInput) (*entity.User, error) {
	exists, err := s.Users.ExistsByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("User with email %s already exists", in.Email)
	}
	digest, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PasswordDigest: digest,
		Role:           entity.RoleUser,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies a tri-state patch. All values are validated and
// resolved on a scratch copy before anything is persisted, so a failed
// patch leaves the stored user untouched.
func (s *UserService) Update(actor Principal, id int64, in UserUpdateInput) (*entity.User, error) {
	if !actor.canMutateUser(id) {
		return nil, ErrForbidden
	}
	current, err := s.Users.GetByID(id)
	if err != nil || current == nil {
		return nil, notFound("User", id)
	}
	next := *current

	if in.Email.Present() {
		newEmail, ok := in.Email.Get()
		if !ok {
			return nil, invalidField("email", "must not be null")
		}
		if !emailRx.MatchString(newEmail) {
			return nil, invalidField("email", "must be a valid email")
		}
		// A no-op rename never conflicts with itself.
		if newEmail != current.Email {
			exists, eErr := s.Users.ExistsByEmail(newEmail)
			if eErr != nil {
				return nil, eErr
			}
			if exists {
				return nil, conflict("User with email %s already exists", newEmail)
			}
		}
		next.Email = newEmail
	}
	if in.FirstName.Present() {
		v, _ := in.FirstName.Get()
		next.FirstName = v // null clears
	}
	if in.LastName.Present() {
		v, _ := in.LastName.Get()
		next.LastName = v
	}
	if in.Password.Present() {
		pw, ok := in.Password.Get()
		if !ok {
			return nil, invalidField("password", "must not be null")
		}
		if len(pw) < 3 {
			return nil, invalidField("password", "must be at least 3 characters long")
		}
		digest, hErr := helpers.HashPassword(pw)
		if hErr != nil {
			return nil, hErr
		}
		next.PasswordDigest = digest
	}

	if err := s.Users.Update(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Delete refuses to remove a user that still has assigned tasks.
func (s *UserService) Delete(actor Principal, id int64) error {
	if !actor.canMutateUser(id) {
		return ErrForbidden
	}
	u, err := s.Users.GetByID(id)
	if err != nil || u == nil {
		return notFound("User", id)
	}
	referenced, err := s.Tasks.ExistsByAssigneeID(id)
	if err != nil {
		return err
	}
	if referenced {
		return conflict("Cannot delete user with associated tasks")
	}
	return s.Users.Delete(id)
}

// UploadAvatar stores the image in GCS and records its public URL on
// the user.
func (s *UserService) UploadAvatar(ctx context.Context, actor Principal, id int64, r io.Reader, filename, contentType string) (*entity.User, error) {
	if !actor.canMutateUser(id) {
		return nil, ErrForbidden
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, conflict("avatar storage not configured")
	}
	u, err := s.Users.GetByID(id)
	if err != nil || u == nil {
		return nil, notFound("User", id)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", helpers.FormatID(id), uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Error("avatar upload failed")
		}
		return nil, err
	}
	u.AvatarURL = url
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}
