package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

var errNotFound = errors.New("not found")

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, first_name, last_name, password_digest, role, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordDigest,
		&role, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, first_name, last_name, password_digest, role, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.FirstName, u.LastName, u.PasswordDigest, string(u.Role), u.AvatarURL)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(id int64) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, password_digest = $4, role = $5, avatar_url = $6, updated_at = $7
		WHERE id = $8
	`, u.Email, u.FirstName, u.LastName, u.PasswordDigest, string(u.Role), u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *UserRepository) Delete(id int64) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

// userWhere translates the filter into a conjunctive WHERE clause. Each
// set field contributes one condition; an empty filter matches all rows.
func userWhere(f query.UserFilter) (string, []any) {
	conds := make([]string, 0, 8)
	args := make([]any, 0, 8)
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ID != nil {
		add("id = $%d", *f.ID)
	}
	if f.Email != "" {
		add("email = $%d", f.Email)
	}
	if f.EmailCont != "" {
		add("email ILIKE '%%' || $%d || '%%'", f.EmailCont)
	}
	if f.FirstName != "" {
		add("first_name = $%d", f.FirstName)
	}
	if f.FirstNameCont != "" {
		add("first_name ILIKE '%%' || $%d || '%%'", f.FirstNameCont)
	}
	if f.LastName != "" {
		add("last_name = $%d", f.LastName)
	}
	if f.LastNameCont != "" {
		add("last_name ILIKE '%%' || $%d || '%%'", f.LastNameCont)
	}
	// Date filters compare calendar days in UTC.
	if f.CreatedAt != nil {
		add("(created_at AT TIME ZONE 'UTC')::date = $%d", f.CreatedAt.UTC().Format("2006-01-02"))
	}
	if f.CreatedAtGt != nil {
		add("(created_at AT TIME ZONE 'UTC')::date > $%d", f.CreatedAtGt.UTC().Format("2006-01-02"))
	}
	if f.CreatedAtLt != nil {
		add("(created_at AT TIME ZONE 'UTC')::date < $%d", f.CreatedAtLt.UTC().Format("2006-01-02"))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *UserRepository) FindMatching(f query.UserFilter, p query.Page) ([]*entity.User, int64, error) {
	ctx := context.Background()
	where, args := userWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, p.Size, p.Offset())
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users`+where+
			fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0, p.Size)
	for rows.Next() {
		u, sErr := scanUser(rows)
		if sErr != nil {
			return nil, 0, sErr
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
