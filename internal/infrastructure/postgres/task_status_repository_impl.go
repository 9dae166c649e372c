package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

type TaskStatusRepository struct {
	pool *pgxpool.Pool
}

func NewTaskStatusRepository(pool *pgxpool.Pool) *TaskStatusRepository {
	return &TaskStatusRepository{pool: pool}
}

func scanStatus(row pgx.Row) (*entity.TaskStatus, error) {
	st := &entity.TaskStatus{}
	if err := row.Scan(&st.ID, &st.Name, &st.Slug, &st.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return st, nil
}

func (r *TaskStatusRepository) Create(st *entity.TaskStatus) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO task_statuses (name, slug)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, st.Name, st.Slug)
	return row.Scan(&st.ID, &st.CreatedAt)
}

func (r *TaskStatusRepository) GetByID(id int64) (*entity.TaskStatus, error) {
	ctx := context.Background()
	return scanStatus(r.pool.QueryRow(ctx, `SELECT id, name, slug, created_at FROM task_statuses WHERE id = $1`, id))
}

func (r *TaskStatusRepository) GetBySlug(slug string) (*entity.TaskStatus, error) {
	ctx := context.Background()
	return scanStatus(r.pool.QueryRow(ctx, `SELECT id, name, slug, created_at FROM task_statuses WHERE slug = $1`, slug))
}

func (r *TaskStatusRepository) ExistsByName(name string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM task_statuses WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *TaskStatusRepository) ExistsBySlug(slug string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM task_statuses WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *TaskStatusRepository) Update(st *entity.TaskStatus) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE task_statuses SET name = $1, slug = $2 WHERE id = $3
	`, st.Name, st.Slug, st.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *TaskStatusRepository) Delete(id int64) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM task_statuses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *TaskStatusRepository) List() ([]*entity.TaskStatus, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, created_at FROM task_statuses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make([]*entity.TaskStatus, 0, 8)
	for rows.Next() {
		st, sErr := scanStatus(rows)
		if sErr != nil {
			return nil, sErr
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

var _ repository.TaskStatusRepository = (*TaskStatusRepository)(nil)
