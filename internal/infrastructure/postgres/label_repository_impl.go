package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

type LabelRepository struct {
	pool *pgxpool.Pool
}

func NewLabelRepository(pool *pgxpool.Pool) *LabelRepository {
	return &LabelRepository{pool: pool}
}

func scanLabel(row pgx.Row) (*entity.Label, error) {
	l := &entity.Label{}
	if err := row.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *LabelRepository) Create(l *entity.Label) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO labels (name) VALUES ($1)
		RETURNING id, created_at
	`, l.Name)
	return row.Scan(&l.ID, &l.CreatedAt)
}

func (r *LabelRepository) GetByID(id int64) (*entity.Label, error) {
	ctx := context.Background()
	return scanLabel(r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM labels WHERE id = $1`, id))
}

func (r *LabelRepository) GetByIDs(ids []int64) ([]*entity.Label, error) {
	if len(ids) == 0 {
		return []*entity.Label{}, nil
	}
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM labels WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]*entity.Label, 0, len(ids))
	for rows.Next() {
		l, sErr := scanLabel(rows)
		if sErr != nil {
			return nil, sErr
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *LabelRepository) ExistsByName(name string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM labels WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *LabelRepository) Update(l *entity.Label) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `UPDATE labels SET name = $1 WHERE id = $2`, l.Name, l.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *LabelRepository) Delete(id int64) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *LabelRepository) List() ([]*entity.Label, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM labels ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]*entity.Label, 0, 16)
	for rows.Next() {
		l, sErr := scanLabel(rows)
		if sErr != nil {
			return nil, sErr
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

var _ repository.LabelRepository = (*LabelRepository)(nil)
