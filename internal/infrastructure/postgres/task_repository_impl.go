package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

// TaskRepository persists tasks plus their task_labels join rows. Every
// load joins the status row so Task.StatusSlug is always hydrated.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `t.id, t."index", t.name, t.description, t.status_id, t.assignee_id, t.created_at, s.slug`

const taskFrom = ` FROM tasks t JOIN task_statuses s ON s.id = t.status_id`

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	if err := row.Scan(&t.ID, &t.Index, &t.Name, &t.Description, &t.StatusID,
		&t.AssigneeID, &t.CreatedAt, &t.StatusSlug); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) Create(t *entity.Task) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO tasks ("index", name, description, status_id, assignee_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.Index, t.Name, t.Description, t.StatusID, t.AssigneeID)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return err
	}
	if err := insertTaskLabels(ctx, tx, t.ID, t.LabelIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *TaskRepository) GetByID(id int64) (*entity.Task, error) {
	ctx := context.Background()
	t, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+taskFrom+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, err
	}
	labels, err := r.labelsForTasks(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	t.LabelIDs = labels[id]
	if t.LabelIDs == nil {
		t.LabelIDs = []int64{}
	}
	return t, nil
}

// Update rewrites the task row and replaces its label set atomically.
func (r *TaskRepository) Update(t *entity.Task) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE tasks
		SET "index" = $1, name = $2, description = $3, status_id = $4, assignee_id = $5
		WHERE id = $6
	`, t.Index, t.Name, t.Description, t.StatusID, t.AssigneeID, t.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM task_labels WHERE task_id = $1`, t.ID); err != nil {
		return err
	}
	if err := insertTaskLabels(ctx, tx, t.ID, t.LabelIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *TaskRepository) Delete(id int64) error {
	ctx := context.Background()
	// task_labels rows go with the task (ON DELETE CASCADE)
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

// taskWhere translates the filter into a conjunctive WHERE clause over
// the joined tasks/statuses relation.
func taskWhere(f query.TaskFilter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if strings.TrimSpace(f.TitleCont) != "" {
		add("t.name ILIKE '%%' || $%d || '%%'", f.TitleCont)
	}
	if f.AssigneeID != nil {
		add("t.assignee_id = $%d", *f.AssigneeID)
	}
	if strings.TrimSpace(f.Status) != "" {
		add("s.slug = $%d", f.Status)
	}
	if f.LabelID != nil {
		add("EXISTS (SELECT 1 FROM task_labels tl WHERE tl.task_id = t.id AND tl.label_id = $%d)", *f.LabelID)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *TaskRepository) FindMatching(f query.TaskFilter, p query.Page) ([]*entity.Task, int64, error) {
	ctx := context.Background()
	where, args := taskWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+taskFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, p.Size, p.Offset())
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+taskFrom+where+
			fmt.Sprintf(` ORDER BY t.id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]*entity.Task, 0, p.Size)
	ids := make([]int64, 0, p.Size)
	for rows.Next() {
		t, sErr := scanTask(rows)
		if sErr != nil {
			return nil, 0, sErr
		}
		tasks = append(tasks, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	labels, err := r.labelsForTasks(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, t := range tasks {
		t.LabelIDs = labels[t.ID]
		if t.LabelIDs == nil {
			t.LabelIDs = []int64{}
		}
	}
	return tasks, total, nil
}

func (r *TaskRepository) ExistsByAssigneeID(userID int64) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE assignee_id = $1)`, userID).Scan(&exists)
	return exists, err
}

func (r *TaskRepository) ExistsByStatusID(statusID int64) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE status_id = $1)`, statusID).Scan(&exists)
	return exists, err
}

func (r *TaskRepository) ExistsByLabelID(labelID int64) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM task_labels WHERE label_id = $1)`, labelID).Scan(&exists)
	return exists, err
}

func insertTaskLabels(ctx context.Context, tx pgx.Tx, taskID int64, labelIDs []int64) error {
	for _, labelID := range labelIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO task_labels (task_id, label_id) VALUES ($1, $2)`, taskID, labelID); err != nil {
			return err
		}
	}
	return nil
}

func (r *TaskRepository) labelsForTasks(ctx context.Context, taskIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT task_id, label_id FROM task_labels
		WHERE task_id = ANY($1)
		ORDER BY task_id, label_id
	`, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, labelID int64
		if err := rows.Scan(&taskID, &labelID); err != nil {
			return nil, err
		}
		out[taskID] = append(out[taskID], labelID)
	}
	return out, rows.Err()
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
