package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
)

// OpError describes a failed history operation.
type OpError struct {
	Op    string
	RunID string
	Err   error
}

func (e *OpError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("%s run %s: %v", e.Op, e.RunID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapErr(op, runID string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, RunID: runID, Err: err}
}

// RecordBulk stores a bulk result and its outcomes in one transaction.
func (s *Store) RecordBulk(ctx context.Context, res tasks.BulkResult) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("record", res.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bulk_runs (id, action, task_type, started_at, finished_at, total, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.Action, res.TaskType, res.StartedAt.UTC(), res.FinishedAt.UTC(),
		len(res.Outcomes), len(res.Failed()))
	if err != nil {
		return wrapErr("record", res.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bulk_outcomes (run_id, task_id, task_name, error) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return wrapErr("record", res.ID, err)
	}
	defer stmt.Close()
	for _, o := range res.Outcomes {
		var msg sql.NullString
		if o.Err != nil {
			msg = sql.NullString{String: o.Err.Error(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, res.ID, o.TaskID, o.Name, msg); err != nil {
			return wrapErr("record", res.ID, err)
		}
	}
	return wrapErr("record", res.ID, tx.Commit())
}

// Recent returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.BulkRun, error) {
	q := `
		SELECT id, action, task_type, started_at, finished_at, total, failed
		FROM bulk_runs
		ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrapErr("list runs", "", err)
	}
	defer rows.Close()

	var runs []models.BulkRun
	for rows.Next() {
		var r models.BulkRun
		if err := rows.Scan(&r.ID, &r.Action, &r.TaskType, &r.StartedAt, &r.FinishedAt, &r.Total, &r.Failed); err != nil {
			return nil, wrapErr("list runs", "", err)
		}
		runs = append(runs, r)
	}
	return runs, wrapErr("list runs", "", rows.Err())
}

// Outcomes returns the items of one run in the order they were dispatched.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]models.BulkItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT run_id, task_id, task_name, error
		FROM bulk_outcomes
		WHERE run_id = ?
		ORDER BY id ASC`, runID)
	if err != nil {
		return nil, wrapErr("list outcomes", runID, err)
	}
	defer rows.Close()

	var items []models.BulkItem
	for rows.Next() {
		var it models.BulkItem
		var msg sql.NullString
		if err := rows.Scan(&it.RunID, &it.TaskID, &it.TaskName, &msg); err != nil {
			return nil, wrapErr("list outcomes", runID, err)
		}
		if msg.Valid {
			it.Error = &msg.String
		}
		items = append(items, it)
	}
	return items, wrapErr("list outcomes", runID, rows.Err())
}

// Prune deletes all but the newest keep runs and returns how many went.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM bulk_runs
		WHERE id NOT IN (
			SELECT id FROM bulk_runs ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, wrapErr("prune", "", err)
	}
	n, err := res.RowsAffected()
	return n, wrapErr("prune", "", err)
}
