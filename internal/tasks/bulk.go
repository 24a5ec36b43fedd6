package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/akyairhashvil/taskwatch/internal/models"
)

// Outcome is the result of one item of a bulk action.
type Outcome struct {
	TaskID int64
	Name   string
	Err    error
}

// OK reports whether the item succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// BulkResult collects every item outcome of one bulk action, in input order.
type BulkResult struct {
	ID         string
	Action     string
	TaskType   string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

// Failed returns the outcomes that did not succeed.
func (r BulkResult) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Succeeded counts successful items.
func (r BulkResult) Succeeded() int {
	return len(r.Outcomes) - len(r.Failed())
}

// Err is nil only when every item succeeded.
func (r BulkResult) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed))
	for _, o := range failed {
		errs = append(errs, fmt.Errorf("task %d: %w", o.TaskID, o.Err))
	}
	return &BulkError{Action: r.Action, Failed: len(failed), Total: len(r.Outcomes), Err: errors.Join(errs...)}
}

// BulkError is the aggregate failure of a bulk action.
type BulkError struct {
	Action string
	Failed int
	Total  int
	Err    error
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("%s: %d of %d failed: %v", e.Action, e.Failed, e.Total, e.Err)
}

func (e *BulkError) Unwrap() error { return e.Err }

// fanOut runs fn for every task concurrently and waits for all of them.
// A failing item never cancels its siblings.
func fanOut(ctx context.Context, action, taskType string, items []models.Task, fn func(context.Context, models.Task) error) BulkResult {
	res := BulkResult{
		ID:        uuid.NewString(),
		Action:    action,
		TaskType:  taskType,
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, len(items)),
	}
	var g errgroup.Group
	for i, item := range items {
		res.Outcomes[i] = Outcome{TaskID: item.ID, Name: item.Name}
		g.Go(func() error {
			res.Outcomes[i].Err = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
	res.FinishedAt = time.Now()
	return res
}
