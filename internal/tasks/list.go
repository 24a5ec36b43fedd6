// Package tasks keeps a live, sorted snapshot of one (type, doneness) task
// listing and dispatches the per-list actions against the remote API.
package tasks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/taskapi"
	"github.com/akyairhashvil/taskwatch/internal/util"
)

// ErrActionUnavailable is returned for actions that only apply to done lists.
var ErrActionUnavailable = errors.New("action is only available on done lists")

// Reporter surfaces failures to the user. It must not block.
type Reporter interface {
	Report(op string, err error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(op string, err error)

func (f ReporterFunc) Report(op string, err error) { f(op, err) }

// Recorder persists bulk action results.
type Recorder interface {
	RecordBulk(ctx context.Context, res BulkResult) error
}

// Flags are the per-action loading indicators.
type Flags struct {
	Refresh       bool
	Clear         bool
	ClearComplete bool
	RetryFailed   bool
}

// List is the live view of one (type, doneness) pair.
type List struct {
	svc      taskapi.Service
	taskType string
	done     models.Doneness
	interval time.Duration
	logger   *slog.Logger
	reporter Reporter
	recorder Recorder
	onChange func([]models.Task)

	mu        sync.RWMutex
	tasks     []models.Task
	applied   uint64
	updatedAt time.Time

	seq           atomic.Uint64
	refreshing    atomic.Int32
	clearing      atomic.Int32
	clearingDone  atomic.Int32
	retryingFails atomic.Int32
}

// Option configures a List.
type Option func(*List)

// WithInterval overrides the poll interval of undone lists.
func WithInterval(d time.Duration) Option {
	return func(l *List) { l.interval = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *List) { l.logger = logger }
}

// WithReporter sets the collaborator that surfaces failures.
func WithReporter(r Reporter) Option {
	return func(l *List) { l.reporter = r }
}

// WithRecorder persists every bulk action result.
func WithRecorder(r Recorder) Option {
	return func(l *List) { l.recorder = r }
}

// WithOnChange is called with the new snapshot after every applied refresh.
func WithOnChange(fn func([]models.Task)) Option {
	return func(l *List) { l.onChange = fn }
}

// NewList creates a list view. Nothing is fetched until Refresh or Watch.
func NewList(svc taskapi.Service, taskType string, done models.Doneness, opts ...Option) *List {
	l := &List{
		svc:      svc,
		taskType: taskType,
		done:     done,
		interval: config.PollInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.reporter == nil {
		l.reporter = ReporterFunc(func(op string, err error) {
			util.LogError(l.logger, fmt.Sprintf("%s %s/%s", op, l.taskType, l.done), err)
		})
	}
	return l
}

// Type returns the task type.
func (l *List) Type() string { return l.taskType }

// Doneness returns which half of the type this list shows.
func (l *List) Doneness() models.Doneness { return l.done }

// Interval returns the poll interval.
func (l *List) Interval() time.Duration { return l.interval }

// Tasks returns a copy of the current snapshot, ascending by id.
func (l *List) Tasks() []models.Task {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.tasks)
}

// UpdatedAt is the time of the last applied refresh.
func (l *List) UpdatedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.updatedAt
}

// Loading reports which actions have requests in flight.
func (l *List) Loading() Flags {
	return Flags{
		Refresh:       l.refreshing.Load() > 0,
		Clear:         l.clearing.Load() > 0,
		ClearComplete: l.clearingDone.Load() > 0,
		RetryFailed:   l.retryingFails.Load() > 0,
	}
}

// Refresh fetches the listing and replaces the snapshot. On failure the
// previous snapshot is kept and the error is reported. A response is dropped
// if a later-issued refresh has already been applied.
func (l *List) Refresh(ctx context.Context) error {
	seq := l.seq.Add(1)
	l.refreshing.Add(1)
	defer l.refreshing.Add(-1)

	fetched, err := l.svc.ListTasks(ctx, l.taskType, l.done)
	if err != nil {
		if ctx.Err() == nil {
			l.reporter.Report("refresh", err)
		}
		return err
	}
	sorted := SortByID(fetched)

	l.mu.Lock()
	if seq < l.applied {
		l.mu.Unlock()
		l.logger.Debug("dropping stale refresh", "type", l.taskType, "done", l.done, "seq", seq)
		return nil
	}
	l.applied = seq
	l.tasks = sorted
	l.updatedAt = time.Now()
	l.mu.Unlock()

	if l.onChange != nil {
		l.onChange(slices.Clone(sorted))
	}
	return nil
}

// Clear removes every finished task of the type, then refreshes.
func (l *List) Clear(ctx context.Context) error {
	if l.done != models.Done {
		return ErrActionUnavailable
	}
	l.clearing.Add(1)
	defer l.clearing.Add(-1)

	if err := l.svc.ClearDone(ctx, l.taskType); err != nil {
		l.reporter.Report(config.ActionClear, err)
		return err
	}
	// Refresh reports its own failure.
	_ = l.Refresh(ctx)
	return nil
}

// ClearComplete deletes every succeeded task in the snapshot in parallel.
// The list is refreshed only when every delete succeeded.
func (l *List) ClearComplete(ctx context.Context) (BulkResult, error) {
	if l.done != models.Done {
		return BulkResult{}, ErrActionUnavailable
	}
	l.clearingDone.Add(1)
	defer l.clearingDone.Add(-1)

	targets := l.selectTasks(func(t models.Task) bool { return t.State.Succeeded() })
	res := fanOut(ctx, config.ActionClearComplete, l.taskType, targets, func(ctx context.Context, t models.Task) error {
		return l.svc.DeleteTask(ctx, l.taskType, t.ID)
	})
	return res, l.finishBulk(ctx, res)
}

// RetryAllFailed resubmits a copy for every task in the snapshot that did not
// succeed. Tasks whose name cannot be parsed fail individually.
func (l *List) RetryAllFailed(ctx context.Context) (BulkResult, error) {
	if l.done != models.Done {
		return BulkResult{}, ErrActionUnavailable
	}
	l.retryingFails.Add(1)
	defer l.retryingFails.Add(-1)

	targets := l.selectTasks(func(t models.Task) bool { return !t.State.Succeeded() })
	res := fanOut(ctx, config.ActionRetryFailed, l.taskType, targets, func(ctx context.Context, t models.Task) error {
		req, err := ParseCopyName(t.Name)
		if err != nil {
			return err
		}
		return l.svc.Copy(ctx, req)
	})
	return res, l.finishBulk(ctx, res)
}

func (l *List) finishBulk(ctx context.Context, res BulkResult) error {
	if l.recorder != nil {
		util.LogError(l.logger, "record bulk result", l.recorder.RecordBulk(ctx, res))
	}
	if err := res.Err(); err != nil {
		l.reporter.Report(res.Action, err)
		return err
	}
	l.logger.Info("bulk action finished", "action", res.Action, "type", l.taskType, "items", len(res.Outcomes))
	_ = l.Refresh(ctx)
	return nil
}

func (l *List) selectTasks(keep func(models.Task) bool) []models.Task {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []models.Task
	for _, t := range l.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByID returns a copy of ts ordered ascending by id. Equal ids keep
// their relative order.
func SortByID(ts []models.Task) []models.Task {
	out := slices.Clone(ts)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
