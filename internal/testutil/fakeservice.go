// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/akyairhashvil/taskwatch/internal/models"
)

// ErrInjected is a generic failure used by tests.
var ErrInjected = errors.New("injected failure")

type listKey struct {
	taskType string
	done     models.Doneness
}

// FakeService is an in-memory implementation of taskapi.Service for testing.
// Done tasks live in the "done" listing, everything else in "undone".
type FakeService struct {
	mu    sync.Mutex
	tasks map[listKey][]models.Task

	// Call log
	ListCalls    int
	ClearCalls   int
	DeleteCalls  []int64
	CopyRequests []models.CopyRequest

	// Error injection for testing
	ListErr   error
	ClearErr  error
	DeleteErr map[int64]error // task id -> error
	CopyErr   map[string]error // src dir -> error

	// ListHook, if set, runs before ListTasks answers; it may block.
	ListHook func(ctx context.Context, call int) error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:     make(map[listKey][]models.Task),
		DeleteErr: make(map[int64]error),
		CopyErr:   make(map[string]error),
	}
}

// AddTask adds a task to a listing.
func (f *FakeService) AddTask(taskType string, done models.Doneness, task models.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.Type = taskType
	k := listKey{taskType, done}
	f.tasks[k] = append(f.tasks[k], task)
}

// Calls returns the number of ListTasks calls so far.
func (f *FakeService) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls
}

// Deleted returns the ids passed to DeleteTask so far.
func (f *FakeService) Deleted() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.DeleteCalls...)
}

// Copies returns the copy requests received so far.
func (f *FakeService) Copies() []models.CopyRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CopyRequest(nil), f.CopyRequests...)
}

// ListTasks implements taskapi.Service.
func (f *FakeService) ListTasks(ctx context.Context, taskType string, done models.Doneness) ([]models.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	call := f.ListCalls
	hook := f.ListHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, call); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Task(nil), f.tasks[listKey{taskType, done}]...), nil
}

// ClearDone implements taskapi.Service.
func (f *FakeService) ClearDone(ctx context.Context, taskType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	delete(f.tasks, listKey{taskType, models.Done})
	return nil
}

// DeleteTask implements taskapi.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskType string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls = append(f.DeleteCalls, id)
	if err := f.DeleteErr[id]; err != nil {
		return err
	}
	for _, done := range models.Donenesses {
		k := listKey{taskType, done}
		kept := f.tasks[k][:0]
		for _, t := range f.tasks[k] {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		f.tasks[k] = kept
	}
	return nil
}

// Copy implements taskapi.Service.
func (f *FakeService) Copy(ctx context.Context, req models.CopyRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CopyRequests = append(f.CopyRequests, req)
	return f.CopyErr[req.SrcDir]
}
