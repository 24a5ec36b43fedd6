package testutil

import (
	"fmt"

	"github.com/akyairhashvil/taskwatch/internal/models"
)

// TaskBuilder provides fluent API for creating test tasks.
type TaskBuilder struct {
	task models.Task
}

func NewTask(id int64) *TaskBuilder {
	return &TaskBuilder{
		task: models.Task{
			ID:    id,
			Name:  fmt.Sprintf("copy [/local](/src/file%d.txt) to [/remote](/dst)", id),
			State: models.StatePending,
		},
	}
}

func (b *TaskBuilder) WithName(name string) *TaskBuilder {
	b.task.Name = name
	return b
}

func (b *TaskBuilder) WithState(s models.TaskState) *TaskBuilder {
	b.task.State = s
	return b
}

func (b *TaskBuilder) WithProgress(p float64) *TaskBuilder {
	b.task.Progress = p
	return b
}

func (b *TaskBuilder) WithError(msg string) *TaskBuilder {
	b.task.Error = msg
	return b
}

func (b *TaskBuilder) Succeeded() *TaskBuilder {
	return b.WithState(models.StateSucceeded).WithProgress(100)
}

func (b *TaskBuilder) Failed(msg string) *TaskBuilder {
	return b.WithState(models.StateErrored).WithError(msg)
}

func (b *TaskBuilder) Build() models.Task {
	return b.task
}
