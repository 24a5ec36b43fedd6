// Package taskapi talks to the remote task-management API.
package taskapi

import (
	"context"

	"github.com/akyairhashvil/taskwatch/internal/models"
)

//go:generate mockgen -destination=../mocks/mock_service.go -package=mocks github.com/akyairhashvil/taskwatch/internal/taskapi Service

// Service is the set of remote operations the console consumes.
// Everything above this package depends on the interface, never on Client.
type Service interface {
	// ListTasks returns the tasks of one type and doneness in server order.
	ListTasks(ctx context.Context, taskType string, done models.Doneness) ([]models.Task, error)

	// ClearDone removes every finished task of a type.
	ClearDone(ctx context.Context, taskType string) error

	// DeleteTask removes a single task.
	DeleteTask(ctx context.Context, taskType string, id int64) error

	// Copy submits a file-copy job.
	Copy(ctx context.Context, req models.CopyRequest) error
}
