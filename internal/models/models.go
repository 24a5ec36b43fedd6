package models

import "time"

// Doneness selects one half of a task type's listing.
type Doneness string

const (
	Undone Doneness = "undone"
	Done   Doneness = "done"
)

// Donenesses lists the halves in display order.
var Donenesses = []Doneness{Undone, Done}

// Valid reports whether d is one of the known values.
func (d Doneness) Valid() bool {
	return d == Undone || d == Done
}

// TaskState is the lifecycle state reported by the task system.
type TaskState string

const (
	StatePending   TaskState = "pending"
	StateRunning   TaskState = "running"
	StateSucceeded TaskState = "succeeded"
	StateCanceling TaskState = "canceling"
	StateCanceled  TaskState = "canceled"
	StateErrored   TaskState = "errored"
	StateFailing   TaskState = "failing"
	StateFailed    TaskState = "failed"
)

// Succeeded is the only state treated as a clean completion.
func (s TaskState) Succeeded() bool {
	return s == StateSucceeded
}

// Task is a read-only snapshot of one background job.
type Task struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	State    TaskState `json:"state"`
	Type     string    `json:"type,omitempty"`
	Status   string    `json:"status,omitempty"`
	Progress float64   `json:"progress,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// CopyRequest is the payload of the file-copy operation.
type CopyRequest struct {
	SrcDir string   `json:"src_dir"`
	DstDir string   `json:"dst_dir"`
	Names  []string `json:"names"`
}

// BulkRun is a persisted bulk action.
type BulkRun struct {
	ID         string
	Action     string
	TaskType   string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Failed     int
}

// OK reports whether every item of the run succeeded.
func (r BulkRun) OK() bool {
	return r.Failed == 0
}

// BulkItem is the persisted outcome of one item of a bulk run.
type BulkItem struct {
	RunID    string
	TaskID   int64
	TaskName string
	Error    *string // nil on success
}
