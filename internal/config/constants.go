package config

import "time"

// Polling and request timing.
const (
	PollInterval   = 2 * time.Second
	RequestTimeout = 10 * time.Second
	RetryDelay     = 200 * time.Millisecond
	RetryAttempts  = 3
)

// Remote API layout.
const (
	APIPrefix     = "/api"
	TaskPath      = "/admin/task"
	CopyPath      = "/fs/copy"
	SuccessCode   = 200
	AuthHeaderKey = "Authorization"
)

// Bulk action names, as recorded in history.
const (
	ActionClear         = "clear_done"
	ActionClearComplete = "clear_complete"
	ActionRetryFailed   = "retry_failed"
)

// DefaultTaskTypes are shown when no types are configured.
var DefaultTaskTypes = []string{"copy", "upload", "offline_download", "offline_download_transfer"}

// Application settings.
const (
	AppName         = "taskwatch"
	ConfigFileName  = "config.yaml"
	HistoryFileName = "history.db"
	LogFileName     = "taskwatch.log"
)

// Environment overrides.
const (
	EnvServer = "TASKWATCH_SERVER"
	EnvToken  = "TASKWATCH_TOKEN"
	EnvTypes  = "TASKWATCH_TYPES"
)
