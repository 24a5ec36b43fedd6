package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/report"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
)

// pollMsg fires for a mounted type view. Messages from an earlier mount
// carry an old epoch and are ignored.
type pollMsg struct {
	taskType string
	epoch    int
}

type refreshedMsg struct {
	taskType string
	done     models.Doneness
	err      error
}

type actionDoneMsg struct {
	taskType string
	action   string
	result   tasks.BulkResult
	err      error
}

type reportSavedMsg struct {
	path string
	err  error
}

func pollCmd(taskType string, epoch int, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return pollMsg{taskType: taskType, epoch: epoch}
	})
}

func refreshCmd(ctx context.Context, l *tasks.List) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{taskType: l.Type(), done: l.Doneness(), err: l.Refresh(ctx)}
	}
}

func clearCmd(ctx context.Context, l *tasks.List) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{taskType: l.Type(), action: config.ActionClear, err: l.Clear(ctx)}
	}
}

func clearCompleteCmd(ctx context.Context, l *tasks.List) tea.Cmd {
	return func() tea.Msg {
		res, err := l.ClearComplete(ctx)
		return actionDoneMsg{taskType: l.Type(), action: config.ActionClearComplete, result: res, err: err}
	}
}

func retryFailedCmd(ctx context.Context, l *tasks.List) tea.Cmd {
	return func() tea.Msg {
		res, err := l.RetryAllFailed(ctx)
		return actionDoneMsg{taskType: l.Type(), action: config.ActionRetryFailed, result: res, err: err}
	}
}

func saveReportCmd(dir string, now time.Time, sections []report.Section) tea.Cmd {
	return func() tea.Msg {
		path, err := report.Save(dir, now, "Task report "+now.Format("2006-01-02 15:04"), sections)
		return reportSavedMsg{path: path, err: err}
	}
}
