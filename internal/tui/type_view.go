package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/taskapi"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
)

// TypeView shows the undone and done lists of one task type.
type TypeView struct {
	taskType string
	Undone   *ListView
	Done     *ListView

	epoch   int
	mounted bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewTypeView(svc taskapi.Service, taskType string, opts ...tasks.Option) *TypeView {
	return &TypeView{
		taskType: taskType,
		Undone:   NewListView(tasks.NewList(svc, taskType, models.Undone, opts...)),
		Done:     NewListView(tasks.NewList(svc, taskType, models.Done, opts...)),
	}
}

func (v *TypeView) Type() string { return v.taskType }

func (v *TypeView) Mounted() bool { return v.mounted }

// List returns the list for one half of the type.
func (v *TypeView) List(done models.Doneness) *tasks.List {
	if done == models.Done {
		return v.Done.list
	}
	return v.Undone.list
}

// Mount fetches both lists and starts polling the undone one.
func (v *TypeView) Mount(parent context.Context) tea.Cmd {
	v.Unmount()
	v.epoch++
	v.mounted = true
	v.ctx, v.cancel = context.WithCancel(parent)
	return tea.Batch(
		refreshCmd(v.ctx, v.Undone.list),
		refreshCmd(v.ctx, v.Done.list),
		pollCmd(v.taskType, v.epoch, v.Undone.list.Interval()),
	)
}

// Unmount stops polling and cancels in-flight refreshes.
func (v *TypeView) Unmount() {
	if !v.mounted {
		return
	}
	v.mounted = false
	v.epoch++
	v.cancel()
}

// Poll handles a poll tick: refresh the undone list and schedule the next
// tick, unless the tick belongs to an earlier mount.
func (v *TypeView) Poll(msg pollMsg) tea.Cmd {
	if !v.mounted || msg.epoch != v.epoch {
		return nil
	}
	return tea.Batch(
		refreshCmd(v.ctx, v.Undone.list),
		pollCmd(v.taskType, v.epoch, v.Undone.list.Interval()),
	)
}

// RefreshDone refetches the done list on demand.
func (v *TypeView) RefreshDone() tea.Cmd {
	if !v.mounted {
		return nil
	}
	return refreshCmd(v.ctx, v.Done.list)
}
