package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
	"github.com/akyairhashvil/taskwatch/internal/util"
)

// ListView renders one tasks.List.
type ListView struct {
	list     *tasks.List
	progress progress.Model
}

func NewListView(l *tasks.List) *ListView {
	return &ListView{
		list:     l,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(config.ProgressWidth)),
	}
}

func (v *ListView) List() *tasks.List { return v.list }

func (v *ListView) heading() string {
	if v.list.Doneness() == models.Done {
		return "Done"
	}
	return "Undone"
}

// View renders the heading, the action bar of done lists, and the rows.
// spin is the current spinner frame, shown next to anything in flight.
func (v *ListView) View(theme Theme, spin string, width int) string {
	var b strings.Builder
	ts := v.list.Tasks()
	flags := v.list.Loading()

	head := theme.Heading.Render(fmt.Sprintf("%s (%d)", v.heading(), len(ts)))
	if flags.Refresh {
		head += " " + spin
	}
	b.WriteString(head)
	b.WriteString("\n")

	if v.list.Doneness() == models.Done {
		b.WriteString(v.renderActions(theme, spin, flags))
		b.WriteString("\n")
	}

	if len(ts) == 0 {
		b.WriteString(theme.Dim.Render("  No tasks."))
		b.WriteString("\n")
		return b.String()
	}

	compact := width > 0 && width < config.CompactModeThreshold
	barWidth := config.ProgressWidth
	if compact {
		barWidth = config.CompactProgressWidth
	}
	v.progress.Width = barWidth

	shown := ts
	if len(shown) > config.MaxVisibleTasks {
		shown = shown[:config.MaxVisibleTasks]
	}
	for _, t := range shown {
		b.WriteString(v.renderRow(theme, t, width, barWidth))
		b.WriteString("\n")
	}
	if hidden := len(ts) - len(shown); hidden > 0 {
		b.WriteString(theme.Dim.Render(fmt.Sprintf("  ... %d more", hidden)))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *ListView) renderActions(theme Theme, spin string, flags tasks.Flags) string {
	button := func(label string, busy bool) string {
		if busy {
			label = spin + " " + label
		}
		return theme.Action.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		button("[r] Refresh", flags.Refresh),
		button("[c] Clear", flags.Clear),
		button("[x] Clear succeeded", flags.ClearComplete),
		button("[f] Retry failed", flags.RetryFailed),
	)
}

func (v *ListView) renderRow(theme Theme, t models.Task, width, barWidth int) string {
	id := fmt.Sprintf("%6d", t.ID)
	state := theme.StateStyle(t.State).Render(fmt.Sprintf("%-*s", config.StateColumnWidth, t.State))
	bar := v.progress.ViewAs(util.Clamp(t.Progress/100, 0, 1))

	nameWidth := config.MinNameWidth
	if width > 0 {
		used := len(id) + config.StateColumnWidth + barWidth + 8
		nameWidth = max(width-used, config.MinNameWidth)
	}
	name := theme.TaskName.Render(util.Truncate(util.SingleLine(t.Name), nameWidth, config.TruncationSuffix))

	row := fmt.Sprintf("%s  %s  %s  %s", id, state, bar, name)
	if t.Error != "" {
		indent := strings.Repeat(" ", len(id)+2)
		msg := util.Truncate(util.SingleLine(t.Error), max(nameWidth, config.MinNameWidth), config.TruncationSuffix)
		row += "\n" + indent + theme.ErrorText.Render(msg)
	}
	return row
}
