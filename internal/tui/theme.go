package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/taskwatch/internal/models"
)

type Theme struct {
	Name        string
	Base        lipgloss.Style
	Border      lipgloss.Color
	Header      lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Heading     lipgloss.Style
	Action      lipgloss.Style
	TaskName    lipgloss.Style
	Succeeded   lipgloss.Style
	Running     lipgloss.Style
	Pending     lipgloss.Style
	Failed      lipgloss.Style
	ErrorText   lipgloss.Style
	Dim         lipgloss.Style
	Highlight   lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
}

var Themes = map[string]Theme{
	"default": {
		Name:        "Default",
		Base:        lipgloss.NewStyle().Margin(1, 2),
		Border:      lipgloss.Color("63"),
		Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Tab:         lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Underline(true).Padding(0, 1),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
		Action:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		TaskName:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Succeeded:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Running:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Failed:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		ErrorText:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	},
	"dracula": {
		Name:        "Dracula",
		Base:        lipgloss.NewStyle().Margin(1, 2),
		Border:      lipgloss.Color("62"),                                  // Purple
		Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("50")).Bold(true), // Cyan
		Tab:         lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Underline(true).Padding(0, 1), // Pink
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true),                            // Purple
		Action:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1),
		TaskName:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Succeeded:   lipgloss.NewStyle().Foreground(lipgloss.Color("120")), // Green
		Running:     lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Failed:      lipgloss.NewStyle().Foreground(lipgloss.Color("210")).Bold(true), // Red/Pink
		ErrorText:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("120")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("210")).Bold(true),
	},
}

// CurrentTheme holds the currently active theme.
var CurrentTheme = Themes["default"]

// SetTheme switches the active theme; unknown names are ignored.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if ok {
		CurrentTheme = t
	}
	return ok
}

// StateStyle picks the style a task state is rendered with.
func (t Theme) StateStyle(s models.TaskState) lipgloss.Style {
	switch s {
	case models.StateSucceeded:
		return t.Succeeded
	case models.StateRunning, models.StateCanceling:
		return t.Running
	case models.StateErrored, models.StateFailed, models.StateFailing, models.StateCanceled:
		return t.Failed
	default:
		return t.Pending
	}
}
