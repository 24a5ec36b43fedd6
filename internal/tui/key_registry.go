package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler reacts to a matched key. handled=false lets lower priority
// bindings for the same key try.
type KeyHandler func(m Model, msg tea.KeyMsg) (next Model, cmd tea.Cmd, handled bool)

type KeyBinding struct {
	Binding  key.Binding
	Handler  KeyHandler
	Priority int
	// Full bindings only show in the expanded help.
	Full bool
}

// HandlerRegistry dispatches key presses and doubles as the help.KeyMap.
type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m Model, msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if !b.Binding.Enabled() || !key.Matches(msg, b.Binding) {
			continue
		}
		next, cmd, handled := b.Handler(m, msg)
		if handled {
			return next, cmd, true
		}
	}
	return m, nil, false
}

// ShortHelp implements help.KeyMap.
func (r *HandlerRegistry) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, b := range r.bindings {
		if !b.Full {
			out = append(out, b.Binding)
		}
	}
	return out
}

// FullHelp implements help.KeyMap.
func (r *HandlerRegistry) FullHelp() [][]key.Binding {
	var short, full []key.Binding
	for _, b := range r.bindings {
		if b.Full {
			full = append(full, b.Binding)
		} else {
			short = append(short, b.Binding)
		}
	}
	return [][]key.Binding{short, full}
}
