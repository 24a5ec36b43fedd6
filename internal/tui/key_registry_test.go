package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestRegistryPriorityAndFallthrough(t *testing.T) {
	r := NewHandlerRegistry()
	var order []string
	r.Register(KeyBinding{
		Binding: key.NewBinding(key.WithKeys("z")),
		Handler: func(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
			order = append(order, "low")
			return m, nil, true
		},
		Priority: 1,
	})
	r.Register(KeyBinding{
		Binding: key.NewBinding(key.WithKeys("z")),
		Handler: func(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
			order = append(order, "high")
			return m, nil, false
		},
		Priority: 5,
	})

	_, _, handled := r.Handle(Model{}, keyRune('z'))
	if !handled {
		t.Fatalf("expected key to be handled")
	}
	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Fatalf("unexpected dispatch order %v", order)
	}

	if _, _, handled := r.Handle(Model{}, keyRune('y')); handled {
		t.Fatalf("unbound key reported as handled")
	}
}

func TestRegistryHelpSplitsFullBindings(t *testing.T) {
	r := defaultRegistry()
	for _, b := range r.ShortHelp() {
		if b.Help().Key == "p" {
			t.Fatalf("export should only be in full help")
		}
	}
	full := r.FullHelp()
	if len(full) != 2 || len(full[1]) == 0 {
		t.Fatalf("unexpected full help layout %v", full)
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("default")
	if !SetTheme("dracula") || CurrentTheme.Name != "Dracula" {
		t.Fatalf("expected dracula theme")
	}
	if SetTheme("nope") {
		t.Fatalf("unknown theme accepted")
	}
	if CurrentTheme.Name != "Dracula" {
		t.Fatalf("unknown theme changed the current theme")
	}
}
