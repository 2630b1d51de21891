package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/table"
)

func sampleHierarchy(t *testing.T) *hierarchy.Node {
	t.Helper()
	msg := decodeSnapshot(t, salesSnapshot)
	rows, err := table.FromMessage(msg)
	if err != nil {
		t.Fatal(err)
	}
	root, err := hierarchy.Build(rows, msg.DimensionNames(), msg.MetricName())
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m exploreModel, keys ...string) exploreModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(exploreModel)
	}
	return m
}

func TestExploreNavigation(t *testing.T) {
	root := sampleHierarchy(t)
	m := newExploreModel(root, []string{"region", "product"}, "Sales")

	m = press(m, "down")
	if got := m.selected().Label(); got != "US" {
		t.Fatalf("selected = %q, want US", got)
	}

	m = press(m, "up", "enter")
	if m.Current.Label() != "EU" {
		t.Fatalf("Current = %q, want EU", m.Current.Label())
	}
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 after drilling in", m.Cursor)
	}

	// Leaves cannot be entered.
	m = press(m, "enter")
	if m.Current.Label() != "EU" {
		t.Errorf("Current = %q, want EU after enter on a leaf", m.Current.Label())
	}

	m = press(m, "left")
	if !m.Current.IsRoot() {
		t.Errorf("Current = %q, want root", m.Current.Label())
	}
	if m.selected().Label() != "EU" {
		t.Errorf("selected = %q, want EU restored after going up", m.selected().Label())
	}
}

func TestExploreEmit(t *testing.T) {
	root := sampleHierarchy(t)
	m := newExploreModel(root, []string{"region", "product"}, "Sales")

	var posted []dscc.FilterEvent
	m.post = func(evt dscc.FilterEvent) error {
		posted = append(posted, evt)
		return nil
	}

	m = press(m, "enter")
	next, cmd := m.Update(key("f"))
	m = next.(exploreModel)
	if cmd == nil {
		t.Fatal("filter with an endpoint should return a post command")
	}
	next, _ = m.Update(cmd())
	m = next.(exploreModel)

	if len(m.Emitted) != 1 {
		t.Fatalf("Emitted = %d events, want 1", len(m.Emitted))
	}
	evt := m.Emitted[0]
	if evt.Type != dscc.InteractionFilter {
		t.Errorf("Type = %s, want FILTER", evt.Type)
	}
	if got := selectionLabel(evt); got != "EU > Books" {
		t.Errorf("selection = %q, want EU > Books", got)
	}
	if len(evt.Data.Concepts) != 2 || evt.Data.Concepts[1] != "product" {
		t.Errorf("Concepts = %v, want [region product]", evt.Data.Concepts)
	}
	if len(posted) != 1 {
		t.Errorf("posted = %d events, want 1", len(posted))
	}

	m = press(m, "r")
	if last := m.Emitted[len(m.Emitted)-1]; last.Type != dscc.InteractionReset {
		t.Errorf("Type = %s, want RESET", last.Type)
	}
}

func TestExploreView(t *testing.T) {
	m := newExploreModel(sampleHierarchy(t), nil, "Sales")
	view := m.View()
	for _, want := range []string{"Total", "EU", "US", "Sales"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
