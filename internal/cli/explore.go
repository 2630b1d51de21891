package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/httputil"
	"github.com/matzehuels/sunburst/pkg/pipeline"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/sink"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command, a terminal drill-down of the
// chart hierarchy. Filter events can be printed or posted to a running
// "sunburst serve".
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		endpoint string
		cache    cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "explore [file|url]",
		Short: "Browse a snapshot's hierarchy and emit filter events",
		Long: `Browse the hierarchy of a data snapshot one ring at a time.

  ↑/↓ select   ⏎/→ drill in   ← up   f filter   r reset   q quit

Filter events are printed as JSON. With --endpoint they are also posted,
for example to the /interactions route of "sunburst serve".`,
		Example: `  sunburst explore examples/data/sales.json
  sunburst explore data.json --endpoint http://localhost:8080/interactions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], endpoint, cache)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "URL that receives filter events")
	cache.register(cmd)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input, endpoint string, f cacheFlags) error {
	runner, err := c.newRunner(ctx, f)
	if err != nil {
		return err
	}
	defer runner.Close()

	msg, err := loadSnapshot(ctx, input, runner.Cache, false, false)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	root, _, err := runner.Hierarchy(ctx, msg, pipeline.Options{Local: true, Logger: loggerFromContext(ctx)})
	if err != nil {
		return err
	}

	model := newExploreModel(root, msg.DimensionIDs(), msg.MetricName())
	if endpoint != "" {
		client := httputil.NewClient()
		model.post = func(evt dscc.FilterEvent) error {
			_, err := client.PostJSON(ctx, endpoint, evt)
			return err
		}
	}

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m := final.(exploreModel)
	for _, evt := range m.Emitted {
		data, err := json.Marshal(evt)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

// =============================================================================
// exploreModel - Interactive hierarchy drill-down
// =============================================================================

// postResultMsg reports the outcome of posting a filter event.
type postResultMsg struct {
	evt dscc.FilterEvent
	err error
}

// exploreModel is the bubbletea model for the explore command.
type exploreModel struct {
	Root    *hierarchy.Node
	Current *hierarchy.Node
	Cursor  int
	Height  int
	Offset  int
	Emitted []dscc.FilterEvent
	Status  string

	concepts      []string
	metric        string
	interactionID string
	post          func(dscc.FilterEvent) error
}

func newExploreModel(root *hierarchy.Node, concepts []string, metric string) exploreModel {
	return exploreModel{
		Root:          root,
		Current:       root,
		Height:        15,
		concepts:      concepts,
		metric:        metric,
		interactionID: pipeline.DefaultInteractionID,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Current.Children)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if child := m.selected(); child != nil && !child.IsLeaf() {
				m.Current = child
				m.Cursor, m.Offset = 0, 0
			}
		case "left", "h", "backspace":
			if m.Current.Parent != nil {
				prev := m.Current
				m.Current = m.Current.Parent
				m.Cursor = indexOf(m.Current.Children, prev)
				m.Offset = max(0, m.Cursor-m.Height+1)
			}
		case "f":
			if child := m.selected(); child != nil {
				return m.emit(dscc.NewFilterEvent(m.interactionID, m.concepts, child.Path()))
			}
		case "r":
			return m.emit(dscc.NewResetEvent(m.interactionID))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	case postResultMsg:
		if msg.err != nil {
			m.Status = StyleWarning.Render("post failed: " + msg.err.Error())
		} else {
			m.Status = StyleSuccess.Render("posted " + string(msg.evt.Type))
		}
	}
	return m, nil
}

// emit records evt and posts it when an endpoint is configured.
func (m exploreModel) emit(evt dscc.FilterEvent) (tea.Model, tea.Cmd) {
	m.Emitted = append(m.Emitted, evt)
	m.Status = fmt.Sprintf("%s %s", evt.Type, selectionLabel(evt))
	if m.post == nil {
		return m, nil
	}
	post := m.post
	return m, func() tea.Msg {
		return postResultMsg{evt: evt, err: post(evt)}
	}
}

func (m exploreModel) selected() *hierarchy.Node {
	if m.Cursor < 0 || m.Cursor >= len(m.Current.Children) {
		return nil
	}
	return m.Current.Children[m.Cursor]
}

func (m exploreModel) View() string {
	var b strings.Builder

	crumbs := append([]string{"Total"}, m.Current.Labels()...)
	b.WriteString(StyleTitle.Render(strings.Join(crumbs, " > ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ drill in  ← up  f filter  r reset  q quit"))
	b.WriteString("\n\n")

	children := m.Current.Children
	end := min(m.Offset+m.Height, len(children))
	for i := m.Offset; i < end; i++ {
		n := children[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		more := ""
		if !n.IsLeaf() {
			more = listDimStyle.Render(fmt.Sprintf("  %d ›", len(n.Children)))
		}
		line := fmt.Sprintf("%s%-24s %14s", cursor, n.Label(), sink.FormatCount("", n.Value, m.Root.Value))
		b.WriteString(style.Render(line) + more + "\n")
	}

	b.WriteString("\n")
	if m.metric != "" {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s  [%d/%d]", m.metric, m.Cursor+1, len(children))))
	}
	if m.Status != "" {
		b.WriteString("\n  " + m.Status)
	}
	return b.String()
}

func indexOf(nodes []*hierarchy.Node, n *hierarchy.Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return 0
}
