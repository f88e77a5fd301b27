package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/retailreboot/retailreboot/pkg/network"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// exploreCommand creates the interactive network explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var fromNeo4j bool

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the supply-chain network interactively",
		Long: `Browse the supply-chain network in the terminal.

Keys:
  ↑/↓ j/k   move between visible nodes
  enter     select the node (again to clear)
  1-5       toggle suppliers, warehouses, distribution, retail, customers
  i         show only nodes with issues
  +/-/0     zoom in, out, reset
  q         quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			nodes, conns, err := c.loadNetwork(ctx, cfg, fromNeo4j)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewExploreModel(nodes, conns), tea.WithAltScreen(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("explore: %w", err)
			}
			if m, ok := final.(ExploreModel); ok && m.Selected != "" {
				if d, ok := network.Describe(nodes, conns, m.Selected); ok {
					printDetails(d)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromNeo4j, "neo4j", false, "load the network from the configured neo4j database")
	return cmd
}

// =============================================================================
// ExploreModel - Interactive network browser
// =============================================================================

// ExploreModel is the bubbletea model for the network explorer. Filter and
// zoom changes recompute the layout; selection only changes the detail panel.
type ExploreModel struct {
	Nodes       []network.Node
	Connections []network.Connection
	Filter      network.Filter
	Zoom        network.Zoom
	Selected    string
	Cursor      int
	Layout      network.Layout
}

// NewExploreModel starts with every type visible at the default zoom.
func NewExploreModel(nodes []network.Node, conns []network.Connection) ExploreModel {
	m := ExploreModel{
		Nodes:       nodes,
		Connections: conns,
		Filter:      network.DefaultFilter(),
		Zoom:        network.DefaultZoom,
	}
	m.relayout()
	return m
}

func (m *ExploreModel) relayout() {
	m.Layout = network.Compute(m.Nodes, m.Connections, m.Filter)
	if m.Cursor >= len(m.Layout.Nodes) {
		m.Cursor = max(0, len(m.Layout.Nodes)-1)
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Layout.Nodes)-1 {
			m.Cursor++
		}
	case "enter", " ":
		if len(m.Layout.Nodes) > 0 {
			m.Selected = network.ToggleSelection(m.Selected, m.Layout.Nodes[m.Cursor].ID)
		}
	case "1", "2", "3", "4", "5":
		m.Filter = m.Filter.ToggleType(network.NodeTypes[k[0]-'1'])
		m.relayout()
	case "i":
		m.Filter = m.Filter.ToggleIssues()
		m.relayout()
	case "+", "=":
		m.Zoom = m.Zoom.In()
	case "-":
		m.Zoom = m.Zoom.Out()
	case "0":
		m.Zoom = m.Zoom.Reset()
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Supply Chain Network"))
	b.WriteString("\n")
	b.WriteString(m.filterBar())
	b.WriteString("\n\n")

	left := m.nodeTable()
	if d, ok := network.Describe(m.Nodes, m.Connections, m.Selected); ok {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", detailsPanel(d)))
	} else {
		b.WriteString(left)
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d/%d nodes · %d connections",
		len(m.Layout.Nodes), len(m.Nodes), len(m.Layout.Paths))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  1-5 types  i issues  +/- zoom  q quit"))
	return b.String()
}

func (m ExploreModel) filterBar() string {
	parts := make([]string, 0, len(network.NodeTypes)+2)
	for i, t := range network.NodeTypes {
		label := fmt.Sprintf("%d %s", i+1, t.Plural())
		if m.Filter.Types.Has(t) {
			parts = append(parts, listSelectedStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, listDimStyle.Render(" "+label+" "))
		}
	}
	if m.Filter.IssuesOnly {
		parts = append(parts, StyleWarning.Render("[i issues only]"))
	} else {
		parts = append(parts, listDimStyle.Render(" i all statuses "))
	}
	parts = append(parts, StyleValue.Render(fmt.Sprintf("zoom %d%%", m.Zoom.Percent())))
	return strings.Join(parts, " ")
}

func (m ExploreModel) nodeTable() string {
	if len(m.Layout.Nodes) == 0 {
		return listDimStyle.Render("No nodes match the current filter")
	}

	rows := make([][]string, len(m.Layout.Nodes))
	for i, n := range m.Layout.Nodes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if n.ID == m.Selected {
			mark = "●"
		}
		rows[i] = []string{cursor, mark, n.DisplayName(), string(n.Type), string(n.Status)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Node", "Type", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(m.Layout.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.Layout.Nodes[row]
			base := lipgloss.NewStyle()
			if col == 4 {
				base = statusStyle(n.Status)
			}
			if row == m.Cursor {
				return base.Bold(true)
			}
			return base
		})
	return t.Render()
}

// detailsPanel renders the selected node's metrics and links.
func detailsPanel(d network.Details) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(d.Node.DisplayName()))
	b.WriteString("\n")
	b.WriteString(renderStatus(d.Node.Status))
	b.WriteString("\n\n")
	for _, m := range d.Node.Metrics {
		b.WriteString(styleKey.Render(m.Label) + " " + StyleValue.Render(m.Value) + "\n")
	}
	if len(d.Links) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleHighlight.Render("Connections"))
		for _, l := range d.Links {
			b.WriteString(fmt.Sprintf("\n%-5s %s %s", l.Direction.Prefix(), l.Peer.DisplayName(), renderStatus(l.Status)))
		}
	}
	return panelStyle.Render(b.String())
}
