package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/chart"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the interactive explorer command.
func (c *CLI) exploreCommand() *cobra.Command {
	var configPath, chartType, output string

	cmd := &cobra.Command{
		Use:   "explore [tree-file]",
		Short: "Toggle collapsible nodes interactively, re-rendering an SVG file",
		Long: `Open a terminal view of the chart's nodes. Collapsible nodes can be
expanded or collapsed with enter; every change re-renders the output file
so it can be watched in a browser. Press e to export a static copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = basePath("", args[0]) + ".svg"
			}
			return c.runExplore(cmd.Context(), args[0], configPath, chartType, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "chart config file (.toml or .json)")
	cmd.Flags().StringVarP(&chartType, "type", "t", "", "chart type: "+strings.Join(chartTypeNames(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "live SVG file (default: next to the tree file)")
	_ = cmd.RegisterFlagCompletionFunc("type", completeFixed(chartTypeNames()...))

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input, configPath, chartType, output string) error {
	in, err := loadInput(input, configPath, chartType)
	if err != nil {
		return err
	}
	ch, err := chart.New(&chart.FileContainer{Path: output}, in.Config,
		chart.WithLogger(c.Logger),
		chart.WithImageLoader(c.imageLoader(input, false)))
	if err != nil {
		return err
	}
	if _, err := ch.Render(ctx, in.Tree); err != nil {
		return err
	}
	printInfo("Live output: %s", StyleLink.Render(output))

	m := newExploreModel(ctx, ch, filepath.Dir(output))
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(exploreModel); ok && fm.exported != "" {
		printFile(fm.exported)
	}
	return nil
}

// =============================================================================
// exploreModel - Interactive node toggling
// =============================================================================

// exploreRow is one node in the explorer list.
type exploreRow struct {
	ID          string
	Label       string
	Depth       int
	Collapsible bool
	Expanded    bool
}

// toggledMsg reports the outcome of a toggle.
type toggledMsg struct {
	id  string
	st  *chart.State
	err error
}

// exportedMsg reports the outcome of an export.
type exportedMsg struct {
	path string
	err  error
}

// exploreModel is the bubbletea model for the explorer.
type exploreModel struct {
	ctx       context.Context
	chart     *chart.Chart
	exportDir string

	rows   []exploreRow
	cursor int
	offset int
	height int

	busy     bool
	status   string
	failed   bool
	exported string
}

func newExploreModel(ctx context.Context, ch *chart.Chart, exportDir string) exploreModel {
	m := exploreModel{ctx: ctx, chart: ch, exportDir: exportDir, height: 15}
	if st := ch.State(); st != nil {
		m.rows = exploreRows(st.Layout)
	}
	return m
}

// exploreRows flattens the layout in depth-first order.
func exploreRows(l *layout.Layout) []exploreRow {
	rows := make([]exploreRow, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		rows = append(rows, exploreRow{
			ID:          n.ID(),
			Label:       n.Src.Source.Label(),
			Depth:       n.Depth,
			Collapsible: n.Src.Box.Collapsible,
			Expanded:    n.Src.Box.Expanded,
		})
	}
	return rows
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-7, 5)
	case toggledMsg:
		m.busy = false
		if msg.err != nil {
			m.status, m.failed = msg.err.Error(), true
			return m, nil
		}
		m.rows = exploreRows(msg.st.Layout)
		m.cursor = min(m.cursor, len(m.rows)-1)
		m.status, m.failed = fmt.Sprintf("toggled %s (%.0f×%.0f)", msg.id, msg.st.Width, msg.st.Height), false
	case exportedMsg:
		m.busy = false
		if msg.err != nil {
			m.status, m.failed = msg.err.Error(), true
			return m, nil
		}
		m.exported = msg.path
		m.status, m.failed = "exported "+msg.path, false
	}
	return m, nil
}

func (m exploreModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case "enter", " ":
		if m.busy || len(m.rows) == 0 {
			return m, nil
		}
		m.busy = true
		return m, m.toggle(m.rows[m.cursor].ID)
	case "e":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.export()
	}
	return m, nil
}

func (m exploreModel) toggle(id string) tea.Cmd {
	ch, ctx := m.chart, m.ctx
	return func() tea.Msg {
		st, err := ch.Toggle(ctx, id)
		return toggledMsg{id: id, st: st, err: err}
	}
}

func (m exploreModel) export() tea.Cmd {
	ch, ctx, dir := m.chart, m.ctx, m.exportDir
	return func() tea.Msg {
		path, err := ch.ExportFile(ctx, dir)
		return exportedMsg{path: path, err: err}
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore Chart"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  e export  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		marker := " "
		if r.Collapsible {
			marker = "+"
			if r.Expanded {
				marker = StyleExpanded.Render("−")
			}
		}
		line := fmt.Sprintf("%s%s%s %s", cursor, strings.Repeat("  ", r.Depth), marker, r.Label)
		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case r.Collapsible:
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(listDimStyle.Render("  rendering…"))
	case m.failed:
		b.WriteString(StyleWarning.Render("  " + m.status))
	case m.status != "":
		b.WriteString(StyleSuccess.Render("  " + m.status))
	default:
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	}
	return b.String()
}
