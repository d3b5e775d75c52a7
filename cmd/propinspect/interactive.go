package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/propstore/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectModel struct {
	layouts []*layout.TypeLayout
	table   table.Model
	current int
}

func newInspectModel(layouts []*layout.TypeLayout) *inspectModel {
	widths := []int{3, 14, 12, 6, 18, 7, 5}
	cols := make([]table.Column, len(descriptorHeaders))
	for i, h := range descriptorHeaders {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}

	m := &inspectModel{
		layouts: layouts,
		table: table.New(
			table.WithColumns(cols),
			table.WithFocused(true),
			table.WithHeight(10),
		),
	}
	m.showLayout(0)
	return m
}

func (m *inspectModel) showLayout(i int) {
	m.current = i
	if len(m.layouts) == 0 {
		m.table.SetRows(nil)
		return
	}
	src := descriptorRows(m.layouts[i])
	rows := make([]table.Row, len(src))
	for j, r := range src {
		rows[j] = table.Row(r)
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "left", "h":
			if m.current > 0 {
				m.showLayout(m.current - 1)
			}
			return m, nil

		case "right", "l":
			if m.current < len(m.layouts)-1 {
				m.showLayout(m.current + 1)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *inspectModel) View() string {
	if len(m.layouts) == 0 {
		return "No layouts.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Property Layouts"))
	b.WriteString("\n\n")

	for i, l := range m.layouts {
		if i == m.current {
			b.WriteString(selectedStyle.Render(l.Owner().Name()))
		} else {
			b.WriteString(tabStyle.Render(l.Owner().Name()))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(layoutSummary(m.layouts[m.current])))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ type • ↑/↓ property • q quit"))

	return b.String()
}

func runInteractive(layouts []*layout.TypeLayout) error {
	p := tea.NewProgram(newInspectModel(layouts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
