// # cmd/asnmeta/ui.go
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"asnmeta/internal/parser"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	warnings   []parser.Warning
	lastUpdate time.Time
	files      int
	modules    int
	fields     int
}

type updateMsg struct {
	warnings []parser.Warning
	files    int
	modules  int
	fields   int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.warnings = msg.warnings
		m.files = msg.files
		m.modules = msg.modules
		m.fields = msg.fields
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, w := range m.warnings {
			items = append(items, item{
				title: w.Kind.String(),
				desc:  fmt.Sprintf("%s:%d %s", w.File, w.Line, w.Detail),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last scan: %v | %d files | %d modules | %d fields",
		m.lastUpdate.Format("15:04:05"), m.files, m.modules, m.fields))

	var summary string
	if len(m.warnings) == 0 {
		summary = successStyle.Render("✅ Clean extraction")
	} else {
		summary = warningStyle.Render(fmt.Sprintf("⚠️  %d warnings", len(m.warnings)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("ASN.1 Metadata Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Scan Warnings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
