package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sshconnector/ssh-connector/internal/history"
	"github.com/sshconnector/ssh-connector/internal/model"
)

// PickEntry is one selectable group/host pair in the quick picker.
type PickEntry struct {
	Group string
	Host  string
}

// BuildPickEntries flattens the document into picker entries with the most
// recently used hosts first; hosts without history keep document order.
func BuildPickEntries(gs []model.Group, stats map[string]history.HostStats) []PickEntry {
	var out []PickEntry
	for _, g := range gs {
		for _, h := range g.Hosts {
			out = append(out, PickEntry{Group: g.Name, Host: h})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return stats[out[i].Host].LastConnected > stats[out[j].Host].LastConnected
	})
	return out
}

type pickerModel struct {
	entries  []PickEntry
	filtered []PickEntry
	sel      int
	filter   textinput.Model
	typing   bool
	choice   *PickEntry
	width    int
}

func newPickerModel(entries []PickEntry) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = 64
	ti.Width = 40
	m := pickerModel{entries: entries, filter: ti}
	m.applyFilter()
	return m
}

func (m *pickerModel) applyFilter() {
	f := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if f == "" {
		m.filtered = append([]PickEntry(nil), m.entries...)
	} else {
		m.filtered = nil
		for _, e := range m.entries {
			if strings.Contains(strings.ToLower(e.Host), f) || strings.Contains(strings.ToLower(e.Group), f) {
				m.filtered = append(m.filtered, e)
			}
		}
	}
	if m.sel >= len(m.filtered) {
		m.sel = len(m.filtered) - 1
	}
	if m.sel < 0 {
		m.sel = 0
	}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.typing {
			switch msg.String() {
			case "enter", "esc":
				m.typing = false
				m.filter.Blur()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.applyFilter()
				return m, cmd
			}
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.sel < len(m.filtered)-1 {
				m.sel++
			}
		case "k", "up":
			if m.sel > 0 {
				m.sel--
			}
		case "/":
			m.typing = true
			return m, m.filter.Focus()
		case "enter":
			if len(m.filtered) > 0 {
				e := m.filtered[m.sel]
				m.choice = &e
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("SSH CONNECTOR")
	var b strings.Builder
	for i, e := range m.filtered {
		cursor := "  "
		if i == m.sel {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-40s %s\n", cursor, e.Host, e.Group))
	}
	if len(m.filtered) == 0 {
		b.WriteString("  (no servers matched)\n")
	}
	var filterLine string
	if m.typing || strings.TrimSpace(m.filter.Value()) != "" {
		filterLine = "Filter: " + m.filter.View()
	} else {
		filterLine = "Press / to filter, j/k to move, Enter to connect, q to quit"
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("39")).
		Padding(0, 1).
		Render(strings.TrimSuffix(b.String(), "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, head, panel, filterLine)
}

// RunPicker shows the quick picker over the whole terminal and returns the
// chosen entry, or nil when the user backed out. The caller launches the
// session after the program has released the terminal.
func RunPicker(entries []PickEntry) (*PickEntry, error) {
	p := tea.NewProgram(newPickerModel(entries), tea.WithAltScreen())
	res, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := res.(pickerModel)
	if !ok {
		return nil, nil
	}
	return final.choice, nil
}
