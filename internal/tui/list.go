package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zpersona/internal/fixture"
)

// listModel displays saved personas in a scrollable list.
type listModel struct {
	fixtures []fixture.Fixture
	cursor   int
	flash    string
}

// viewFixtureMsg requests viewing a specific persona.
type viewFixtureMsg struct {
	fixture fixture.Fixture
}

// confirmDeleteMsg asks the root to confirm deleting a persona.
type confirmDeleteMsg struct {
	fixture fixture.Fixture
}

func newListModel(fs []fixture.Fixture) listModel {
	return listModel{fixtures: fs}
}

func (m listModel) Init() tea.Cmd {
	return nil
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m listModel) handleKey(msg tea.KeyMsg) (listModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
	}

	if len(m.fixtures) == 0 {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.fixtures)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		f := m.fixtures[m.cursor]
		return m, func() tea.Msg { return viewFixtureMsg{fixture: f} }
	}

	if msg.String() == "d" {
		f := m.fixtures[m.cursor]
		return m, func() tea.Msg { return confirmDeleteMsg{fixture: f} }
	}

	return m, nil
}

func (m listModel) View() string {
	accentStyle := lipgloss.NewStyle().Foreground(zstyle.ZburnAccent).Bold(true)

	s := "\n"

	if len(m.fixtures) == 0 {
		s += "  " + zstyle.MutedText.Render("no saved personas") + "\n"
		s += "\n"
		if m.flash != "" {
			s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
		} else {
			s += "\n"
		}
		return s
	}

	for i, f := range m.fixtures {
		name := truncate(f.FullName(), 24)
		username := truncate(f.Username, 20)
		line := fmt.Sprintf("%-24s %-20s", name, username)
		line += "  " + zstyle.MutedText.Render(humanize.Time(f.CreatedAt))

		if i == m.cursor {
			s += "  " + accentStyle.Render("▸") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n"

	// always reserve a line for flash to prevent layout shift
	if m.flash != "" {
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
