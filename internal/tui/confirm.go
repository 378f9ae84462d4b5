package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zpersona/internal/fixture"
)

// deleteFixtureMsg requests deletion of a saved persona.
type deleteFixtureMsg struct {
	id string
}

// confirmModel asks before deleting a persona from the vault.
type confirmModel struct {
	fixture fixture.Fixture
	from    viewID
}

func newConfirmModel(f fixture.Fixture, from viewID) confirmModel {
	return confirmModel{fixture: f, from: from}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (confirmModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// quit always works
	if key.Matches(km, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if km.String() == "y" {
		id := m.fixture.ID
		return m, func() tea.Msg { return deleteFixtureMsg{id: id} }
	}

	// any other key cancels
	from := m.from
	return m, func() tea.Msg { return navigateMsg{view: from} }
}

func (m confirmModel) View() string {
	s := "\n  " + zstyle.Subtitle.Render("delete "+m.fixture.FullName()+"?") + "\n\n"
	s += "  " + zstyle.MutedText.Render(m.fixture.Username+"  "+m.fixture.ID) + "\n\n"
	s += "  " + zstyle.StatusWarn.Render("this cannot be undone.") + " (y/n)\n"
	return s
}
