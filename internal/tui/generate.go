package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zpersona/internal/fixture"
)

// personaField represents a labeled field for display and selection.
type personaField struct {
	label string
	value string
}

// generateModel displays a generated persona with actions.
type generateModel struct {
	fixture fixture.Fixture
	fields  []personaField
	cursor  int
	flash   string
	flashAt time.Time
}

// saveFixtureMsg requests saving the current persona.
type saveFixtureMsg struct {
	fixture fixture.Fixture
}

// fixtureSavedMsg confirms the persona was saved.
type fixtureSavedMsg struct{}

// rerollUsernameMsg asks the root for a new username for the same persona.
type rerollUsernameMsg struct{}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

func newGenerateModel(f fixture.Fixture, now time.Time) generateModel {
	return generateModel{
		fixture: f,
		fields:  personaFields(f, now),
	}
}

// withFixture swaps the displayed persona, keeping the cursor.
func (m generateModel) withFixture(f fixture.Fixture, now time.Time) generateModel {
	m.fixture = f
	m.fields = personaFields(f, now)
	return m
}

func personaFields(f fixture.Fixture, now time.Time) []personaField {
	middle := "-"
	if f.HasMiddleName() {
		middle = f.MiddleName
	}
	return []personaField{
		{"name", f.FullName()},
		{"given", f.GivenName},
		{"middle", middle},
		{"surname", f.Surname},
		{"dob", f.DateOfBirth.Format("2006-01-02")},
		{"age", strconv.Itoa(f.Age(now))},
		{"username", f.Username},
		{"id", f.ID},
	}
}

func (m generateModel) Init() tea.Cmd {
	return nil
}

func (m generateModel) Update(msg tea.Msg) (generateModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case fixtureSavedMsg:
		return m.setFlash("saved"), clearFlashAfter()

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m generateModel) handleKey(msg tea.KeyMsg) (generateModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		val := m.fields[m.cursor].value
		if err := copyToClipboard(val); err != nil {
			return m.setFlash("copy: " + err.Error()), clearFlashAfter()
		}
		return m.setFlash("copied!"), clearFlashAfter()
	}

	switch msg.String() {
	case "s":
		f := m.fixture
		return m, func() tea.Msg { return saveFixtureMsg{fixture: f} }

	case "u":
		return m, func() tea.Msg { return rerollUsernameMsg{} }

	case "c":
		if err := copyToClipboard(fieldsText(m.fields)); err != nil {
			return m.setFlash("copy: " + err.Error()), clearFlashAfter()
		}
		return m.setFlash("copied all!"), clearFlashAfter()

	case "n":
		return m, func() tea.Msg { return navigateMsg{view: viewGenerate} }
	}

	return m, nil
}

func (m generateModel) setFlash(msg string) generateModel {
	m.flash = msg
	m.flashAt = time.Now()
	return m
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

func fieldsText(fields []personaField) string {
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}
	return b.String()
}

func (m generateModel) View() string {
	title := zstyle.Title.Render("generated persona")
	s := fmt.Sprintf("\n  %s\n\n", title)

	for i, f := range m.fields {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-10s", f.label))
		if i == m.cursor {
			s += zstyle.ActiveBorder.Render(fmt.Sprintf("  > %s %s", label, f.value)) + "\n"
		} else {
			s += fmt.Sprintf("    %s %s\n", label, f.value)
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
