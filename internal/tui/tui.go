// Package tui implements the root Bubble Tea model for zpersona.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zpersona/internal/fixture"
	"github.com/zarlcorp/zpersona/internal/persona"
	"github.com/zarlcorp/zpersona/internal/store"
)

type viewID int

const (
	viewPassword viewID = iota
	viewMenu
	viewGenerate
	viewList
	viewDetail
	viewConfirm
)

// Model is the root TUI model.
type Model struct {
	version  string
	dataDir  string
	gen      fixture.Generator
	src      persona.Source
	fsys     zfilesystem.ReadWriteFileFS
	store    *store.Store
	firstRun bool

	active   viewID
	password passwordModel
	menu     menuModel
	generate generateModel
	list     listModel
	detail   detailModel
	confirm  confirmModel

	// terminal dimensions
	width  int
	height int
}

// New creates the root TUI model. The vault lives in dataDir.
func New(version, dataDir string, gen fixture.Generator, firstRun bool) Model {
	return Model{
		version:  version,
		dataDir:  dataDir,
		gen:      gen,
		src:      persona.CryptoSource{},
		firstRun: firstRun,
		active:   viewPassword,
		password: newPasswordModel(firstRun),
		menu:     newMenuModel(version),
	}
}

func (m Model) Init() tea.Cmd {
	return m.password.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case passwordSubmitMsg:
		return m.openStore(msg.password)

	case navigateMsg:
		return m.navigate(msg.view)

	case quickUsernameMsg:
		return m.handleQuickUsername()

	case rerollUsernameMsg:
		m.generate = m.generate.withFixture(m.gen.Reroll(m.src, m.generate.fixture), m.gen.Composer.Now())
		return m, nil

	case saveFixtureMsg:
		return m.handleSave(msg.fixture)

	case viewFixtureMsg:
		m.detail = newDetailModel(msg.fixture, m.gen.Composer.Now())
		m.active = viewDetail
		return m, nil

	case confirmDeleteMsg:
		m.confirm = newConfirmModel(msg.fixture, m.active)
		m.active = viewConfirm
		return m, nil

	case deleteFixtureMsg:
		return m.handleDelete(msg.id)
	}

	return m.updateActive(msg)
}

func (m Model) View() string {
	// password and menu include the logo, render directly
	switch m.active {
	case viewPassword:
		return m.password.View()
	case viewMenu:
		return m.menu.View()
	}

	var content string
	switch m.active {
	case viewGenerate:
		content = m.generate.View()
	case viewList:
		content = m.list.View()
	case viewDetail:
		content = m.detail.View()
	case viewConfirm:
		content = m.confirm.View()
	}

	header := zstyle.RenderHeader("zpersona", viewTitle(m.active), zstyle.ZburnAccent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(m.active))

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

func viewTitle(id viewID) string {
	switch id {
	case viewGenerate:
		return "Generate Persona"
	case viewList:
		return "Saved Personas"
	case viewDetail:
		return "Persona Details"
	case viewConfirm:
		return "Delete"
	}
	return ""
}

// helpFor returns keybinding pairs for each view's footer.
func helpFor(id viewID) []zstyle.HelpPair {
	switch id {
	case viewGenerate:
		return []zstyle.HelpPair{
			{Key: "s", Desc: "save"},
			{Key: "u", Desc: "new username"},
			{Key: "c", Desc: "copy all"},
			{Key: "enter", Desc: "copy field"},
			{Key: "n", Desc: "new"},
			{Key: "esc", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	case viewList:
		return []zstyle.HelpPair{
			{Key: "j/k", Desc: "navigate"},
			{Key: "enter", Desc: "view"},
			{Key: "d", Desc: "delete"},
			{Key: "esc", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	case viewDetail:
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "copy field"},
			{Key: "c", Desc: "copy all"},
			{Key: "d", Desc: "delete"},
			{Key: "esc", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	case viewConfirm:
		return []zstyle.HelpPair{
			{Key: "y", Desc: "confirm"},
			{Key: "n", Desc: "cancel"},
		}
	}
	return nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewPassword:
		m.password, cmd = m.password.Update(msg)
	case viewMenu:
		m.menu, cmd = m.menu.Update(msg)
	case viewGenerate:
		m.generate, cmd = m.generate.Update(msg)
	case viewList:
		m.list, cmd = m.list.Update(msg)
	case viewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case viewConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	}

	return m, cmd
}

func (m Model) openStore(password string) (tea.Model, tea.Cmd) {
	fsys := m.fsys
	if fsys == nil {
		if err := os.MkdirAll(m.dataDir, 0o700); err != nil {
			m.password, _ = m.password.Update(passwordErrMsg{
				err: fmt.Errorf("create data dir: %w", err),
			})
			return m, nil
		}
		fsys = zfilesystem.NewOSFileSystem(m.dataDir)
	}

	s, err := store.Open(fsys, password)
	if err != nil {
		m.password, _ = m.password.Update(passwordErrMsg{err: err})
		return m, nil
	}

	m.store = s
	return m.navigate(viewMenu)
}

func (m Model) navigate(view viewID) (tea.Model, tea.Cmd) {
	switch view {
	case viewMenu:
		mm := newMenuModel(m.version)
		mm.cursor = m.menu.cursor
		if m.store != nil {
			if n, err := m.store.Count(); err == nil {
				mm.saved = n
			}
		}
		m.menu = mm
		m.active = viewMenu
		return m, tea.ClearScreen

	case viewGenerate:
		f, err := m.gen.New(m.src)
		if err != nil {
			m.menu.flash = "generate: " + err.Error()
			m.active = viewMenu
			return m, clearFlashAfter()
		}
		m.generate = newGenerateModel(f, m.gen.Composer.Now())
		m.active = viewGenerate
		return m, tea.ClearScreen

	case viewList:
		m, cmd := m.loadList()
		return m, tea.Batch(cmd, tea.ClearScreen)

	case viewDetail:
		m.active = viewDetail
		return m, tea.ClearScreen
	}

	return m, nil
}

func (m Model) loadList() (Model, tea.Cmd) {
	all, err := m.store.List()
	if err != nil {
		m.list = newListModel(nil)
		m.list.flash = "load: " + err.Error()
		m.active = viewList
		return m, clearFlashAfter()
	}

	cursor := m.list.cursor
	m.list = newListModel(all)
	m.list.cursor = min(cursor, max(len(all)-1, 0))
	m.active = viewList
	return m, nil
}

func (m Model) handleQuickUsername() (tea.Model, tea.Cmd) {
	f, err := m.gen.New(m.src)
	if err != nil {
		m.menu.flash = "generate: " + err.Error()
		return m, clearFlashAfter()
	}

	if err := copyToClipboard(f.Username); err != nil {
		m.menu.flash = "copy: " + err.Error()
		return m, clearFlashAfter()
	}
	m.menu.flash = "copied " + f.Username
	return m, clearFlashAfter()
}

func (m Model) handleSave(f fixture.Fixture) (tea.Model, tea.Cmd) {
	if err := m.store.Save(f); err != nil {
		m.generate.flash = "save: " + err.Error()
		return m, clearFlashAfter()
	}

	m.generate, _ = m.generate.Update(fixtureSavedMsg{})
	return m, clearFlashAfter()
}

func (m Model) handleDelete(id string) (tea.Model, tea.Cmd) {
	if err := m.store.Delete(id); err != nil {
		m.list.flash = "delete: " + err.Error()
		m, _ = m.loadList()
		return m, clearFlashAfter()
	}

	m, cmd := m.loadList()
	m.list.flash = "deleted"
	return m, tea.Batch(cmd, clearFlashAfter())
}

// Close cleans up resources. Call after the program exits.
func (m Model) Close() {
	if m.store != nil {
		m.store.Close()
	}
}
