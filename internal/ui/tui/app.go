package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/usecase"
)

type screen int

const (
	screenHome screen = iota
	screenUnits
	screenConvert
)

const (
	menuUnits   = "Units"
	menuConvert = "Convert"
	menuReload  = "Reload"
	menuInit    = "Init Workspace"
	menuQuit    = "Quit"
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type unitItem struct {
	rec domain.ConversionRecord
}

func (u unitItem) Title() string { return u.rec.Unit }
func (u unitItem) Description() string {
	s := fmt.Sprintf("1 %s = %s %s", u.rec.Unit, u.rec.Multiplier.String(), u.rec.Dimension.BaseUnit())
	if u.rec.Via != "" {
		s += " (via " + u.rec.Via + ")"
	}
	return s
}
func (u unitItem) FilterValue() string { return u.rec.Unit }

type model struct {
	ctx   context.Context
	theme Theme
	deps  Deps

	scr   screen
	menu  list.Model
	units list.Model
	input textinput.Model

	workspaceFound bool
	workspaceRoot  string

	reg     *domain.Registry
	files   []domain.BakefileRef
	loadErr error

	result string
	toast  string
}

func Run(ctx context.Context, deps Deps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(wrapSafe(newModel(ctx, deps), deps.Logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newModel(ctx context.Context, deps Deps) model {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	items := []list.Item{
		menuItem{menuUnits, "Browse the custom units of this workspace"},
		menuItem{menuConvert, "Convert an amount to grams or liters"},
		menuItem{menuReload, "Re-read the bakefiles"},
		menuItem{menuInit, "Create bake.yaml and a starter bakefile here"},
		menuItem{menuQuit, "Exit bake"},
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "bake"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)

	units := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	units.Title = "Units"
	units.SetShowHelp(false)
	units.SetFilteringEnabled(true)

	in := textinput.New()
	in.Placeholder = "2 cup"
	in.CharLimit = 64

	return model{
		ctx:   ctx,
		theme: DefaultTheme(),
		deps:  deps,
		scr:   screenHome,
		menu:  menu,
		units: units,
		input: in,
	}
}

func (m model) Init() tea.Cmd { return cmdRefreshWorkspace(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		m.menu.SetSize(w-4, h-10)
		m.units.SetSize(w-4, h-10)
		m.input.Width = w - 12
		return m, nil

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		if !msg.found {
			m.reg, m.files, m.loadErr = nil, nil, nil
			return m, nil
		}
		return m, cmdLoadRegistry(m.ctx, m.deps, msg.root)

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace created"
		return m, cmdRefreshWorkspace(m.deps)

	case registryLoadedMsg:
		m.reg, m.files, m.loadErr = msg.reg, msg.files, msg.err
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.units.SetItems(nil)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.reg.Records()))
		for _, rec := range msg.reg.Records() {
			items = append(items, unitItem{rec: rec})
		}
		m.units.SetItems(items)
		m.toast = fmt.Sprintf("Loaded %d unit(s) from %d bakefile(s)", len(items), len(msg.files))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActive(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.scr {
	case screenHome:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			it, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			return m.open(it.title)
		}

	case screenUnits:
		if m.units.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "esc", "q":
			m.scr = screenHome
			return m, nil
		}

	case screenConvert:
		switch msg.String() {
		case "esc":
			m.scr = screenHome
			m.input.Blur()
			return m, nil
		case "enter":
			m.result = m.convert(m.input.Value())
			return m, nil
		}
	}

	return m.updateActive(msg)
}

func (m model) open(title string) (tea.Model, tea.Cmd) {
	m.toast = ""
	switch title {
	case menuQuit:
		return m, tea.Quit
	case menuUnits:
		m.scr = screenUnits
		return m, nil
	case menuConvert:
		m.scr = screenConvert
		m.result = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case menuReload:
		return m, cmdRefreshWorkspace(m.deps)
	case menuInit:
		if m.workspaceFound {
			m.toast = "Workspace already exists at " + m.workspaceRoot
			return m, nil
		}
		return m, cmdInitWorkspaceHere(m.deps, m.deps.StartDir)
	}
	return m, nil
}

func (m model) convert(in string) string {
	if m.reg == nil {
		if m.loadErr != nil {
			return m.theme.Error.Render(userMessage(m.loadErr))
		}
		return m.theme.Error.Render("No registry loaded")
	}
	conv, err := usecase.ConvertAmount(m.reg, strings.TrimSpace(in))
	if err != nil {
		return m.theme.Error.Render(userMessage(err))
	}
	return m.theme.OK.Render(fmt.Sprintf("%s = %s", conv.Input, conv.Base))
}

func (m model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenUnits:
		m.units, cmd = m.units.Update(msg)
	case screenConvert:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("bake") + "\n" +
		m.theme.Subtitle.Render("custom kitchen units for recipe scaling") + "\n"

	var banner string
	switch {
	case !m.workspaceFound:
		banner = m.theme.Card.Render("⚠ No workspace found.\n\nChoose Init Workspace to create one here.")
	case m.loadErr != nil:
		banner = m.theme.Help.Render("Workspace: "+m.workspaceRoot) + "\n" +
			m.theme.Error.Render(clampString(m.loadErr.Error(), 400))
	default:
		banner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s (%d bakefile(s))", m.workspaceRoot, len(m.files)))
	}

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Subtitle.Render(m.toast)
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • q quit")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(m.menu.View()) + toast + "\n" + help)

	case screenUnits:
		body := m.units.View()
		if len(m.units.Items()) == 0 {
			body = "No convertible units declared."
		}
		extra := renderUnconvertible(m.reg)
		help := m.theme.Help.Render("/ filter • esc back")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(body+extra) + "\n" + help)

	case screenConvert:
		body := m.theme.Title.Render("Convert") + "\n\n" + m.input.View()
		if m.result != "" {
			body += "\n\n" + m.result
		}
		help := m.theme.Help.Render("enter convert • esc back")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(body) + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
