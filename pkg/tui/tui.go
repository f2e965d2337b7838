// Package tui provides a terminal browser for K4 bank files and the wave table
package tui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/k4tool/pkg/k4"
	"github.com/james-see/k4tool/pkg/listing"
	"github.com/james-see/k4tool/pkg/sysex"
)

// Kawai-inspired color scheme
var (
	kawaiRed   = lipgloss.Color("#E4002B")
	amber      = lipgloss.Color("#FFB000")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(kawaiRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amber).
			Padding(1, 2)
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 12
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateLoading
	StateResult
)

// Action is what a menu item does
type Action int

const (
	ActionList Action = iota
	ActionIdentify
	ActionWaves
	ActionQuit
)

// needsFile reports whether the action works on a picked file
func (a Action) needsFile() bool {
	return a == ActionList || a == ActionIdentify
}

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      Action
}

var menuItems = []MenuItem{
	{Title: "List bank", Description: "Show the singles, multis, drum and effects of a K4 bank (.syx)", Action: ActionList},
	{Title: "Identify SysEx", Description: "Show the manufacturer and content of every message in a file", Action: ActionIdentify},
	{Title: "Wave table", Description: "Browse the 256 K4 waves", Action: ActionWaves},
	{Title: "Exit", Description: "Exit the application", Action: ActionQuit},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	viewport     viewport.Model
	names        k4.WaveNames
	selectedFile string
	item         MenuItem
	title        string
	err          error
	width        int
	height       int
}

// loadDoneMsg carries the rendered content of a finished action
type loadDoneMsg struct {
	title   string
	content string
	err     error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model. names may be nil.
func New(names k4.WaveNames) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".syx"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(amber)

	return Model{
		state:      StateMenu,
		filePicker: fp,
		spinner:    s,
		viewport:   viewport.New(defaultWidth, defaultHeight-chromeHeight),
		names:      names,
		width:      defaultWidth,
		height:     defaultHeight,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive every message while it is shown
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, m.load())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - chromeHeight)
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = msg.Height - chromeHeight
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadDoneMsg:
		m.state = StateResult
		m.title = msg.title
		m.err = msg.err
		m.viewport.SetContent(msg.content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		m.item = menuItems[m.menuIndex]
		switch {
		case m.item.Action == ActionQuit:
			return m, tea.Quit
		case m.item.Action.needsFile():
			m.state = StateFilePicker
			return m, m.filePicker.Init()
		default:
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.title = ""
		m.viewport.SetContent("")
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// load runs the selected action in the background
func (m Model) load() tea.Cmd {
	action, path, names := m.item.Action, m.selectedFile, m.names
	return func() tea.Msg {
		return render(action, path, names)
	}
}

func render(action Action, path string, names k4.WaveNames) loadDoneMsg {
	var buf bytes.Buffer
	if action == ActionWaves {
		if err := listing.WriteWaveList(&buf, names); err != nil {
			return loadDoneMsg{err: err}
		}
		return loadDoneMsg{title: "WAVES", content: buf.String()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return loadDoneMsg{err: err}
	}
	name := filepath.Base(path)

	switch action {
	case ActionList:
		bank, err := k4.ParseBank(data)
		if err != nil {
			return loadDoneMsg{err: describe(err)}
		}
		if err := listing.Render(&buf, listing.FromBank(name, bank), listing.FormatText); err != nil {
			return loadDoneMsg{err: err}
		}
	case ActionIdentify:
		if err := listing.WriteInventory(&buf, listing.Identify(name, data)); err != nil {
			return loadDoneMsg{err: err}
		}
	}
	return loadDoneMsg{title: strings.ToUpper(name), content: buf.String()}
}

// describe words bank errors the way the command line does
func describe(err error) error {
	var sizeErr *sysex.SizeError
	if errors.As(err, &sizeErr) {
		return fmt.Errorf("Not a bank file (%w)", err)
	}
	return fmt.Errorf("Bank parse failed, error: %w", err)
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateLoading:
		s.WriteString(m.viewLoading())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" K4 TOOL "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(amber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT .SYX FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" LOADING "))
	s.WriteString("\n\n")
	target := "wave table"
	if m.selectedFile != "" {
		target = filepath.Base(m.selectedFile)
	}
	s.WriteString(fmt.Sprintf("%s Reading %s...\n", m.spinner.View(), target))
	s.WriteString(statusStyle.Render("  " + m.item.Title))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" " + m.title + " "))
		s.WriteString("\n\n")
		s.WriteString(m.viewport.View())
		s.WriteString("\n")
		s.WriteString(statusStyle.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("esc: back to menu • pgup/pgdn: scroll"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   _  ___  _  _____ ___   ___  _
  | |/ / || ||_   _/ _ \ / _ \| |
  | ' <|__   _|| || (_) | (_) | |__
  |_|\_\  |_|  |_| \___/ \___/|____|
`
	return lipgloss.NewStyle().Foreground(amber).Render(logo)
}

// Run starts the TUI application
func Run(names k4.WaveNames) error {
	p := tea.NewProgram(New(names), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
