package models

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/VoidMesh/horizon/internal/input"
	"github.com/VoidMesh/horizon/internal/render/terminal"
	"github.com/VoidMesh/horizon/internal/sim"
)

// Minimum heightmap size, and the room the HUD panel and chrome take.
const (
	minCols     = 10
	minRows     = 5
	panelWidth  = 40
	chromeLines = 4
)

// FrameMsg carries the wall time a frame was scheduled at.
type FrameMsg time.Time

// App is the terminal host: it feeds key events to the keyboard, drives one
// simulation frame per tick and draws the heightmap next to the HUD.
type App struct {
	sim       *sim.Simulation
	keyboard  *input.Keyboard
	heightmap *terminal.Heightmap
	hud       *HUDPanel
	logger    *log.Logger

	interval time.Duration
	start    time.Time

	width    int
	height   int
	err      error
	showHelp bool
}

// NewApp creates the application model. The simulation must have been built
// with keyboard, heightmap and hud as its collaborators.
func NewApp(s *sim.Simulation, keyboard *input.Keyboard, heightmap *terminal.Heightmap, hud *HUDPanel, interval time.Duration, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{
		sim:       s,
		keyboard:  keyboard,
		heightmap: heightmap,
		hud:       hud,
		logger:    logger,
		interval:  interval,
	}
}

// Init schedules the first frame.
func (m *App) Init() tea.Cmd {
	m.logger.Debug("Starting terminal host", "interval", m.interval)
	return m.tick()
}

func (m *App) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// Update handles messages and updates the application state
func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cols := max(msg.Width-panelWidth, minCols)
		rows := max(msg.Height-chromeLines, minRows)
		if err := m.heightmap.Resize(cols, rows); err != nil {
			m.logger.Warn("Failed to resize heightmap", "error", err)
		}
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg.String(), true)

	case tea.KeyReleaseMsg:
		return m, m.handleKey(msg.String(), false)

	case FrameMsg:
		return m, m.frame(time.Time(msg))
	}

	return m, nil
}

// handleKey applies one key event. Movement keys go to the keyboard, the
// rest are host commands acted on at press time.
func (m *App) handleKey(name string, pressed bool) tea.Cmd {
	if isMovementKey(name) {
		if pressed {
			m.keyboard.Press(name)
		} else {
			m.keyboard.Release(name)
		}
		return nil
	}
	if !pressed {
		return nil
	}

	switch name {
	case "ctrl+c", "q":
		m.sim.Stop()
		return tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "esc":
		m.keyboard.Reset()
	}
	return nil
}

func isMovementKey(name string) bool {
	key := input.Normalize(name)
	for _, k := range sim.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// frame runs one simulation frame and re-arms the tick unless the
// simulation was stopped or failed.
func (m *App) frame(now time.Time) tea.Cmd {
	if m.sim.Stopped() {
		return tea.Quit
	}
	if m.start.IsZero() {
		m.start = now
	}

	if err := m.sim.Frame(now.Sub(m.start)); err != nil {
		m.err = err
		m.logger.Error("Frame failed", "error", err)
		m.sim.Stop()
		return tea.Quit
	}
	return m.tick()
}

// Err is the frame error that ended the program, if any.
func (m *App) Err() error {
	return m.err
}

// View renders the application
func (m *App) View() string {
	var s strings.Builder

	s.WriteString(terminal.TitleStyle.Render("Horizon") + "\n")

	if m.showHelp {
		s.WriteString(m.renderHelp())
		return s.String()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		terminal.BorderStyle.Render(m.heightmap.View()),
		terminal.InfoPanelStyle.Render(m.hud.Text()),
	)
	s.WriteString(body + "\n")

	if m.err != nil {
		s.WriteString(terminal.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	held := make([]string, 0, len(sim.Keys))
	for _, k := range m.keyboard.Held() {
		held = append(held, strings.ToUpper(string(k)))
	}
	status := fmt.Sprintf("Frame %d  Held [%s]  WASD move • esc release • ? help • q quit",
		m.heightmap.Frame(), strings.Join(held, " "))
	s.WriteString(terminal.StatusBarStyle.Width(max(m.width, 0)).Render(status))

	return s.String()
}

func (m *App) renderHelp() string {
	help := `Keys:
  W / S        Move forward / back (-Z / +Z)
  A / D        Move left / right (-X / +X)
  esc          Release all keys
  ?            Toggle this help
  q, Ctrl+C    Quit

Terminals that never report key releases
release a key after the hold timeout.`
	return terminal.BorderStyle.Padding(0, 1).Render(help)
}
