// Package tui is an interactive viewer for planned quest paths.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/napolitain/ironquest/internal/solver/planner"
)

// Model is the Bubble Tea model for the path viewer.
type Model struct {
	path  *planner.Path
	title string
	keys  keyMap

	viewport viewport.Model
	cursor   int

	width    int
	height   int
	ready    bool
	quitting bool
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Future key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Top:    key.NewBinding(key.WithKeys("home", "g")),
		Bottom: key.NewBinding(key.WithKeys("end", "G")),
		Future: key.NewBinding(key.WithKeys("f")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

// New creates a viewer for path. title is shown in the status bar.
func New(path *planner.Path, title string) Model {
	if title == "" {
		title = "ironquest"
	}
	return Model{path: path, title: title, keys: defaultKeyMap()}
}

// Run starts the Bubble Tea program.
func Run(path *planner.Path, title string) error {
	p := tea.NewProgram(New(path, title), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - detailHeight() - 1 // status bar
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveTo(m.cursor - 1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.moveTo(m.cursor + 1)
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.moveTo(0)
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.moveTo(len(m.path.Actions) - 1)
			return m, nil
		case key.Matches(msg, m.keys.Future):
			m.moveTo(m.nextFuture())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// moveTo selects action i, clamped to the path, and scrolls it into view
func (m *Model) moveTo(i int) {
	if n := len(m.path.Actions); i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	m.refreshViewport()
}

// nextFuture returns the index of the next future action after the cursor,
// wrapping around. The cursor is returned when there is none.
func (m Model) nextFuture() int {
	n := len(m.path.Actions)
	for step := 1; step <= n; step++ {
		i := (m.cursor + step) % n
		if m.path.Actions[i].Future() {
			return i
		}
	}
	return m.cursor
}

// refreshViewport re-renders the action list and keeps the cursor visible
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	lines := make([]string, len(m.path.Actions))
	for i, a := range m.path.Actions {
		lines[i] = m.renderAction(i, a)
	}
	if len(lines) == 0 {
		lines = []string{"Nothing to do, every quest is complete."}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) renderAction(i int, a planner.Action) string {
	line := fmt.Sprintf("%4d. %-5s %s", i+1, a.Type(), a.Message())
	if m.width > 0 && len(line) < m.width {
		line += strings.Repeat(" ", m.width-len(line))
	}
	if i == m.cursor {
		return styleSelected.Render(line)
	}
	return actionStyle(a).Render(line)
}

// View renders the action list, the selected snapshot and the status bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var detail []string
	if len(m.path.Actions) > 0 {
		detail = renderPlayer(m.path.Actions[m.cursor].Player())
	}
	pane := styleDetail.Width(m.width).Render(strings.Join(detail, "\n"))

	return m.viewport.View() + "\n" + pane + "\n" + m.renderStatusBar()
}

func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
