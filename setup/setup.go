// Package setup asks the user to choose a playback resolution before the
// display takes over the terminal.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"go.jacobcolvin.com/textreel/display"
)

// ErrCancelled indicates the user left the picker without choosing.
var ErrCancelled = errors.New("resolution selection cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	normalStyle   = lipgloss.NewStyle()
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the picker's bubbletea model.
//
// Create instances with [NewModel].
type Model struct {
	presets   []display.Preset
	cursor    int
	chosen    bool
	cancelled bool
}

// NewModel creates a picker over presets with the cursor on the preset
// named initial, or on the first one when no preset has that name.
func NewModel(presets []display.Preset, initial string) *Model {
	m := &Model{presets: presets}

	for i, p := range presets {
		if strings.EqualFold(p.Name, initial) {
			m.cursor = i
		}
	}

	return m
}

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update moves the selection with the arrow keys (or j/k), selects a preset
// directly by its number, confirms with enter, and cancels with q, Esc, or
// Ctrl+C.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.presets)) % len(m.presets)

	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.presets)

	case "enter", "space":
		m.chosen = true

		return m, tea.Quit

	case "q", "esc", "ctrl+c":
		m.cancelled = true

		return m, tea.Quit

	default:
		n, err := strconv.Atoi(s)
		if err == nil && n >= 1 && n <= len(m.presets) {
			m.cursor = n - 1
			m.chosen = true

			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements [tea.Model].
func (m *Model) View() tea.View {
	return tea.NewView(m.String())
}

// String renders the preset list.
func (m *Model) String() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Choose a resolution"))
	sb.WriteString("\n\n")

	for i, p := range m.presets {
		line := fmt.Sprintf("%d. %-6s %-5s %s", i+1, p.Name, p.Metrics, p.Description)

		if i == m.cursor {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString(normalStyle.Render("  " + line))
		}

		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	sb.WriteString(dimStyle.Render("up/down to move, enter to choose, q to cancel"))
	sb.WriteByte('\n')

	return sb.String()
}

// Selected returns the chosen preset. It reports false until the user has
// confirmed a choice.
func (m *Model) Selected() (display.Preset, bool) {
	if !m.chosen || m.cancelled || len(m.presets) == 0 {
		return display.Preset{}, false
	}

	return m.presets[m.cursor], true
}

// Pick runs the picker on in and out and returns the chosen preset. It
// returns [ErrCancelled] when the user cancels.
func Pick(ctx context.Context, in io.Reader, out io.Writer, initial string) (display.Preset, error) {
	p := tea.NewProgram(NewModel(display.Presets(), initial),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return display.Preset{}, fmt.Errorf("running resolution picker: %w", err)
	}

	m, ok := final.(*Model)
	if !ok {
		return display.Preset{}, fmt.Errorf("unexpected picker model %T", final)
	}

	preset, ok := m.Selected()
	if !ok {
		return display.Preset{}, ErrCancelled
	}

	return preset, nil
}
