package setup_test

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/setup"
)

func press(code rune, mod tea.KeyMod) tea.KeyPressMsg {
	k := tea.KeyPressMsg{Code: code, Mod: mod}
	if mod == 0 && code >= ' ' && code <= '~' {
		k.Text = string(code)
	}

	return k
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()

	if cmd == nil {
		return false
	}

	_, ok := cmd().(tea.QuitMsg)

	return ok
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	presets := display.Presets()

	tcs := map[string]struct {
		initial string
		want    string
		keys    []tea.KeyPressMsg
		chosen  bool
	}{
		"enter keeps initial": {
			initial: "medium",
			keys:    []tea.KeyPressMsg{press(tea.KeyEnter, 0)},
			want:    "medium",
			chosen:  true,
		},
		"down then enter": {
			initial: "best",
			keys:    []tea.KeyPressMsg{press(tea.KeyDown, 0), press(tea.KeyEnter, 0)},
			want:    "high",
			chosen:  true,
		},
		"up wraps": {
			initial: "best",
			keys:    []tea.KeyPressMsg{press(tea.KeyUp, 0), press(tea.KeyEnter, 0)},
			want:    presets[len(presets)-1].Name,
			chosen:  true,
		},
		"vim keys": {
			initial: "best",
			keys:    []tea.KeyPressMsg{press('j', 0), press('j', 0), press('k', 0), press(tea.KeyEnter, 0)},
			want:    "high",
			chosen:  true,
		},
		"number selects": {
			initial: "best",
			keys:    []tea.KeyPressMsg{press('3', 0)},
			want:    "medium",
			chosen:  true,
		},
		"unknown initial starts at first": {
			initial: "nope",
			keys:    []tea.KeyPressMsg{press(tea.KeyEnter, 0)},
			want:    presets[0].Name,
			chosen:  true,
		},
		"escape cancels": {
			initial: "low",
			keys:    []tea.KeyPressMsg{press(tea.KeyDown, 0), press(tea.KeyEscape, 0)},
		},
		"ctrl c cancels": {
			initial: "low",
			keys:    []tea.KeyPressMsg{press('c', tea.ModCtrl)},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := setup.NewModel(presets, tc.initial)
			assert.Nil(t, m.Init())

			var quit bool

			for _, k := range tc.keys {
				require.False(t, quit, "key after quit")

				_, cmd := m.Update(k)
				quit = isQuit(t, cmd)
			}

			assert.True(t, quit)

			got, ok := m.Selected()
			require.Equal(t, tc.chosen, ok)

			if tc.chosen {
				assert.Equal(t, tc.want, got.Name)
			}
		})
	}
}

func TestUpdateIgnoresOtherMessages(t *testing.T) {
	t.Parallel()

	m := setup.NewModel(display.Presets(), "low")

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)

	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestView(t *testing.T) {
	t.Parallel()

	m := setup.NewModel(display.Presets(), "high")
	out := m.String()

	for _, p := range display.Presets() {
		assert.Contains(t, out, p.Name)
		assert.Contains(t, out, p.Metrics.String())
	}

	assert.Contains(t, out, "> 2. high")
}
