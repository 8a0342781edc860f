package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/daytally/internal/ledger"
)

var testNow = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

type memBlobs struct {
	data map[string][]byte
}

func (m *memBlobs) Get(_ context.Context, name string) ([]byte, error) {
	v, ok := m.data[name]
	if !ok {
		return nil, ledger.ErrBlobNotFound
	}
	return v, nil
}

func (m *memBlobs) Put(_ context.Context, name string, data []byte) error {
	m.data[name] = append([]byte(nil), data...)
	return nil
}

func newTestStore(t *testing.T) (*ledger.Store, *memBlobs) {
	t.Helper()
	blobs := &memBlobs{data: map[string][]byte{}}
	return ledger.Load(context.Background(), blobs, zerolog.Nop()), blobs
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends one key to the app and returns the command it produced
// without running it; focus commands block on cursor blink timers.
func press(t *testing.T, a App, k string) (App, tea.Cmd) {
	t.Helper()
	next, cmd := a.Update(keyMsg(k))
	got, ok := next.(App)
	require.True(t, ok, "Update returned %T", next)
	return got, cmd
}

func pressAll(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		a, _ = press(t, a, k)
	}
	return a
}

func typeText(t *testing.T, a App, text string) App {
	t.Helper()
	for _, r := range text {
		a, _ = press(t, a, string(r))
	}
	return a
}

// deliver runs cmd, which must produce msg synchronously, and feeds the
// result back into the app.
func deliver(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := a.Update(cmd())
	got, ok := next.(App)
	require.True(t, ok, "Update returned %T", next)
	return got
}

func newTestApp(t *testing.T, store Store, summarizer Summarizer) App {
	t.Helper()
	return New(context.Background(), store, Options{
		Summarizer: summarizer,
		Location:   time.UTC,
		WeekStart:  time.Sunday,
		Now:        func() time.Time { return testNow },
		Log:        zerolog.Nop(),
	})
}

func ledgerStats(total float64, days int) ledger.Stats {
	return ledger.Stats{Total: total, DaysTracked: days, DailyAverage: total / float64(days)}
}
