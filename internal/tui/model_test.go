package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
)

func testModel(t *testing.T, timeline string) Model {
	t.Helper()
	data := config.DataConfig{
		Dir:          "../../public/data",
		SummaryFile:  "summary_data.json",
		RegionalFile: "regional_detailed.json",
		TimelineFile: timeline,
	}
	return New(context.Background(), fetcher.NewFileFetcher(data.Dir), loader.ResourcesFrom(data), 40)
}

// deliver runs the current load synchronously and feeds its result back.
func deliver(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, loadCmd(m.ctx, m.loader, m.gen)())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_LoadsAndRenders(t *testing.T) {
	m := testModel(t, "animated_timeline.json")
	assert.Contains(t, m.View(), "Loading dashboard data")

	m = deliver(t, m)
	assert.Equal(t, loader.StateReady, m.store.State().Load)
	assert.Contains(t, m.View(), "London")
}

func TestModel_LoadFailure(t *testing.T) {
	m := deliver(t, testModel(t, "missing.json"))

	assert.Equal(t, loader.StateFailed, m.store.State().Load)
	assert.Contains(t, m.View(), "could not be loaded")
}

func TestModel_SelectAndClose(t *testing.T) {
	m := deliver(t, testModel(t, "animated_timeline.json"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "South East", m.store.State().Selection.Name())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.store.State().Selection.Name(), "second click toggles off")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.store.State().Selection.Name())
}

func TestModel_CursorClamped(t *testing.T) {
	m := deliver(t, testModel(t, "animated_timeline.json"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
	for range 10 {
		m = update(t, m, key('j'))
	}
	assert.Equal(t, 3, m.cursor)
}

func TestModel_ReloadDropsStaleResult(t *testing.T) {
	m := deliver(t, testModel(t, "animated_timeline.json"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "London", m.store.State().Selection.Name())

	old := m
	m = update(t, m, key('r'))
	assert.Equal(t, loader.StateLoading, m.store.State().Load)

	// The previous loader was closed; its late result carries an old generation.
	m = update(t, m, loadedMsg{gen: old.gen, err: loader.ErrClosed})
	assert.Equal(t, loader.StateLoading, m.store.State().Load)

	m = deliver(t, m)
	assert.Equal(t, loader.StateReady, m.store.State().Load)
	assert.Equal(t, "London", m.store.State().Selection.Name())
}

func TestModel_SmoothScroll(t *testing.T) {
	m := deliver(t, testModel(t, "animated_timeline.json"))

	next, cmd := m.Update(key('n'))
	m = next.(Model)
	require.NotNil(t, cmd)
	require.NotNil(t, m.store.State().ScrollTarget)

	for i := 0; i < 200 && cmd != nil; i++ {
		next, cmd = m.Update(scrollTickMsg{})
		m = next.(Model)
	}
	assert.Nil(t, cmd)
	assert.InDelta(t, 40, m.store.State().ScrollY, 1e-9)
	assert.Nil(t, m.store.State().ScrollTarget)
}

func TestModel_PageScroll(t *testing.T) {
	m := deliver(t, testModel(t, "animated_timeline.json"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.InDelta(t, 20, m.store.State().ScrollY, 1e-9)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.InDelta(t, 0, m.store.State().ScrollY, 1e-9)
}

func TestModel_QuitTearsDown(t *testing.T) {
	m := deliver(t, testModel(t, "animated_timeline.json"))

	next, cmd := m.Update(key('q'))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.store.State().TornDown)
	assert.Empty(t, m.View())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.store.State().Selection.Name())
}

func TestModel_WindowSize(t *testing.T) {
	m := testModel(t, "animated_timeline.json")
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.Equal(t, 120, m.width)
	assert.InDelta(t, 30, m.store.State().Viewport, 1e-9)
}
