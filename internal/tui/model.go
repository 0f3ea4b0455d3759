// Package tui implements the interactive subscription dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/subwatch-ai/subwatch/internal/advisor"
	"github.com/subwatch-ai/subwatch/internal/aggregate"
	"github.com/subwatch-ai/subwatch/internal/engine"
	"github.com/subwatch-ai/subwatch/internal/model"
)

// State represents the current state of the dashboard.
type State int

const (
	StateList State = iota
	StateDetail
	StateSearch
	StateHelp
)

// Model holds the dashboard state.
type Model struct {
	ctx       context.Context
	session   *engine.Session
	engine    *engine.ScanEngine
	advisor   *advisor.Advisor
	lastError error
	search    textinput.Model
	help      help.Model
	keymap    KeyMap
	subs      []model.Subscription
	tips      []string
	filter    string
	category  string
	width     int
	height    int
	cursor    int
	state     State
	scanning  bool
	quitting  bool
}

// categoryCycle is the Tab order for the category filter.
func categoryCycle() []string {
	cycle := []string{aggregate.AllCategories}
	for _, c := range model.Categories() {
		cycle = append(cycle, string(c))
	}
	return cycle
}

func newModel(ctx context.Context, session *engine.Session, eng *engine.ScanEngine, adv *advisor.Advisor) Model {
	search := textinput.New()
	search.Placeholder = "service name..."
	search.CharLimit = 64

	m := Model{
		ctx:      ctx,
		session:  session,
		engine:   eng,
		advisor:  adv,
		search:   search,
		help:     help.New(),
		keymap:   DefaultKeyMap(),
		category: aggregate.AllCategories,
		state:    StateList,
	}
	m.refresh()
	return m
}

// refresh re-reads the working set through the active filters.
func (m *Model) refresh() {
	m.subs = aggregate.Filter(m.session.Subscriptions().List(), m.filter, m.category)
	if m.cursor >= len(m.subs) {
		m.cursor = len(m.subs) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.loadTips())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case scanDoneMsg:
		m.scanning = false
		m.lastError = msg.err
		m.refresh()
		if msg.err == nil {
			return m, m.loadTips()
		}
		return m, nil

	case tipsLoadedMsg:
		m.tips = msg.tips
		return m, nil

	case errorMsg:
		m.lastError = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	// Search mode captures all input except exit keys.
	if m.state == StateSearch {
		switch {
		case key.Matches(msg, m.keymap.Back):
			m.state = StateList
			m.search.Blur()
			return m, nil
		case msg.String() == "enter":
			m.state = StateList
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.filter = m.search.Value()
		m.refresh()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.state == StateDetail || m.state == StateHelp {
			m.state = StateList
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Back):
		m.state = StateList
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		if m.state == StateHelp {
			m.state = StateList
		} else {
			m.state = StateHelp
		}
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.subs)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keymap.End):
		if len(m.subs) > 0 {
			m.cursor = len(m.subs) - 1
		}
		return m, nil

	case key.Matches(msg, m.keymap.Select):
		if len(m.subs) > 0 {
			m.state = StateDetail
		}
		return m, nil

	case key.Matches(msg, m.keymap.Delete):
		if len(m.subs) > 0 {
			id := m.subs[m.cursor].ID
			if err := m.session.Subscriptions().Remove(id); err != nil {
				m.lastError = err
			}
			m.state = StateList
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Scan):
		if m.scanning {
			return m, nil
		}
		m.scanning = true
		m.lastError = nil
		return m, m.runScan()

	case key.Matches(msg, m.keymap.CycleCategory):
		m.category = nextCategory(m.category)
		m.cursor = 0
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keymap.ToggleSearch):
		m.state = StateSearch
		m.search.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

// nextCategory advances the Tab filter, wrapping at the end.
func nextCategory(current string) string {
	cycle := categoryCycle()
	for i, c := range cycle {
		if c == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m Model) runScan() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 5*time.Minute)
		defer cancel()

		result, err := m.engine.Scan(ctx)
		return scanDoneMsg{result: result, err: err}
	}
}

func (m Model) loadTips() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, time.Minute)
		defer cancel()

		return tipsLoadedMsg{tips: m.advisor.SavingsTips(ctx, m.session.Subscriptions().List())}
	}
}
