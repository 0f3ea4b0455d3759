package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subwatch-ai/subwatch/internal/advisor"
	"github.com/subwatch-ai/subwatch/internal/aggregate"
	"github.com/subwatch-ai/subwatch/internal/engine"
	"github.com/subwatch-ai/subwatch/internal/llm"
	"github.com/subwatch-ai/subwatch/internal/model"
)

type stubLLM struct{}

func (stubLLM) Extract(ctx context.Context, prompt string) (llm.ExtractionResponse, error) {
	return llm.ExtractionResponse{}, nil
}

func (stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := engine.NewSession()
	session.SignIn(model.User{Name: "Alex Doe", Email: "alex@example.com"})

	eng := engine.New(&engine.MockMailSource{}, &engine.MockExtractor{}, session, engine.Config{}, logger)
	adv := advisor.New(stubLLM{}, logger)

	return newModel(context.Background(), session, eng, adv)
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated
}

func TestInitialStateShowsSeeds(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, StateList, m.state)
	assert.Len(t, m.subs, 4)
	assert.Equal(t, aggregate.AllCategories, m.category)
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyPress('j'))
	m = update(t, m, keyPress('j'))
	assert.Equal(t, 2, m.cursor)

	m = update(t, m, keyPress('k'))
	assert.Equal(t, 1, m.cursor)

	m = update(t, m, keyPress('G'))
	assert.Equal(t, 3, m.cursor)

	m = update(t, m, keyPress('g'))
	assert.Equal(t, 0, m.cursor)
}

func TestCursorStopsAtBounds(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyPress('k'))
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 10; i++ {
		m = update(t, m, keyPress('j'))
	}
	assert.Equal(t, 3, m.cursor)
}

func TestCategoryCycling(t *testing.T) {
	m := newTestModel(t)
	cycle := categoryCycle()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, cycle[1], m.category)

	// Wraps back to All after a full cycle.
	for i := 0; i < len(cycle)-1; i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Equal(t, aggregate.AllCategories, m.category)
}

func TestCategoryFilterNarrowsList(t *testing.T) {
	m := newTestModel(t)

	m.category = string(model.CategoryEntertainment)
	m.refresh()

	require.NotEmpty(t, m.subs)
	for _, sub := range m.subs {
		assert.Equal(t, model.CategoryEntertainment, sub.Category)
	}
}

func TestSearchFilters(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyPress('/'))
	assert.Equal(t, StateSearch, m.state)

	for _, r := range "netflix" {
		m = update(t, m, keyPress(r))
	}
	require.Len(t, m.subs, 1)
	assert.Equal(t, "Netflix", m.subs[0].ServiceName)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateList, m.state)
	assert.Len(t, m.subs, 1)
}

func TestDeleteRemovesFromWorkingSet(t *testing.T) {
	m := newTestModel(t)
	id := m.subs[0].ID

	m = update(t, m, keyPress('d'))

	assert.Len(t, m.subs, 3)
	assert.False(t, m.session.Subscriptions().Has(id))
}

func TestDetailView(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateDetail, m.state)
	assert.Contains(t, m.View(), m.subs[0].ServiceName)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateList, m.state)
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyPress('?'))
	assert.Equal(t, StateHelp, m.state)

	m = update(t, m, keyPress('?'))
	assert.Equal(t, StateList, m.state)
}

func TestScanDoneRefreshesList(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.session.Subscriptions().Add(model.Subscription{ID: "new-1", ServiceName: "Figma", Currency: "USD"}))

	m = update(t, m, scanDoneMsg{result: engine.ScanResult{Fetched: 1, Added: 1}})

	assert.False(t, m.scanning)
	assert.Len(t, m.subs, 5)
}

func TestListViewRendersRows(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	assert.Contains(t, view, "SubWatch")
	assert.Contains(t, view, "Netflix")
	assert.Contains(t, view, "Spotify")
}

func TestRenewalCountdown(t *testing.T) {
	m := newTestModel(t)
	sub := m.subs[0]

	label := renewalCountdown(sub, sub.NextRenewalDate.AddDate(0, 0, -3))
	assert.Equal(t, "renews in 3d", label)

	label = renewalCountdown(sub, sub.NextRenewalDate)
	assert.Equal(t, "renews today", label)

	assert.Empty(t, renewalCountdown(model.Subscription{}, sub.NextRenewalDate))
}
