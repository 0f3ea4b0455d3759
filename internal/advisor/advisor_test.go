package advisor

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subwatch-ai/subwatch/internal/llm"
	"github.com/subwatch-ai/subwatch/internal/model"
)

// mockClient is a test implementation of llm.Client.
type mockClient struct {
	generateErr error
	reply       string
	lastPrompt  string
}

func (m *mockClient) Extract(context.Context, string) (llm.ExtractionResponse, error) {
	return llm.ExtractionResponse{}, errors.New("not implemented")
}

func (m *mockClient) Generate(_ context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.reply, nil
}

func someSubs() []model.Subscription {
	return []model.Subscription{
		{ServiceName: "Netflix", Currency: "USD", Amount: 15.49, BillingCycle: model.CycleMonthly},
		{ServiceName: "Amazon Prime", Currency: "USD", Amount: 139, BillingCycle: model.CycleYearly},
	}
}

func TestSavingsTips(t *testing.T) {
	client := &mockClient{reply: `["Drop Netflix.", "Go annual on Spotify.", "Bundle streaming."]`}
	a := New(client, slog.Default())

	tips := a.SavingsTips(context.Background(), someSubs())
	assert.Equal(t, []string{"Drop Netflix.", "Go annual on Spotify.", "Bundle streaming."}, tips)
	assert.Contains(t, client.lastPrompt, "Netflix: USD 15.49 (Monthly)")
	assert.Contains(t, client.lastPrompt, "Amazon Prime: USD 139.00 (Yearly)")
}

func TestSavingsTipsFallbackOnError(t *testing.T) {
	a := New(&mockClient{generateErr: errors.New("backend down")}, slog.Default())

	tips := a.SavingsTips(context.Background(), someSubs())
	require.Len(t, tips, 3)
	assert.Equal(t, "Review your unused subscriptions.", tips[0])
}

func TestSavingsTipsFallbackOnBadPayload(t *testing.T) {
	a := New(&mockClient{reply: "here are some tips: save money"}, slog.Default())

	tips := a.SavingsTips(context.Background(), someSubs())
	assert.Equal(t, fallbackTips, tips)
}

func TestSavingsTipsEmptyWorkingSet(t *testing.T) {
	client := &mockClient{}
	a := New(client, slog.Default())

	tips := a.SavingsTips(context.Background(), nil)
	assert.Equal(t, fallbackTips, tips)
	assert.Empty(t, client.lastPrompt, "no inference call for an empty set")
}

func TestCancellationDraft(t *testing.T) {
	client := &mockClient{reply: "Dear Netflix, please cancel my account effective immediately."}
	a := New(client, slog.Default())

	draft := a.CancellationDraft(context.Background(), model.Subscription{ServiceName: "Netflix"}, "Demo User")
	assert.Equal(t, "Dear Netflix, please cancel my account effective immediately.", draft)
	assert.Contains(t, client.lastPrompt, "Service: Netflix")
	assert.Contains(t, client.lastPrompt, "My Name: Demo User")
}

func TestCancellationDraftFallback(t *testing.T) {
	a := New(&mockClient{generateErr: errors.New("backend down")}, slog.Default())

	draft := a.CancellationDraft(context.Background(), model.Subscription{ServiceName: "Netflix"}, "Demo User")
	assert.Equal(t, fallbackCancellation, draft)

	a = New(&mockClient{reply: "   "}, slog.Default())
	draft = a.CancellationDraft(context.Background(), model.Subscription{ServiceName: "Netflix"}, "Demo User")
	assert.Equal(t, fallbackCancellation, draft)
}
