package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subwatch-ai/subwatch/internal/common"
	"github.com/subwatch-ai/subwatch/internal/model"
)

func demoUser() model.User {
	return model.User{Name: "Demo User", Email: "demo@example.com"}
}

func newTestEngine(mail MailSource, extractor Extractor) (*ScanEngine, *Session) {
	session := NewSession()
	session.SignIn(demoUser())
	eng := New(mail, extractor, session, Config{}, slog.Default())
	return eng, session
}

func confidence(v float64) *float64 { return &v }

func TestScanRequiresAuthentication(t *testing.T) {
	session := NewSession()
	eng := New(&MockMailSource{}, &MockExtractor{}, session, Config{}, slog.Default())

	_, err := eng.Scan(context.Background())
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestScanEndToEnd(t *testing.T) {
	mail := &MockMailSource{Emails: []model.RawEmail{
		{ID: "email-1", Subject: "Your Netflix receipt", Body: "Thanks for paying $15.49"},
	}}
	extractor := &MockExtractor{Results: map[string]model.RawFields{
		"email-1": {
			ServiceName:     "Netflix",
			Amount:          15.49,
			Currency:        "USD",
			BillingCycle:    model.CycleMonthly,
			Category:        model.CategoryEntertainment,
			ConfidenceScore: confidence(0.95),
		},
	}}
	eng, session := newTestEngine(mail, extractor)
	baseline := session.Subscriptions().Len()

	result, err := eng.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Fetched: 1, Added: 1}, result)

	got, ok := session.Subscriptions().Get("email-1")
	require.True(t, ok, "record id equals the source email id")
	assert.Equal(t, "Netflix", got.ServiceName)
	assert.Equal(t, "https://logo.clearbit.com/netflix.com", got.LogoURL)
	require.NotNil(t, got.ConfidenceScore)
	assert.InDelta(t, 0.95, *got.ConfidenceScore, 0.001)
	assert.Equal(t, baseline+1, session.Subscriptions().Len())
}

func TestScanBatchPartialSuccess(t *testing.T) {
	mail := &MockMailSource{Emails: []model.RawEmail{
		{ID: "email-1"},
		{ID: "email-2"},
		{ID: "email-3"},
	}}
	// email-2 has no result entry: extraction "failed" for it.
	extractor := &MockExtractor{Results: map[string]model.RawFields{
		"email-1": {ServiceName: "Netflix", Amount: 15.49},
		"email-3": {ServiceName: "Spotify", Amount: 10.99},
	}}
	eng, session := newTestEngine(mail, extractor)
	baseline := session.Subscriptions().Len()

	result, err := eng.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, baseline+2, session.Subscriptions().Len())
}

func TestScanIsSequential(t *testing.T) {
	mail := &MockMailSource{Emails: []model.RawEmail{
		{ID: "email-1"}, {ID: "email-2"}, {ID: "email-3"},
	}}
	extractor := &MockExtractor{}
	eng, _ := newTestEngine(mail, extractor)

	_, err := eng.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"email-1", "email-2", "email-3"}, extractor.Calls,
		"emails are processed in connector order, one at a time")
}

func TestRescanNeverGrowsWorkingSet(t *testing.T) {
	mail := &MockMailSource{Emails: []model.RawEmail{{ID: "email-1"}}}
	extractor := &MockExtractor{Results: map[string]model.RawFields{
		"email-1": {ServiceName: "Netflix"},
	}}
	eng, session := newTestEngine(mail, extractor)

	first, err := eng.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Added)

	sizeAfterFirst := session.Subscriptions().Len()

	second, err := eng.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Fetched)
	assert.Equal(t, 0, second.Added, "re-scanning the same emails adds nothing")
	assert.Equal(t, sizeAfterFirst, session.Subscriptions().Len())
}

func TestScanSkipsDuplicateWithoutExtractionCall(t *testing.T) {
	mail := &MockMailSource{Emails: []model.RawEmail{
		{ID: "email-1"}, {ID: "email-1"},
	}}
	extractor := &MockExtractor{Results: map[string]model.RawFields{
		"email-1": {ServiceName: "Netflix"},
	}}
	eng, _ := newTestEngine(mail, extractor)

	result, err := eng.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, []string{"email-1"}, extractor.Calls,
		"an accepted id blocks later duplicates in the same batch")
}

func TestScanExtractsRejectedDuplicateOnlyOnce(t *testing.T) {
	// No programmed result: email-1 extracts as "no candidate".
	mail := &MockMailSource{Emails: []model.RawEmail{
		{ID: "email-1"}, {ID: "email-1"},
	}}
	extractor := &MockExtractor{}
	eng, _ := newTestEngine(mail, extractor)

	result, err := eng.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, []string{"email-1"}, extractor.Calls,
		"a rejected id still blocks later duplicates in the same batch")
}

func TestScanConnectorFailure(t *testing.T) {
	mail := &MockMailSource{Err: errors.New("auth expired")}
	eng, session := newTestEngine(mail, &MockExtractor{})
	baseline := session.Subscriptions().Len()

	_, err := eng.Scan(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMailConnector)
	assert.Equal(t, baseline, session.Subscriptions().Len(), "working set keeps last-known-good state")

	// State resets so the scan can be retried.
	assert.False(t, eng.Scanning())
	mail.Err = nil
	_, err = eng.Scan(context.Background())
	assert.NoError(t, err)
}

// blockingMailSource holds Search until released, to observe the
// in-progress gate from another goroutine.
type blockingMailSource struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingMailSource) Search(ctx context.Context, _ string, _ int64) ([]model.RawEmail, error) {
	close(b.started)
	select {
	case <-b.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestScanRejectsReentry(t *testing.T) {
	mail := &blockingMailSource{release: make(chan struct{}), started: make(chan struct{})}
	eng, _ := newTestEngine(mail, &MockExtractor{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := eng.Scan(context.Background())
		assert.NoError(t, err)
	}()

	select {
	case <-mail.started:
	case <-time.After(time.Second):
		t.Fatal("first scan never started")
	}

	_, err := eng.Scan(context.Background())
	assert.ErrorIs(t, err, common.ErrScanInProgress, "second scan is rejected, not queued")

	close(mail.release)
	wg.Wait()
	assert.False(t, eng.Scanning())
}

func TestScanReportsProgress(t *testing.T) {
	mail := &MockMailSource{Emails: []model.RawEmail{{ID: "a"}, {ID: "b"}}}
	eng, _ := newTestEngine(mail, &MockExtractor{})

	var updates []int
	eng.OnProgress = func(done, total int) {
		assert.Equal(t, 2, total)
		updates = append(updates, done)
	}

	_, err := eng.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, updates)
}

func TestSessionLifecycle(t *testing.T) {
	session := NewSession()
	assert.False(t, session.Authenticated())

	session.SignIn(demoUser())
	assert.True(t, session.Authenticated())
	assert.Equal(t, 4, session.Subscriptions().Len(), "sign-in seeds the demo records")

	user, ok := session.User()
	require.True(t, ok)
	assert.Equal(t, "demo@example.com", user.Email)

	session.SignOut()
	assert.False(t, session.Authenticated())
	assert.Equal(t, 0, session.Subscriptions().Len())
}
