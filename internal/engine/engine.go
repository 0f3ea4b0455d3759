// Package engine orchestrates inbox scans: fetching candidate emails,
// driving per-email extraction sequentially, and merging accepted
// candidates into the session working set.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/subwatch-ai/subwatch/internal/common"
	"github.com/subwatch-ai/subwatch/internal/model"
)

// ScanResult reports what one scan did. Fetched distinguishes "nothing
// scanned" from "nothing new detected".
type ScanResult struct {
	Fetched int
	Added   int
}

// ScanEngine runs inbox scans against a session. One scan at a time: the
// in-progress flag rejects re-entry rather than queueing.
type ScanEngine struct {
	mail       MailSource
	extractor  Extractor
	session    *Session
	logger     *slog.Logger
	query      string
	OnProgress func(done, total int)
	maxResults int64
	scanning   bool
	mu         sync.Mutex
}

// Config holds scan engine options.
type Config struct {
	Query      string
	MaxResults int64
}

// New creates a scan engine bound to a session.
func New(mail MailSource, extractor Extractor, session *Session, cfg Config, logger *slog.Logger) *ScanEngine {
	query := cfg.Query
	if query == "" {
		query = "subject:(subscription OR receipt OR invoice OR renew OR payment) newer_than:1y"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	return &ScanEngine{
		mail:       mail,
		extractor:  extractor,
		session:    session,
		logger:     logger,
		query:      query,
		maxResults: maxResults,
	}
}

// Scanning reports whether a scan is currently in progress.
func (e *ScanEngine) Scanning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scanning
}

// Scan fetches candidate emails and extracts subscriptions from them,
// sequentially, one inference call at a time. Per-email extraction
// failures are absorbed; connector failures abort the scan and reset
// state so it can be retried.
func (e *ScanEngine) Scan(ctx context.Context) (ScanResult, error) {
	if !e.session.Authenticated() {
		return ScanResult{}, common.ErrNotAuthenticated
	}

	e.mu.Lock()
	if e.scanning {
		e.mu.Unlock()
		return ScanResult{}, common.ErrScanInProgress
	}
	e.scanning = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.scanning = false
		e.mu.Unlock()
	}()

	emails, err := e.mail.Search(ctx, e.query, e.maxResults)
	if err != nil {
		e.logger.Error("mail search failed", "error", err)
		return ScanResult{}, fmt.Errorf("%w: %v", common.ErrMailConnector, err)
	}

	e.logger.Info("fetched candidate emails", "count", len(emails))

	set := e.session.Subscriptions()
	seen := make(map[string]bool)
	var batch []model.Subscription

	for i, email := range emails {
		if e.OnProgress != nil {
			e.OnProgress(i, len(emails))
		}

		// One record per source email, ever: skip ids already merged in a
		// previous scan or accepted earlier in this batch.
		if seen[email.ID] || set.Has(email.ID) {
			continue
		}
		// One extraction per source email, even when its first occurrence
		// in the batch yields no candidate.
		seen[email.ID] = true

		fields, ok, err := e.extractor.Extract(ctx, email)
		if err != nil {
			return ScanResult{Fetched: len(emails)}, err
		}
		if !ok {
			continue
		}

		batch = append(batch, model.Normalize(email.ID, fields))
	}

	if e.OnProgress != nil {
		e.OnProgress(len(emails), len(emails))
	}

	// The batch lands in one atomic mutation; observers never see a
	// half-applied scan.
	added := set.Merge(batch)

	e.logger.Info("scan complete",
		"fetched", len(emails),
		"added", added,
		"total", set.Len())

	return ScanResult{Fetched: len(emails), Added: added}, nil
}
