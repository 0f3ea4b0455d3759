package engine

import (
	"context"
	"sync"

	"github.com/subwatch-ai/subwatch/internal/model"
)

// MockMailSource is a test implementation of the MailSource interface.
type MockMailSource struct {
	Err      error
	Emails   []model.RawEmail
	Searches int
	mu       sync.Mutex
}

// Search returns the configured emails or error.
func (m *MockMailSource) Search(_ context.Context, _ string, _ int64) ([]model.RawEmail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Searches++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Emails, nil
}

// MockExtractor is a test implementation of the Extractor interface. It
// returns pre-programmed results keyed by email id; ids without an entry
// behave as "no candidate".
type MockExtractor struct {
	Results map[string]model.RawFields
	Err     error
	Calls   []string
	mu      sync.Mutex
}

// Extract returns the programmed fields for the email id, if any.
func (m *MockExtractor) Extract(_ context.Context, email model.RawEmail) (model.RawFields, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, email.ID)
	if m.Err != nil {
		return model.RawFields{}, false, m.Err
	}

	fields, ok := m.Results[email.ID]
	return fields, ok, nil
}
