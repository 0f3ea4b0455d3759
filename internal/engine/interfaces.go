package engine

import (
	"context"

	"github.com/subwatch-ai/subwatch/internal/model"
)

// MailSource defines the contract for the mail connector.
type MailSource interface {
	Search(ctx context.Context, query string, maxResults int64) ([]model.RawEmail, error)
}

// Extractor defines the contract for the per-email extraction adapter.
// The bool result reports whether a candidate was produced; per-email
// backend failures are absorbed by the implementation and yield false.
type Extractor interface {
	Extract(ctx context.Context, email model.RawEmail) (model.RawFields, bool, error)
}
