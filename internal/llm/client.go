package llm

import (
	"context"
	"time"
)

// Client defines the interface for inference backends. Extract performs
// schema-constrained structured extraction; Generate returns free-form text.
type Client interface {
	Extract(ctx context.Context, prompt string) (ExtractionResponse, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// ExtractionResponse mirrors the schema contract sent to the backend. The
// cycle and category fields are free-text hints; mapping them onto the
// closed enumerations is the extraction adapter's job.
type ExtractionResponse struct {
	ServiceName     string  `json:"serviceName"`
	Currency        string  `json:"currency"`
	BillingCycle    string  `json:"billingCycle"`
	NextRenewalDate string  `json:"nextRenewalDate"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	IsSubscription  bool    `json:"isSubscription"`
}

// Config holds configuration for inference backend clients.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	RateLimit   int
	MaxRetries  int
	RetryDelay  time.Duration
}
