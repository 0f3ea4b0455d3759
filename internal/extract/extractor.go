// Package extract converts raw emails into candidate subscription records
// via a schema-constrained inference call. The backend is treated as an
// untrusted oracle: its output is validated and coerced before anything
// downstream sees it, and per-email failures never abort a batch.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/subwatch-ai/subwatch/internal/common"
	"github.com/subwatch-ai/subwatch/internal/llm"
	"github.com/subwatch-ai/subwatch/internal/model"
)

// maxBodyChars bounds how much email body is sent to the backend, to cap
// cost and latency per message.
const maxBodyChars = 5000

// extractionConfidence is attached to every successful extraction,
// distinguishing scanned records from manually seeded ones.
const extractionConfidence = 0.95

// Extractor produces zero-or-one candidate subscription per email.
type Extractor struct {
	client    llm.Client
	limiter   *llm.RateLimiter
	logger    *slog.Logger
	retryOpts common.RetryOptions
}

// New creates an extractor around an inference client.
func New(client llm.Client, cfg llm.Config, logger *slog.Logger) *Extractor {
	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 2
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Extractor{
		client:    client,
		limiter:   llm.NewRateLimiter(cfg.RateLimit),
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Extract analyzes one email. The bool result reports whether a candidate
// was produced; backend failures and negative detections both yield false.
// Only context cancellation is returned as an error.
func (e *Extractor) Extract(ctx context.Context, email model.RawEmail) (model.RawFields, bool, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return model.RawFields{}, false, err
	}

	prompt := buildPrompt(email)

	var resp llm.ExtractionResponse
	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = e.client.Extract(ctx, prompt)
		if callErr != nil {
			return &common.RetryableError{Err: callErr, Retryable: true}
		}
		return nil
	}, e.retryOpts)
	if err != nil {
		if ctx.Err() != nil {
			return model.RawFields{}, false, ctx.Err()
		}
		// Soft failure: one bad email must not kill the scan.
		e.logger.Warn("extraction failed, skipping email",
			"email_id", email.ID,
			"subject", email.Subject,
			"error", err)
		return model.RawFields{}, false, nil
	}

	if !resp.IsSubscription {
		e.logger.Debug("no subscription detected",
			"email_id", email.ID,
			"subject", email.Subject)
		return model.RawFields{}, false, nil
	}

	confidence := extractionConfidence
	fields := model.RawFields{
		ServiceName:     resp.ServiceName,
		Amount:          resp.Amount,
		Currency:        resp.Currency,
		BillingCycle:    CycleFromHint(resp.BillingCycle),
		NextRenewalDate: parseRenewalDate(resp.NextRenewalDate),
		Category:        CategoryFromHint(resp.Category),
		Description:     resp.Description,
		ConfidenceScore: &confidence,
	}

	e.logger.Info("subscription extracted",
		"email_id", email.ID,
		"service", resp.ServiceName,
		"amount", resp.Amount,
		"cycle", fields.BillingCycle)

	return fields, true, nil
}

// buildPrompt frames one email for the extraction call. The body is
// truncated to a bounded prefix before being sent.
func buildPrompt(email model.RawEmail) string {
	body := email.Body
	if body == "" {
		body = email.Snippet
	}

	return fmt.Sprintf(`Analyze the following email content. It was received on %s.
Determine if it is a subscription receipt, invoice, or renewal notice.
If it is, extract the details as a JSON object with these fields:
isSubscription (boolean), serviceName, amount (number), currency (code like USD),
billingCycle (Monthly, Yearly, Weekly, or Unknown),
nextRenewalDate (estimated, ISO format YYYY-MM-DD, calculated from the cycle),
category (one of: Entertainment, Utilities, SaaS, Business, Shopping, Health, Other),
description (brief description of the plan).

Email Content:
%s`, email.Date, truncate(body, maxBodyChars))
}

// CycleFromHint maps a free-text billing cycle hint onto the closed set.
// Weekly has no inbound keyword; anything unrecognized is Unknown.
func CycleFromHint(hint string) model.BillingCycle {
	lower := strings.ToLower(hint)
	switch {
	case strings.Contains(lower, "month"):
		return model.CycleMonthly
	case strings.Contains(lower, "year"), strings.Contains(lower, "annual"):
		return model.CycleYearly
	default:
		return model.CycleUnknown
	}
}

// CategoryFromHint accepts a category hint only on exact match with the
// closed set. Anything else is Other, guarding against hallucinated values.
func CategoryFromHint(hint string) model.Category {
	c := model.Category(hint)
	if c.Valid() {
		return c
	}
	return model.CategoryOther
}

// parseRenewalDate parses the backend's estimated renewal date. A missing
// or malformed date yields the zero time, which downstream views treat as
// "renewal unknown" rather than defaulting to now.
func parseRenewalDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
